/*
Package books contains the business records of the engine and the domain
rules over them.

PURPOSE:
  Defines the typed records (clients, invoices, payments, products,
  expenses, contracts) that the store persists and the API exposes, plus
  the rules that derive state from them: invoice status, the contract
  lifecycle, and the mapping of invoices/payments onto statement lines.

KEY CONCEPTS IN THIS FILE (types.go):
  - FlexAmount: a decimal that decodes tolerantly from loose JSON
  - Invoice/Payment: the two record streams that feed the statement
  - Contract: a document with an explicit status lifecycle

BOUNDARY COERCION:
  External data is never trusted into arithmetic. Amounts arrive as
  numbers, quoted strings, null, or garbage; FlexAmount coerces all of
  those to a decimal (garbage becomes zero, never an error). Dates use
  caldate.Date, which is tolerant the same way.

SEE ALSO:
  - status.go: Invoice status derivation and contract transitions
  - statement.go: Mapping records onto the ledger engine
  - store.go: Persistence interface
*/
package books

import (
	"bytes"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/books-engine/caldate"
)

// =============================================================================
// FLEX AMOUNT - Tolerant decimal for boundary decoding
// =============================================================================

// FlexAmount is a decimal amount that decodes from loose external JSON.
// Numbers, quoted numbers, null, and unparseable values are all
// accepted; anything non-numeric coerces to zero. Decoding never fails.
type FlexAmount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) FlexAmount { return FlexAmount{Decimal: d} }

func AmountFromFloat(f float64) FlexAmount { return FlexAmount{Decimal: decimal.NewFromFloat(f)} }

// ParseAmount coerces a string to an amount; garbage becomes zero.
func ParseAmount(s string) FlexAmount {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return FlexAmount{}
	}
	return FlexAmount{Decimal: d}
}

func (a *FlexAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}
	s := string(bytes.Trim(data, `"`))
	d, err := decimal.NewFromString(s)
	if err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = d
	return nil
}

// =============================================================================
// ENUMERATIONS
// =============================================================================

type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

type InvoiceKind string

const (
	KindInvoice InvoiceKind = "invoice"
	KindOffer   InvoiceKind = "offer" // quotes do not enter the ledger
)

type PaymentMethod string

const (
	MethodCash PaymentMethod = "cash"
	MethodBank PaymentMethod = "bank"
	MethodCard PaymentMethod = "card"
)

type ContractStatus string

const (
	ContractDraft     ContractStatus = "draft"
	ContractSent      ContractStatus = "sent"
	ContractSigned    ContractStatus = "signed"
	ContractActive    ContractStatus = "active"
	ContractExpired   ContractStatus = "expired"
	ContractCancelled ContractStatus = "cancelled"
)

// =============================================================================
// RECORDS
// =============================================================================

// Client is a customer account. Statements are scoped to one client.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	Currency  string // ISO code for display; see currency package
	CreatedAt time.Time
}

// Product is a billable catalog item.
type Product struct {
	ID          string
	Name        string
	Description string
	UnitPrice   FlexAmount
	Currency    string
	CreatedAt   time.Time
}

// Invoice is a debit against a client. Offers (Kind == KindOffer) share
// the shape but never participate in the ledger.
type Invoice struct {
	ID        string
	ClientID  string
	Number    string
	Kind      InvoiceKind
	Status    InvoiceStatus
	IssueDate caldate.Date
	DueDate   caldate.Date
	Total     FlexAmount
	Currency  string
	Notes     string
	CreatedAt time.Time
}

// Payment is a credit against a client. InvoiceID is optional:
// unapplied payments are allowed.
type Payment struct {
	ID        string
	ClientID  string
	InvoiceID string // empty when not applied to a specific invoice
	Number    string
	Date      caldate.Date
	Amount    FlexAmount
	Method    PaymentMethod
	Notes     string
	CreatedAt time.Time
}

// Expense is money the business spent; tracked for reporting only and
// never part of any client statement.
type Expense struct {
	ID          string
	Category    string
	Description string
	Date        caldate.Date
	Amount      FlexAmount
	Currency    string
	CreatedAt   time.Time
}

// Contract is a client agreement with an explicit lifecycle.
// Signing records who signed and when; see status.go for the
// permitted transitions.
type Contract struct {
	ID        string
	ClientID  string
	Title     string
	Body      string
	Status    ContractStatus
	StartDate caldate.Date
	EndDate   caldate.Date
	SignedBy  string
	SignedAt  time.Time
	CreatedAt time.Time
}
