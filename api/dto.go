/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TOLERANT FIELDS:
  Amount fields use books.FlexAmount and date fields use caldate.Date,
  so requests with string amounts, nulls, or malformed dates decode
  without error and coerce per the engine's rules. Validation tags via
  go-playground/validator cover the fields that must be present.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/books-engine/books"
	"github.com/warp/books-engine/caldate"
)

// =============================================================================
// CLIENTS
// =============================================================================

// ClientDTO represents a client in API responses.
type ClientDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Currency  string `json:"currency"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateClientRequest is the request to create a client.
type CreateClientRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
}

// =============================================================================
// INVOICES
// =============================================================================

// InvoiceDTO represents an invoice or offer in API responses.
type InvoiceDTO struct {
	ID        string           `json:"id"`
	ClientID  string           `json:"client_id"`
	Number    string           `json:"number"`
	Kind      string           `json:"kind"`
	Status    string           `json:"status"`
	IssueDate string           `json:"issue_date,omitempty"`
	DueDate   string           `json:"due_date,omitempty"`
	Total     books.FlexAmount `json:"total"`
	Currency  string           `json:"currency,omitempty"`
	Notes     string           `json:"notes,omitempty"`
	CreatedAt string           `json:"created_at,omitempty"`
}

// CreateInvoiceRequest is the request to create an invoice or offer.
type CreateInvoiceRequest struct {
	ClientID  string           `json:"client_id" validate:"required"`
	Kind      string           `json:"kind" validate:"omitempty,oneof=invoice offer"`
	IssueDate caldate.Date     `json:"issue_date"`
	DueDate   caldate.Date     `json:"due_date"`
	Total     books.FlexAmount `json:"total"`
	Currency  string           `json:"currency" validate:"omitempty,len=3"`
	Notes     string           `json:"notes"`
}

// =============================================================================
// PAYMENTS
// =============================================================================

// PaymentDTO represents a payment in API responses.
type PaymentDTO struct {
	ID        string           `json:"id"`
	ClientID  string           `json:"client_id"`
	InvoiceID string           `json:"invoice_id,omitempty"`
	Number    string           `json:"number"`
	Date      string           `json:"date,omitempty"`
	Amount    books.FlexAmount `json:"amount"`
	Method    string           `json:"method"`
	Notes     string           `json:"notes,omitempty"`
	CreatedAt string           `json:"created_at,omitempty"`
}

// CreatePaymentRequest is the request to record a payment.
type CreatePaymentRequest struct {
	ClientID  string           `json:"client_id" validate:"required"`
	InvoiceID string           `json:"invoice_id"`
	Date      caldate.Date     `json:"date"`
	Amount    books.FlexAmount `json:"amount"`
	Method    string           `json:"method" validate:"omitempty,oneof=cash bank card"`
	Notes     string           `json:"notes"`
}

// =============================================================================
// STATEMENT
// =============================================================================

// StatementEntryDTO is one row of the client statement.
type StatementEntryDTO struct {
	SourceID    string           `json:"source_id"`
	Date        string           `json:"date"`
	Description string           `json:"description"`
	Kind        string           `json:"kind"`
	Debit       books.FlexAmount `json:"debit"`
	Credit      books.FlexAmount `json:"credit"`
	Balance     books.FlexAmount `json:"balance"`
}

// StatementTotalsDTO summarizes the statement.
type StatementTotalsDTO struct {
	Debit   books.FlexAmount `json:"debit"`
	Credit  books.FlexAmount `json:"credit"`
	Balance books.FlexAmount `json:"balance"`
}

// StatementDTO is the full statement response.
type StatementDTO struct {
	ClientID string              `json:"client_id"`
	Entries  []StatementEntryDTO `json:"entries"`
	Totals   StatementTotalsDTO  `json:"totals"`
}

// =============================================================================
// PRODUCTS / EXPENSES
// =============================================================================

type ProductDTO struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	UnitPrice   books.FlexAmount `json:"unit_price"`
	Currency    string           `json:"currency,omitempty"`
	CreatedAt   string           `json:"created_at,omitempty"`
}

type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	UnitPrice   books.FlexAmount `json:"unit_price"`
	Currency    string           `json:"currency" validate:"omitempty,len=3"`
}

type ExpenseDTO struct {
	ID          string           `json:"id"`
	Category    string           `json:"category,omitempty"`
	Description string           `json:"description,omitempty"`
	Date        string           `json:"date,omitempty"`
	Amount      books.FlexAmount `json:"amount"`
	Currency    string           `json:"currency,omitempty"`
	CreatedAt   string           `json:"created_at,omitempty"`
}

type CreateExpenseRequest struct {
	Category    string           `json:"category" validate:"required"`
	Description string           `json:"description"`
	Date        caldate.Date     `json:"date"`
	Amount      books.FlexAmount `json:"amount"`
	Currency    string           `json:"currency" validate:"omitempty,len=3"`
}

// =============================================================================
// CONTRACTS
// =============================================================================

type ContractDTO struct {
	ID        string `json:"id"`
	ClientID  string `json:"client_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	SignedBy  string `json:"signed_by,omitempty"`
	SignedAt  string `json:"signed_at,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type CreateContractRequest struct {
	ClientID  string       `json:"client_id" validate:"required"`
	Title     string       `json:"title" validate:"required"`
	Body      string       `json:"body"`
	StartDate caldate.Date `json:"start_date"`
	EndDate   caldate.Date `json:"end_date"`
}

type SignContractRequest struct {
	SignedBy string `json:"signed_by" validate:"required"`
}

type TransitionContractRequest struct {
	Status string `json:"status" validate:"required,oneof=sent signed active expired cancelled"`
}

// =============================================================================
// AUTH
// =============================================================================

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignInResponse struct {
	Token string `json:"token"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toClientDTO(c books.Client) ClientDTO {
	return ClientDTO{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Currency:  c.Currency,
		CreatedAt: formatTime(c.CreatedAt),
	}
}

func toInvoiceDTO(inv books.Invoice) InvoiceDTO {
	return InvoiceDTO{
		ID:        inv.ID,
		ClientID:  inv.ClientID,
		Number:    inv.Number,
		Kind:      string(inv.Kind),
		Status:    string(inv.Status),
		IssueDate: inv.IssueDate.String(),
		DueDate:   inv.DueDate.String(),
		Total:     inv.Total,
		Currency:  inv.Currency,
		Notes:     inv.Notes,
		CreatedAt: formatTime(inv.CreatedAt),
	}
}

func toPaymentDTO(p books.Payment) PaymentDTO {
	return PaymentDTO{
		ID:        p.ID,
		ClientID:  p.ClientID,
		InvoiceID: p.InvoiceID,
		Number:    p.Number,
		Date:      p.Date.String(),
		Amount:    p.Amount,
		Method:    string(p.Method),
		Notes:     p.Notes,
		CreatedAt: formatTime(p.CreatedAt),
	}
}

func toProductDTO(p books.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
		Currency:    p.Currency,
		CreatedAt:   formatTime(p.CreatedAt),
	}
}

func toExpenseDTO(e books.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:          e.ID,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date.String(),
		Amount:      e.Amount,
		Currency:    e.Currency,
		CreatedAt:   formatTime(e.CreatedAt),
	}
}

func toContractDTO(c books.Contract) ContractDTO {
	dto := ContractDTO{
		ID:        c.ID,
		ClientID:  c.ClientID,
		Title:     c.Title,
		Status:    string(c.Status),
		StartDate: c.StartDate.String(),
		EndDate:   c.EndDate.String(),
		SignedBy:  c.SignedBy,
		CreatedAt: formatTime(c.CreatedAt),
	}
	if !c.SignedAt.IsZero() {
		dto.SignedAt = c.SignedAt.Format(time.RFC3339)
	}
	return dto
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
