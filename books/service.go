/*
service.go - Domain service over the store

PURPOSE:
  The service wires the store to the statement engine and owns the
  record lifecycles: ID assignment, document numbering, invoice status
  recomputation after payments, and the contract transitions.

STATEMENT FETCH:
  ClientStatement issues the invoice query and the payment query
  concurrently and joins both before building - a plain barrier, not a
  pipeline. Neither query depends on the other, and the build itself is
  synchronous and pure. Retry/backoff policy belongs to the store
  implementation, not here.

DEPENDENCY INJECTION:
  The service receives its store and logger explicitly. There is no
  package-global state anywhere in the domain layer.
*/
package books

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/warp/books-engine/caldate"
	"github.com/warp/books-engine/ledger"
)

// Service coordinates domain operations over a Store.
type Service struct {
	store Store
	log   *logrus.Logger
}

func NewService(store Store, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{store: store, log: log}
}

// Store exposes the underlying store for read-only collaborators.
func (s *Service) Store() Store { return s.store }

// =============================================================================
// STATEMENT
// =============================================================================

// ClientStatement fetches the client's invoices and payments
// concurrently, joins both results, and builds the statement.
func (s *Service) ClientStatement(ctx context.Context, clientID string) (ledger.Statement, error) {
	client, err := s.store.GetClient(ctx, clientID)
	if err != nil {
		return ledger.Statement{}, err
	}
	if client == nil {
		return ledger.Statement{}, fmt.Errorf("client %s: %w", clientID, ErrNotFound)
	}

	var (
		invoices []Invoice
		payments []Payment
		invErr   error
		payErr   error
	)

	done := make(chan struct{}, 2)
	go func() {
		invoices, invErr = s.store.InvoicesByClient(ctx, clientID)
		done <- struct{}{}
	}()
	go func() {
		payments, payErr = s.store.PaymentsByClient(ctx, clientID)
		done <- struct{}{}
	}()
	<-done
	<-done

	if invErr != nil {
		return ledger.Statement{}, fmt.Errorf("fetch invoices: %w", invErr)
	}
	if payErr != nil {
		return ledger.Statement{}, fmt.Errorf("fetch payments: %w", payErr)
	}

	s.log.WithFields(logrus.Fields{
		"client_id": clientID,
		"invoices":  len(invoices),
		"payments":  len(payments),
	}).Debug("building client statement")

	return StatementForClient(invoices, payments), nil
}

// =============================================================================
// CLIENTS
// =============================================================================

// CreateClient assigns an ID if missing and persists the client.
func (s *Service) CreateClient(ctx context.Context, c Client) (Client, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Currency == "" {
		c.Currency = "USD"
	}
	c.CreatedAt = time.Now().UTC()
	if err := s.store.SaveClient(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

// UpdateClient overwrites the mutable fields of an existing client.
func (s *Service) UpdateClient(ctx context.Context, c Client) (Client, error) {
	existing, err := s.store.GetClient(ctx, c.ID)
	if err != nil {
		return Client{}, err
	}
	if existing == nil {
		return Client{}, fmt.Errorf("client %s: %w", c.ID, ErrNotFound)
	}
	if c.Currency == "" {
		c.Currency = existing.Currency
	}
	c.CreatedAt = existing.CreatedAt
	if err := s.store.SaveClient(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

// =============================================================================
// PRODUCTS AND EXPENSES
// =============================================================================

// CreateProduct assigns an ID if missing and persists the catalog product.
func (s *Service) CreateProduct(ctx context.Context, p Product) (Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	p.CreatedAt = time.Now().UTC()
	if err := s.store.SaveProduct(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// CreateExpense assigns an ID if missing and persists the expense.
func (s *Service) CreateExpense(ctx context.Context, e Expense) (Expense, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Currency == "" {
		e.Currency = "USD"
	}
	e.CreatedAt = time.Now().UTC()
	if err := s.store.SaveExpense(ctx, e); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// =============================================================================
// INVOICES
// =============================================================================

// CreateInvoice validates the client reference, assigns ID and document
// number, and persists the invoice. New invoices without a status start
// as drafts.
func (s *Service) CreateInvoice(ctx context.Context, inv Invoice) (Invoice, error) {
	if err := s.requireClient(ctx, inv.ClientID); err != nil {
		return Invoice{}, err
	}

	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.Kind == "" {
		inv.Kind = KindInvoice
	}
	if inv.Status == "" {
		inv.Status = InvoiceDraft
	}
	if inv.Number == "" {
		number, err := s.nextNumber(ctx, prefixForKind(inv.Kind), inv.IssueDate)
		if err != nil {
			return Invoice{}, err
		}
		inv.Number = number
	}
	inv.CreatedAt = time.Now().UTC()

	if err := s.store.SaveInvoice(ctx, inv); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

// MarkInvoiceSent moves a draft invoice to sent.
func (s *Service) MarkInvoiceSent(ctx context.Context, invoiceID string) (Invoice, error) {
	inv, err := s.requireInvoice(ctx, invoiceID)
	if err != nil {
		return Invoice{}, err
	}
	inv.Status = InvoiceSent
	if err := s.store.SaveInvoice(ctx, *inv); err != nil {
		return Invoice{}, err
	}
	return *inv, nil
}

// InvoiceWithDerivedStatus loads an invoice and resolves its effective
// status against its payments and today's date.
func (s *Service) InvoiceWithDerivedStatus(ctx context.Context, invoiceID string) (Invoice, error) {
	inv, err := s.requireInvoice(ctx, invoiceID)
	if err != nil {
		return Invoice{}, err
	}
	payments, err := s.store.PaymentsByInvoice(ctx, invoiceID)
	if err != nil {
		return Invoice{}, err
	}
	inv.Status = DeriveInvoiceStatus(*inv, payments, caldate.Today())
	return *inv, nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

// RecordPayment persists a payment and, when it references an invoice,
// recomputes and stores that invoice's status.
func (s *Service) RecordPayment(ctx context.Context, p Payment) (Payment, error) {
	if err := s.requireClient(ctx, p.ClientID); err != nil {
		return Payment{}, err
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Method == "" {
		p.Method = MethodBank
	}
	if p.Number == "" {
		number, err := s.nextNumber(ctx, PrefixPayment, p.Date)
		if err != nil {
			return Payment{}, err
		}
		p.Number = number
	}
	p.CreatedAt = time.Now().UTC()

	if err := s.store.SavePayment(ctx, p); err != nil {
		return Payment{}, err
	}

	if p.InvoiceID != "" {
		if err := s.refreshInvoiceStatus(ctx, p.InvoiceID); err != nil {
			s.log.WithError(err).WithField("invoice_id", p.InvoiceID).
				Warn("payment saved but invoice status refresh failed")
		}
	}

	return p, nil
}

func (s *Service) refreshInvoiceStatus(ctx context.Context, invoiceID string) error {
	inv, err := s.store.GetInvoice(ctx, invoiceID)
	if err != nil || inv == nil {
		return err
	}
	payments, err := s.store.PaymentsByInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}
	derived := DeriveInvoiceStatus(*inv, payments, caldate.Today())
	if derived == inv.Status {
		return nil
	}
	inv.Status = derived
	return s.store.SaveInvoice(ctx, *inv)
}

// =============================================================================
// CONTRACTS
// =============================================================================

// CreateContract assigns an ID and persists a draft contract.
func (s *Service) CreateContract(ctx context.Context, c Contract) (Contract, error) {
	if err := s.requireClient(ctx, c.ClientID); err != nil {
		return Contract{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = ContractDraft
	}
	c.CreatedAt = time.Now().UTC()
	if err := s.store.SaveContract(ctx, c); err != nil {
		return Contract{}, err
	}
	return c, nil
}

// TransitionContract applies a lifecycle transition and persists it.
func (s *Service) TransitionContract(ctx context.Context, contractID string, to ContractStatus) (Contract, error) {
	c, err := s.requireContract(ctx, contractID)
	if err != nil {
		return Contract{}, err
	}
	if err := c.Transition(to); err != nil {
		return Contract{}, err
	}
	if err := s.store.SaveContract(ctx, *c); err != nil {
		return Contract{}, err
	}
	return *c, nil
}

// SignContract records the signatory and moves the contract to signed.
func (s *Service) SignContract(ctx context.Context, contractID, signedBy string) (Contract, error) {
	c, err := s.requireContract(ctx, contractID)
	if err != nil {
		return Contract{}, err
	}
	if err := c.Sign(signedBy, time.Now().UTC()); err != nil {
		return Contract{}, err
	}
	if err := s.store.SaveContract(ctx, *c); err != nil {
		return Contract{}, err
	}
	return *c, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Service) requireClient(ctx context.Context, clientID string) error {
	if clientID == "" {
		return ErrMissingClient
	}
	client, err := s.store.GetClient(ctx, clientID)
	if err != nil {
		return err
	}
	if client == nil {
		return fmt.Errorf("client %s: %w", clientID, ErrMissingClient)
	}
	return nil
}

func (s *Service) requireInvoice(ctx context.Context, id string) (*Invoice, error) {
	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("invoice %s: %w", id, ErrNotFound)
	}
	return inv, nil
}

func (s *Service) requireContract(ctx context.Context, id string) (*Contract, error) {
	c, err := s.store.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("contract %s: %w", id, ErrNotFound)
	}
	return c, nil
}

func (s *Service) nextNumber(ctx context.Context, prefix string, date caldate.Date) (string, error) {
	year := date.Year()
	if !date.Valid {
		year = time.Now().UTC().Year()
	}
	seq, err := s.store.NextSequence(ctx, prefix, year)
	if err != nil {
		return "", err
	}
	return FormatNumber(prefix, year, seq), nil
}

func prefixForKind(kind InvoiceKind) string {
	if kind == KindOffer {
		return PrefixOffer
	}
	return PrefixInvoice
}
