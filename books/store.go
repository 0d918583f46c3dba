/*
store.go - Persistence interface for business records

PURPOSE:
  Defines the interface between the domain logic and the database.
  Implementations live in store/sqlite (production) and store/memory
  (tests and dev). The interface is deliberately plain: save/get/list
  per record type, per-client record queries for the statement, and a
  per-prefix sequence for document numbering.

CONVENTIONS:
  - Get* returns (nil, nil) when the record does not exist; callers
    translate that into ErrNotFound where it matters.
  - Save* upserts by ID.
  - List* and *ByClient return records in a stable order (created_at,
    then id) but NOT statement order - the statement engine owns
    chronological ordering.

SEE ALSO:
  - store/sqlite/sqlite.go: Production implementation
  - store/memory/memory.go: In-memory implementation
*/
package books

import "context"

// Store handles persistence of all business records.
type Store interface {
	// Clients
	SaveClient(ctx context.Context, c Client) error
	GetClient(ctx context.Context, id string) (*Client, error)
	ListClients(ctx context.Context) ([]Client, error)

	// Invoices (includes offers; filter by Kind where it matters)
	SaveInvoice(ctx context.Context, inv Invoice) error
	GetInvoice(ctx context.Context, id string) (*Invoice, error)
	ListInvoices(ctx context.Context) ([]Invoice, error)
	InvoicesByClient(ctx context.Context, clientID string) ([]Invoice, error)

	// Payments
	SavePayment(ctx context.Context, p Payment) error
	GetPayment(ctx context.Context, id string) (*Payment, error)
	ListPayments(ctx context.Context) ([]Payment, error)
	PaymentsByClient(ctx context.Context, clientID string) ([]Payment, error)
	PaymentsByInvoice(ctx context.Context, invoiceID string) ([]Payment, error)

	// Products
	SaveProduct(ctx context.Context, p Product) error
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)

	// Expenses
	SaveExpense(ctx context.Context, e Expense) error
	GetExpense(ctx context.Context, id string) (*Expense, error)
	ListExpenses(ctx context.Context) ([]Expense, error)

	// Contracts
	SaveContract(ctx context.Context, c Contract) error
	GetContract(ctx context.Context, id string) (*Contract, error)
	ListContracts(ctx context.Context) ([]Contract, error)

	// NextSequence returns the next document sequence number for a
	// prefix and year, starting at 1. Each call advances the sequence.
	NextSequence(ctx context.Context, prefix string, year int) (int, error)
}
