/*
Package sqlite provides the SQLite-backed implementation of books.Store.

PURPOSE:
  Persists all business records using SQLite. The same patterns apply to
  PostgreSQL in production - only minor SQL dialect differences.

KEY TABLES:
  clients:    Customer accounts
  invoices:   Debits (and offers, which never enter the ledger)
  payments:   Credits, optionally applied to an invoice
  products:   Billable catalog items
  expenses:   Business spending
  contracts:  Client agreements with lifecycle state
  sequences:  Per-prefix/per-year document number counters

INDEXES:
  - idx_invoices_client / idx_payments_client: statement queries (hot path)
  - idx_payments_invoice: status derivation
  - uq_invoices_number: document numbers are unique per kind

STORAGE CONVENTIONS:
  Amounts are stored as TEXT via decimal.String() so no precision is
  lost. Calendar dates are TEXT in "2006-01-02" form; the empty string
  round-trips to the invalid date.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block
  and crash recovery improves.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - books/store.go: Interface definition
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/books-engine/books"
	"github.com/warp/books-engine/caldate"
)

// Store implements books.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		address TEXT,
		currency TEXT NOT NULL DEFAULT 'USD',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS invoices (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		number TEXT NOT NULL,
		kind TEXT NOT NULL,
		status TEXT NOT NULL,
		issue_date TEXT,
		due_date TEXT,
		total TEXT NOT NULL,
		currency TEXT,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_invoices_client
		ON invoices(client_id);
	CREATE UNIQUE INDEX IF NOT EXISTS uq_invoices_number
		ON invoices(kind, number);

	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		invoice_id TEXT,
		number TEXT NOT NULL,
		payment_date TEXT,
		amount TEXT NOT NULL,
		method TEXT NOT NULL,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_client
		ON payments(client_id);
	CREATE INDEX IF NOT EXISTS idx_payments_invoice
		ON payments(invoice_id) WHERE invoice_id != '';

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		unit_price TEXT NOT NULL,
		currency TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		category TEXT,
		description TEXT,
		expense_date TEXT,
		amount TEXT NOT NULL,
		currency TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contracts (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		title TEXT NOT NULL,
		body TEXT,
		status TEXT NOT NULL,
		start_date TEXT,
		end_date TEXT,
		signed_by TEXT,
		signed_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_contracts_client
		ON contracts(client_id);

	CREATE TABLE IF NOT EXISTS sequences (
		prefix TEXT NOT NULL,
		year INTEGER NOT NULL,
		value INTEGER NOT NULL,
		PRIMARY KEY (prefix, year)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CLIENTS
// =============================================================================

func (s *Store) SaveClient(ctx context.Context, c books.Client) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, email, phone, address, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			phone = excluded.phone,
			address = excluded.address,
			currency = excluded.currency`,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.Currency,
		c.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetClient(ctx context.Context, id string) (*books.Client, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, address, currency, created_at
		FROM clients WHERE id = ?`, id)

	c, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) ListClients(ctx context.Context) ([]books.Client, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, address, currency, created_at
		FROM clients ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []books.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanClient(row scanner) (*books.Client, error) {
	var c books.Client
	var email, phone, address, createdAt sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &email, &phone, &address, &c.Currency, &createdAt); err != nil {
		return nil, err
	}
	c.Email = email.String
	c.Phone = phone.String
	c.Address = address.String
	c.CreatedAt = parseTime(createdAt.String)
	return &c, nil
}

// =============================================================================
// INVOICES
// =============================================================================

const invoiceColumns = `id, client_id, number, kind, status, issue_date, due_date, total, currency, notes, created_at`

func (s *Store) SaveInvoice(ctx context.Context, inv books.Invoice) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			client_id = excluded.client_id,
			number = excluded.number,
			kind = excluded.kind,
			status = excluded.status,
			issue_date = excluded.issue_date,
			due_date = excluded.due_date,
			total = excluded.total,
			currency = excluded.currency,
			notes = excluded.notes`,
		inv.ID, inv.ClientID, inv.Number, string(inv.Kind), string(inv.Status),
		inv.IssueDate.String(), inv.DueDate.String(), inv.Total.String(),
		inv.Currency, inv.Notes, inv.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("invoice number %s: %w", inv.Number, books.ErrDuplicateNumber)
	}
	return err
}

func (s *Store) GetInvoice(ctx context.Context, id string) (*books.Invoice, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`, id)

	inv, err := scanInvoice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context) ([]books.Invoice, error) {
	return s.queryInvoices(ctx,
		`SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at, id`)
}

func (s *Store) InvoicesByClient(ctx context.Context, clientID string) ([]books.Invoice, error) {
	return s.queryInvoices(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE client_id = ? ORDER BY created_at, id`,
		clientID)
}

func (s *Store) queryInvoices(ctx context.Context, query string, args ...any) ([]books.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []books.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

func scanInvoice(row scanner) (*books.Invoice, error) {
	var inv books.Invoice
	var kind, status string
	var issueDate, dueDate, total, currencyCode, notes, createdAt sql.NullString
	if err := row.Scan(&inv.ID, &inv.ClientID, &inv.Number, &kind, &status,
		&issueDate, &dueDate, &total, &currencyCode, &notes, &createdAt); err != nil {
		return nil, err
	}
	inv.Kind = books.InvoiceKind(kind)
	inv.Status = books.InvoiceStatus(status)
	inv.IssueDate = caldate.Parse(issueDate.String)
	inv.DueDate = caldate.Parse(dueDate.String)
	inv.Total = books.ParseAmount(total.String)
	inv.Currency = currencyCode.String
	inv.Notes = notes.String
	inv.CreatedAt = parseTime(createdAt.String)
	return &inv, nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

const paymentColumns = `id, client_id, invoice_id, number, payment_date, amount, method, notes, created_at`

func (s *Store) SavePayment(ctx context.Context, p books.Payment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			client_id = excluded.client_id,
			invoice_id = excluded.invoice_id,
			number = excluded.number,
			payment_date = excluded.payment_date,
			amount = excluded.amount,
			method = excluded.method,
			notes = excluded.notes`,
		p.ID, p.ClientID, p.InvoiceID, p.Number, p.Date.String(),
		p.Amount.String(), string(p.Method), p.Notes,
		p.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetPayment(ctx context.Context, id string) (*books.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id)

	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) ListPayments(ctx context.Context) ([]books.Payment, error) {
	return s.queryPayments(ctx,
		`SELECT `+paymentColumns+` FROM payments ORDER BY created_at, id`)
}

func (s *Store) PaymentsByClient(ctx context.Context, clientID string) ([]books.Payment, error) {
	return s.queryPayments(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE client_id = ? ORDER BY created_at, id`,
		clientID)
}

func (s *Store) PaymentsByInvoice(ctx context.Context, invoiceID string) ([]books.Payment, error) {
	return s.queryPayments(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE invoice_id = ? ORDER BY created_at, id`,
		invoiceID)
}

func (s *Store) queryPayments(ctx context.Context, query string, args ...any) ([]books.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []books.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanPayment(row scanner) (*books.Payment, error) {
	var p books.Payment
	var method string
	var invoiceID, date, amount, notes, createdAt sql.NullString
	if err := row.Scan(&p.ID, &p.ClientID, &invoiceID, &p.Number, &date,
		&amount, &method, &notes, &createdAt); err != nil {
		return nil, err
	}
	p.InvoiceID = invoiceID.String
	p.Date = caldate.Parse(date.String)
	p.Amount = books.ParseAmount(amount.String)
	p.Method = books.PaymentMethod(method)
	p.Notes = notes.String
	p.CreatedAt = parseTime(createdAt.String)
	return &p, nil
}

// =============================================================================
// PRODUCTS
// =============================================================================

func (s *Store) SaveProduct(ctx context.Context, p books.Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, unit_price, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			unit_price = excluded.unit_price,
			currency = excluded.currency`,
		p.ID, p.Name, p.Description, p.UnitPrice.String(), p.Currency,
		p.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetProduct(ctx context.Context, id string) (*books.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, unit_price, currency, created_at
		FROM products WHERE id = ?`, id)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]books.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, unit_price, currency, created_at
		FROM products ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []books.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanProduct(row scanner) (*books.Product, error) {
	var p books.Product
	var description, unitPrice, currencyCode, createdAt sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &description, &unitPrice, &currencyCode, &createdAt); err != nil {
		return nil, err
	}
	p.Description = description.String
	p.UnitPrice = books.ParseAmount(unitPrice.String)
	p.Currency = currencyCode.String
	p.CreatedAt = parseTime(createdAt.String)
	return &p, nil
}

// =============================================================================
// EXPENSES
// =============================================================================

func (s *Store) SaveExpense(ctx context.Context, e books.Expense) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, category, description, expense_date, amount, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			description = excluded.description,
			expense_date = excluded.expense_date,
			amount = excluded.amount,
			currency = excluded.currency`,
		e.ID, e.Category, e.Description, e.Date.String(), e.Amount.String(),
		e.Currency, e.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetExpense(ctx context.Context, id string) (*books.Expense, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, category, description, expense_date, amount, currency, created_at
		FROM expenses WHERE id = ?`, id)

	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context) ([]books.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, description, expense_date, amount, currency, created_at
		FROM expenses ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []books.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func scanExpense(row scanner) (*books.Expense, error) {
	var e books.Expense
	var category, description, date, amount, currencyCode, createdAt sql.NullString
	if err := row.Scan(&e.ID, &category, &description, &date, &amount, &currencyCode, &createdAt); err != nil {
		return nil, err
	}
	e.Category = category.String
	e.Description = description.String
	e.Date = caldate.Parse(date.String)
	e.Amount = books.ParseAmount(amount.String)
	e.Currency = currencyCode.String
	e.CreatedAt = parseTime(createdAt.String)
	return &e, nil
}

// =============================================================================
// CONTRACTS
// =============================================================================

func (s *Store) SaveContract(ctx context.Context, c books.Contract) error {
	signedAt := ""
	if !c.SignedAt.IsZero() {
		signedAt = c.SignedAt.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contracts (id, client_id, title, body, status, start_date, end_date, signed_by, signed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			client_id = excluded.client_id,
			title = excluded.title,
			body = excluded.body,
			status = excluded.status,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			signed_by = excluded.signed_by,
			signed_at = excluded.signed_at`,
		c.ID, c.ClientID, c.Title, c.Body, string(c.Status),
		c.StartDate.String(), c.EndDate.String(), c.SignedBy, signedAt,
		c.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetContract(ctx context.Context, id string) (*books.Contract, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, client_id, title, body, status, start_date, end_date, signed_by, signed_at, created_at
		FROM contracts WHERE id = ?`, id)

	c, err := scanContract(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) ListContracts(ctx context.Context) ([]books.Contract, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_id, title, body, status, start_date, end_date, signed_by, signed_at, created_at
		FROM contracts ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []books.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanContract(row scanner) (*books.Contract, error) {
	var c books.Contract
	var status string
	var body, startDate, endDate, signedBy, signedAt, createdAt sql.NullString
	if err := row.Scan(&c.ID, &c.ClientID, &c.Title, &body, &status,
		&startDate, &endDate, &signedBy, &signedAt, &createdAt); err != nil {
		return nil, err
	}
	c.Body = body.String
	c.Status = books.ContractStatus(status)
	c.StartDate = caldate.Parse(startDate.String)
	c.EndDate = caldate.Parse(endDate.String)
	c.SignedBy = signedBy.String
	c.SignedAt = parseTime(signedAt.String)
	c.CreatedAt = parseTime(createdAt.String)
	return &c, nil
}

// =============================================================================
// SEQUENCES
// =============================================================================

// NextSequence advances and returns the per-prefix/per-year counter.
func (s *Store) NextSequence(ctx context.Context, prefix string, year int) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sequences (prefix, year, value) VALUES (?, ?, 1)
		ON CONFLICT(prefix, year) DO UPDATE SET value = value + 1`,
		prefix, year)
	if err != nil {
		return 0, err
	}

	var value int
	err = tx.QueryRowContext(ctx,
		`SELECT value FROM sequences WHERE prefix = ? AND year = ?`,
		prefix, year).Scan(&value)
	if err != nil {
		return 0, err
	}

	return value, tx.Commit()
}

// =============================================================================
// HELPERS
// =============================================================================

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
