// Package memory provides an in-memory books.Store for tests and dev.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/books-engine/books"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu        sync.RWMutex
	clients   map[string]books.Client
	invoices  map[string]books.Invoice
	payments  map[string]books.Payment
	products  map[string]books.Product
	expenses  map[string]books.Expense
	contracts map[string]books.Contract
	sequences map[seqKey]int
}

type seqKey struct {
	Prefix string
	Year   int
}

func New() *Store {
	return &Store{
		clients:   make(map[string]books.Client),
		invoices:  make(map[string]books.Invoice),
		payments:  make(map[string]books.Payment),
		products:  make(map[string]books.Product),
		expenses:  make(map[string]books.Expense),
		contracts: make(map[string]books.Contract),
		sequences: make(map[seqKey]int),
	}
}

// =============================================================================
// CLIENTS
// =============================================================================

func (s *Store) SaveClient(_ context.Context, c books.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ID] = c
	return nil
}

func (s *Store) GetClient(_ context.Context, id string) (*books.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.clients[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *Store) ListClients(_ context.Context) ([]books.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]books.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return byCreation(out[i].CreatedAt.UnixNano(), out[i].ID, out[j].CreatedAt.UnixNano(), out[j].ID) })
	return out, nil
}

// =============================================================================
// INVOICES
// =============================================================================

func (s *Store) SaveInvoice(_ context.Context, inv books.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.ID] = inv
	return nil
}

func (s *Store) GetInvoice(_ context.Context, id string) (*books.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if inv, ok := s.invoices[id]; ok {
		return &inv, nil
	}
	return nil, nil
}

func (s *Store) ListInvoices(_ context.Context) ([]books.Invoice, error) {
	return s.invoicesWhere(func(books.Invoice) bool { return true })
}

func (s *Store) InvoicesByClient(_ context.Context, clientID string) ([]books.Invoice, error) {
	return s.invoicesWhere(func(inv books.Invoice) bool { return inv.ClientID == clientID })
}

func (s *Store) invoicesWhere(keep func(books.Invoice) bool) ([]books.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]books.Invoice, 0)
	for _, inv := range s.invoices {
		if keep(inv) {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return byCreation(out[i].CreatedAt.UnixNano(), out[i].ID, out[j].CreatedAt.UnixNano(), out[j].ID) })
	return out, nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

func (s *Store) SavePayment(_ context.Context, p books.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.ID] = p
	return nil
}

func (s *Store) GetPayment(_ context.Context, id string) (*books.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.payments[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (s *Store) ListPayments(_ context.Context) ([]books.Payment, error) {
	return s.paymentsWhere(func(books.Payment) bool { return true })
}

func (s *Store) PaymentsByClient(_ context.Context, clientID string) ([]books.Payment, error) {
	return s.paymentsWhere(func(p books.Payment) bool { return p.ClientID == clientID })
}

func (s *Store) PaymentsByInvoice(_ context.Context, invoiceID string) ([]books.Payment, error) {
	return s.paymentsWhere(func(p books.Payment) bool { return p.InvoiceID == invoiceID })
}

func (s *Store) paymentsWhere(keep func(books.Payment) bool) ([]books.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]books.Payment, 0)
	for _, p := range s.payments {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return byCreation(out[i].CreatedAt.UnixNano(), out[i].ID, out[j].CreatedAt.UnixNano(), out[j].ID) })
	return out, nil
}

// =============================================================================
// PRODUCTS / EXPENSES / CONTRACTS
// =============================================================================

func (s *Store) SaveProduct(_ context.Context, p books.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	return nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*books.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (s *Store) ListProducts(_ context.Context) ([]books.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]books.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return byCreation(out[i].CreatedAt.UnixNano(), out[i].ID, out[j].CreatedAt.UnixNano(), out[j].ID) })
	return out, nil
}

func (s *Store) SaveExpense(_ context.Context, e books.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses[e.ID] = e
	return nil
}

func (s *Store) GetExpense(_ context.Context, id string) (*books.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.expenses[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *Store) ListExpenses(_ context.Context) ([]books.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]books.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return byCreation(out[i].CreatedAt.UnixNano(), out[i].ID, out[j].CreatedAt.UnixNano(), out[j].ID) })
	return out, nil
}

func (s *Store) SaveContract(_ context.Context, c books.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contracts[c.ID] = c
	return nil
}

func (s *Store) GetContract(_ context.Context, id string) (*books.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.contracts[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *Store) ListContracts(_ context.Context) ([]books.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]books.Contract, 0, len(s.contracts))
	for _, c := range s.contracts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return byCreation(out[i].CreatedAt.UnixNano(), out[i].ID, out[j].CreatedAt.UnixNano(), out[j].ID) })
	return out, nil
}

// =============================================================================
// SEQUENCES
// =============================================================================

func (s *Store) NextSequence(_ context.Context, prefix string, year int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := seqKey{Prefix: prefix, Year: year}
	s.sequences[k]++
	return s.sequences[k], nil
}

// byCreation orders by creation time, then id, for stable listings.
func byCreation(t1 int64, id1 string, t2 int64, id2 string) bool {
	if t1 != t2 {
		return t1 < t2
	}
	return id1 < id2
}
