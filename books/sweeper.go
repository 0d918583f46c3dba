/*
sweeper.go - Background sweep for overdue invoices

PURPOSE:
  Periodically flips sent invoices past their due date to overdue, so
  stored status catches up with what DeriveInvoiceStatus would report.
  The sweep is idempotent: re-running it changes nothing once statuses
  agree.

DESIGN:
  - Background goroutine with a configurable interval
  - Runs once immediately on Start, then on each tick
  - Stop blocks until the goroutine has exited

USAGE:
  sweeper := books.NewOverdueSweeper(store, log)
  sweeper.Start()
  defer sweeper.Stop()
*/
package books

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/books-engine/caldate"
)

// OverdueSweeper marks sent invoices past their due date as overdue.
type OverdueSweeper struct {
	Store    Store
	Log      *logrus.Logger
	Interval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewOverdueSweeper(store Store, log *logrus.Logger) *OverdueSweeper {
	if log == nil {
		log = logrus.New()
	}
	return &OverdueSweeper{
		Store:    store,
		Log:      log,
		Interval: time.Hour,
		stop:     make(chan struct{}),
	}
}

// Start begins the background sweep.
func (s *OverdueSweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ticker = time.NewTicker(s.Interval)
	s.wg.Add(1)
	go s.run()

	s.Log.WithField("interval", s.Interval.String()).Info("overdue sweeper started")
}

// Stop halts the sweep and waits for the goroutine to exit.
func (s *OverdueSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
		s.Log.Info("overdue sweeper stopped")
	}
}

func (s *OverdueSweeper) run() {
	defer s.wg.Done()

	s.Sweep(context.Background())

	for {
		select {
		case <-s.ticker.C:
			s.Sweep(context.Background())
		case <-s.stop:
			return
		}
	}
}

// Sweep performs one pass and returns how many invoices were flipped.
func (s *OverdueSweeper) Sweep(ctx context.Context) int {
	today := caldate.Today()

	invoices, err := s.Store.ListInvoices(ctx)
	if err != nil {
		s.Log.WithError(err).Error("overdue sweep: list invoices")
		return 0
	}

	flipped := 0
	for _, inv := range invoices {
		if inv.Kind != KindInvoice || inv.Status != InvoiceSent {
			continue
		}
		if !inv.DueDate.Valid || !today.After(inv.DueDate) {
			continue
		}
		// A fully paid invoice past its due date is paid, not overdue.
		payments, err := s.Store.PaymentsByInvoice(ctx, inv.ID)
		if err != nil {
			s.Log.WithError(err).WithField("invoice_id", inv.ID).Error("overdue sweep: payments")
			continue
		}
		derived := DeriveInvoiceStatus(inv, payments, today)
		if derived == inv.Status {
			continue
		}
		inv.Status = derived
		if err := s.Store.SaveInvoice(ctx, inv); err != nil {
			s.Log.WithError(err).WithField("invoice_id", inv.ID).Error("overdue sweep: save")
			continue
		}
		flipped++
	}

	if flipped > 0 {
		s.Log.WithField("count", flipped).Info("invoices marked overdue")
	}
	return flipped
}
