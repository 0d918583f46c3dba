/*
seed.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates clients, invoices,
	payments, and contracts that demonstrate specific features.

AVAILABLE SCENARIOS:

	consulting-studio:  Two clients, invoices with partial payments,
	                    a signed contract, running balances
	retail-shop:        Product catalog, expenses, offers alongside
	                    invoices, an overdue invoice

HOW SCENARIOS WORK:
 1. Create clients
 2. Create invoices and mark them sent
 3. Record payments against some invoices
 4. Optionally create products, expenses, and contracts

Loading is additive: scenarios are intended for an empty development
database and do not clear existing data.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "consulting-studio"}

SEE ALSO:
  - handlers.go: Shared response helpers
  - server.go: Scenario routes
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/warp/books-engine/books"
	"github.com/warp/books-engine/caldate"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO describes a loadable demo dataset.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects the scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "consulting-studio",
		Name:        "Consulting Studio",
		Description: "Two clients, partially paid invoices, a signed contract",
	},
	{
		ID:          "retail-shop",
		Name:        "Retail Shop",
		Description: "Product catalog, expenses, offers and an overdue invoice",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the most recently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario populates the database with the selected demo dataset.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	var err error
	switch req.ScenarioID {
	case "consulting-studio":
		err = h.loadConsultingStudio(r.Context())
	case "retail-shop":
		err = h.loadRetailShop(r.Context())
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}
	if err != nil {
		h.Log.WithError(err).Error("scenario load failed")
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// loadConsultingStudio builds two clients with invoice/payment history so
// the statement view shows non-trivial running balances.
func (h *Handler) loadConsultingStudio(ctx context.Context) error {
	acme, err := h.Service.CreateClient(ctx, books.Client{
		Name:     "Acme Industries",
		Email:    "billing@acme.example",
		Currency: "USD",
	})
	if err != nil {
		return err
	}
	nord, err := h.Service.CreateClient(ctx, books.Client{
		Name:     "Nordica Design AB",
		Email:    "ekonomi@nordica.example",
		Currency: "SEK",
	})
	if err != nil {
		return err
	}

	// Acme: two invoices, one fully paid, one half paid.
	inv1, err := h.Service.CreateInvoice(ctx, books.Invoice{
		ClientID:  acme.ID,
		IssueDate: caldate.New(2025, 5, 2),
		DueDate:   caldate.New(2025, 6, 1),
		Total:     books.AmountFromFloat(4800),
		Currency:  "USD",
		Notes:     "Discovery sprint",
	})
	if err != nil {
		return err
	}
	if _, err := h.Service.MarkInvoiceSent(ctx, inv1.ID); err != nil {
		return err
	}
	if _, err := h.Service.RecordPayment(ctx, books.Payment{
		ClientID:  acme.ID,
		InvoiceID: inv1.ID,
		Date:      caldate.New(2025, 5, 20),
		Amount:    books.AmountFromFloat(4800),
		Method:    books.MethodBank,
	}); err != nil {
		return err
	}

	inv2, err := h.Service.CreateInvoice(ctx, books.Invoice{
		ClientID:  acme.ID,
		IssueDate: caldate.New(2025, 7, 1),
		DueDate:   caldate.New(2025, 7, 31),
		Total:     books.AmountFromFloat(9600),
		Currency:  "USD",
		Notes:     "Implementation phase 1",
	})
	if err != nil {
		return err
	}
	if _, err := h.Service.MarkInvoiceSent(ctx, inv2.ID); err != nil {
		return err
	}
	if _, err := h.Service.RecordPayment(ctx, books.Payment{
		ClientID:  acme.ID,
		InvoiceID: inv2.ID,
		Date:      caldate.New(2025, 7, 15),
		Amount:    books.AmountFromFloat(4800),
		Method:    books.MethodBank,
		Notes:     "First installment",
	}); err != nil {
		return err
	}

	// Nordica: one open invoice and a signed retainer contract.
	inv3, err := h.Service.CreateInvoice(ctx, books.Invoice{
		ClientID:  nord.ID,
		IssueDate: caldate.New(2025, 8, 1),
		DueDate:   caldate.New(2025, 8, 31),
		Total:     books.AmountFromFloat(52000),
		Currency:  "SEK",
		Notes:     "Monthly retainer",
	})
	if err != nil {
		return err
	}
	if _, err := h.Service.MarkInvoiceSent(ctx, inv3.ID); err != nil {
		return err
	}

	contract, err := h.Service.CreateContract(ctx, books.Contract{
		ClientID:  nord.ID,
		Title:     "Design retainer 2025",
		Body:      "Monthly design retainer, 40 hours.",
		StartDate: caldate.New(2025, 1, 1),
		EndDate:   caldate.New(2025, 12, 31),
	})
	if err != nil {
		return err
	}
	if _, err := h.Service.TransitionContract(ctx, contract.ID, books.ContractSent); err != nil {
		return err
	}
	if _, err := h.Service.SignContract(ctx, contract.ID, "Eva Lindqvist"); err != nil {
		return err
	}
	return nil
}

// loadRetailShop focuses on the catalog and expense side, plus an offer
// and an invoice that is already past due.
func (h *Handler) loadRetailShop(ctx context.Context) error {
	client, err := h.Service.CreateClient(ctx, books.Client{
		Name:     "Corner Books Ltd",
		Email:    "accounts@cornerbooks.example",
		Currency: "EUR",
	})
	if err != nil {
		return err
	}

	products := []books.Product{
		{Name: "Shelf unit", UnitPrice: books.AmountFromFloat(249.50), Currency: "EUR"},
		{Name: "Counter display", UnitPrice: books.AmountFromFloat(89), Currency: "EUR"},
		{Name: "Install service", UnitPrice: books.AmountFromFloat(120), Currency: "EUR", Description: "Per hour"},
	}
	for _, p := range products {
		if _, err := h.Service.CreateProduct(ctx, p); err != nil {
			return err
		}
	}

	expenses := []books.Expense{
		{Category: "travel", Description: "Site visit", Date: caldate.New(2025, 6, 12), Amount: books.AmountFromFloat(75.20), Currency: "EUR"},
		{Category: "materials", Description: "Fixings", Date: caldate.New(2025, 6, 14), Amount: books.AmountFromFloat(33.90), Currency: "EUR"},
	}
	for _, e := range expenses {
		if _, err := h.Service.CreateExpense(ctx, e); err != nil {
			return err
		}
	}

	// An offer awaiting acceptance.
	if _, err := h.Service.CreateInvoice(ctx, books.Invoice{
		ClientID:  client.ID,
		Kind:      books.KindOffer,
		IssueDate: caldate.New(2025, 8, 10),
		Total:     books.AmountFromFloat(1450),
		Currency:  "EUR",
		Notes:     "Shop refit proposal",
	}); err != nil {
		return err
	}

	// A sent invoice already past its due date.
	overdue, err := h.Service.CreateInvoice(ctx, books.Invoice{
		ClientID:  client.ID,
		IssueDate: caldate.New(2025, 4, 1),
		DueDate:   caldate.New(2025, 4, 30),
		Total:     books.AmountFromFloat(620),
		Currency:  "EUR",
		Notes:     "Spring window install",
	})
	if err != nil {
		return err
	}
	if _, err := h.Service.MarkInvoiceSent(ctx, overdue.ID); err != nil {
		return err
	}
	return nil
}
