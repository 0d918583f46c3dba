/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend
  5. Auth:       Bearer token gate on all /api routes except signin
                 (skipped entirely when no auth provider is configured)

ROUTE GROUPS:
  /api/auth/*           Sign in / sign out
  /api/clients/*        Clients and statements
  /api/invoices/*       Invoices and offers
  /api/payments/*       Payments
  /api/products/*       Product catalog
  /api/expenses/*       Expense tracking
  /api/contracts/*      Contract lifecycle
  /api/scenarios/*      Demo scenarios
  /api/currencies       Supported currency table

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/warp/books-engine/auth"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Auth routes are outside the token gate.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signin", h.SignIn)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(h.Auth))

			// Client routes
			r.Route("/clients", func(r chi.Router) {
				r.Get("/", h.ListClients)
				r.Post("/", h.CreateClient)
				r.Get("/{id}", h.GetClient)
				r.Put("/{id}", h.UpdateClient)
				r.Get("/{id}/statement", h.GetStatement)
				r.Get("/{id}/statement/export", h.ExportStatement)
			})

			// Invoice routes (invoices and offers)
			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", h.ListInvoices)
				r.Post("/", h.CreateInvoice)
				r.Get("/{id}", h.GetInvoice)
				r.Post("/{id}/send", h.SendInvoice)
			})

			// Payment routes
			r.Route("/payments", func(r chi.Router) {
				r.Get("/", h.ListPayments)
				r.Post("/", h.CreatePayment)
				r.Get("/{id}", h.GetPayment)
			})

			// Product catalog routes
			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.ListProducts)
				r.Post("/", h.CreateProduct)
				r.Get("/{id}", h.GetProduct)
			})

			// Expense routes
			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", h.ListExpenses)
				r.Post("/", h.CreateExpense)
				r.Get("/{id}", h.GetExpense)
			})

			// Contract routes
			r.Route("/contracts", func(r chi.Router) {
				r.Get("/", h.ListContracts)
				r.Post("/", h.CreateContract)
				r.Get("/{id}", h.GetContract)
				r.Post("/{id}/sign", h.SignContract)
				r.Post("/{id}/transition", h.TransitionContract)
			})

			// Scenario routes (demo data, development only)
			r.Route("/scenarios", func(r chi.Router) {
				r.Get("/", h.ListScenarios)
				r.Get("/current", h.GetCurrentScenario)
				r.Post("/load", h.LoadScenario)
			})

			// Currency table
			r.Get("/currencies", h.ListCurrencies)
		})
	})

	// Minimal index page listing the API surface.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Books Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Books Engine API</h1>
<ul>
<li><a href="/api/clients">/api/clients</a> - List clients</li>
<li><a href="/api/invoices">/api/invoices</a> - List invoices</li>
<li><a href="/api/payments">/api/payments</a> - List payments</li>
<li><a href="/api/contracts">/api/contracts</a> - List contracts</li>
<li><a href="/api/currencies">/api/currencies</a> - Supported currencies</li>
</ul>
</body>
</html>`))
	})

	return r
}
