/*
handlers.go - HTTP API handlers for the books engine

PURPOSE:
  Exposes the books engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Clients:
    GET    /api/clients                     List all clients
    POST   /api/clients                     Create client
    GET    /api/clients/{id}                Get client details
    GET    /api/clients/{id}/statement      Running-balance statement
    GET    /api/clients/{id}/statement/export  XLSX download

  Invoices:
    GET    /api/invoices                    List invoices and offers
    POST   /api/invoices                    Create invoice or offer
    GET    /api/invoices/{id}               Get invoice (derived status)
    POST   /api/invoices/{id}/send          Mark draft as sent

  Payments:
    GET    /api/payments                    List payments
    POST   /api/payments                    Record payment
    GET    /api/payments/{id}               Get payment

  Products, Expenses:
    GET/POST /api/products, /api/expenses   List/create
    GET      /api/products/{id}, ...        Get

  Contracts:
    GET    /api/contracts                   List contracts
    POST   /api/contracts                   Create draft contract
    GET    /api/contracts/{id}              Get contract
    POST   /api/contracts/{id}/sign         Sign (records signatory)
    POST   /api/contracts/{id}/transition   Lifecycle transition

  Other:
    GET    /api/currencies                  Supported currency table
    POST   /api/auth/signin                 Obtain bearer token

REQUEST FLOW:
  1. Decode and validate input (validator struct tags)
  2. Call domain logic (service, statement engine)
  3. Serialize response
  4. Map domain errors to HTTP status

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, rejected transitions
  - 401: Missing/invalid token (auth middleware)
  - 404: Record not found
  - 409: Duplicate document number
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/warp/books-engine/auth"
	"github.com/warp/books-engine/books"
	"github.com/warp/books-engine/currency"
	"github.com/warp/books-engine/export"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *books.Service
	Store   books.Store
	Auth    auth.Provider
	Log     *logrus.Logger

	validate        *validator.Validate
	currentScenario string
}

// NewHandler creates a new handler with the given dependencies.
// Auth may be nil, which leaves the API open (development mode).
func NewHandler(service *books.Service, store books.Store, provider auth.Provider, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	return &Handler{
		Service:  service,
		Store:    store,
		Auth:     provider,
		Log:      log,
		validate: validator.New(),
	}
}

// decodeAndValidate decodes the body into req and runs validation tags.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

// ListClients returns all clients.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.ListClients(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list clients", err)
		return
	}

	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = toClientDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateClient creates a new client.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	client, err := h.Service.CreateClient(r.Context(), books.Client{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Currency: req.Currency,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to create client", err)
		return
	}

	writeJSON(w, http.StatusCreated, toClientDTO(client))
}

// UpdateClient overwrites an existing client's details.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CreateClientRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	client, err := h.Service.UpdateClient(r.Context(), books.Client{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Currency: req.Currency,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to update client", err)
		return
	}

	writeJSON(w, http.StatusOK, toClientDTO(client))
}

// GetClient returns a single client.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, err := h.Store.GetClient(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get client", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Client not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toClientDTO(*c))
}

// GetStatement computes and returns the client's running-balance
// statement. The statement is derived fresh on every call; nothing is
// read from or written to any cached balance.
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	st, err := h.Service.ClientStatement(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to build statement", err)
		return
	}

	dto := StatementDTO{
		ClientID: id,
		Entries:  make([]StatementEntryDTO, len(st.Entries)),
		Totals: StatementTotalsDTO{
			Debit:   books.NewAmount(st.Totals.Debit),
			Credit:  books.NewAmount(st.Totals.Credit),
			Balance: books.NewAmount(st.Totals.Balance),
		},
	}
	for i, e := range st.Entries {
		dto.Entries[i] = StatementEntryDTO{
			SourceID:    e.SourceID,
			Date:        e.Date.String(),
			Description: e.Description,
			Kind:        string(e.Kind),
			Debit:       books.NewAmount(e.Debit),
			Credit:      books.NewAmount(e.Credit),
			Balance:     books.NewAmount(e.Balance),
		}
	}

	writeJSON(w, http.StatusOK, dto)
}

// ExportStatement streams the statement as an XLSX download.
func (h *Handler) ExportStatement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	client, err := h.Store.GetClient(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get client", err)
		return
	}
	if client == nil {
		writeError(w, http.StatusNotFound, "Client not found", nil)
		return
	}

	st, err := h.Service.ClientStatement(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to build statement", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="statement.xlsx"`)
	if err := export.WriteStatementXLSX(w, client.Name, st, client.Currency); err != nil {
		h.Log.WithError(err).Error("statement export failed")
	}
}

// =============================================================================
// INVOICE HANDLERS
// =============================================================================

// ListInvoices returns all invoices and offers.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Store.ListInvoices(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list invoices", err)
		return
	}

	dtos := make([]InvoiceDTO, len(invoices))
	for i, inv := range invoices {
		dtos[i] = toInvoiceDTO(inv)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateInvoice creates an invoice or offer.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	inv, err := h.Service.CreateInvoice(r.Context(), books.Invoice{
		ClientID:  req.ClientID,
		Kind:      books.InvoiceKind(req.Kind),
		IssueDate: req.IssueDate,
		DueDate:   req.DueDate,
		Total:     req.Total,
		Currency:  req.Currency,
		Notes:     req.Notes,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to create invoice", err)
		return
	}

	writeJSON(w, http.StatusCreated, toInvoiceDTO(inv))
}

// GetInvoice returns an invoice with its derived status.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	inv, err := h.Service.InvoiceWithDerivedStatus(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get invoice", err)
		return
	}

	writeJSON(w, http.StatusOK, toInvoiceDTO(inv))
}

// SendInvoice marks a draft invoice as sent.
func (h *Handler) SendInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	inv, err := h.Service.MarkInvoiceSent(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to send invoice", err)
		return
	}

	writeJSON(w, http.StatusOK, toInvoiceDTO(inv))
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// ListPayments returns all payments.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Store.ListPayments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}

	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePayment records a payment.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	p, err := h.Service.RecordPayment(r.Context(), books.Payment{
		ClientID:  req.ClientID,
		InvoiceID: req.InvoiceID,
		Date:      req.Date,
		Amount:    req.Amount,
		Method:    books.PaymentMethod(req.Method),
		Notes:     req.Notes,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to record payment", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPaymentDTO(p))
}

// GetPayment returns a single payment.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.Store.GetPayment(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get payment", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Payment not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentDTO(*p))
}

// =============================================================================
// PRODUCT HANDLERS
// =============================================================================

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list products", err)
		return
	}

	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	p, err := h.Service.CreateProduct(r.Context(), books.Product{
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		Currency:    req.Currency,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create product", err)
		return
	}

	writeJSON(w, http.StatusCreated, toProductDTO(p))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.Store.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get product", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Product not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toProductDTO(*p))
}

// =============================================================================
// EXPENSE HANDLERS
// =============================================================================

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Store.ListExpenses(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expenses", err)
		return
	}

	dtos := make([]ExpenseDTO, len(expenses))
	for i, e := range expenses {
		dtos[i] = toExpenseDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	e, err := h.Service.CreateExpense(r.Context(), books.Expense{
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
		Amount:      req.Amount,
		Currency:    req.Currency,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create expense", err)
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseDTO(e))
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	e, err := h.Store.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get expense", err)
		return
	}
	if e == nil {
		writeError(w, http.StatusNotFound, "Expense not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toExpenseDTO(*e))
}

// =============================================================================
// CONTRACT HANDLERS
// =============================================================================

func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.Store.ListContracts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list contracts", err)
		return
	}

	dtos := make([]ContractDTO, len(contracts))
	for i, c := range contracts {
		dtos[i] = toContractDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var req CreateContractRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.Service.CreateContract(r.Context(), books.Contract{
		ClientID:  req.ClientID,
		Title:     req.Title,
		Body:      req.Body,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to create contract", err)
		return
	}

	writeJSON(w, http.StatusCreated, toContractDTO(c))
}

func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, err := h.Store.GetContract(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get contract", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Contract not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toContractDTO(*c))
}

// SignContract records the signatory and moves the contract to signed.
func (h *Handler) SignContract(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SignContractRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.Service.SignContract(r.Context(), id, req.SignedBy)
	if err != nil {
		h.writeDomainError(w, "Failed to sign contract", err)
		return
	}

	writeJSON(w, http.StatusOK, toContractDTO(c))
}

// TransitionContract applies a lifecycle transition.
func (h *Handler) TransitionContract(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req TransitionContractRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.Service.TransitionContract(r.Context(), id, books.ContractStatus(req.Status))
	if err != nil {
		h.writeDomainError(w, "Failed to transition contract", err)
		return
	}

	writeJSON(w, http.StatusOK, toContractDTO(c))
}

// =============================================================================
// CURRENCY AND AUTH HANDLERS
// =============================================================================

// ListCurrencies returns the static currency display table.
func (h *Handler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	codes := currency.Supported()
	infos := make([]currency.Info, len(codes))
	for i, code := range codes {
		infos[i] = currency.Lookup(code)
	}
	writeJSON(w, http.StatusOK, infos)
}

// SignIn exchanges credentials for a bearer token.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	if h.Auth == nil {
		writeError(w, http.StatusNotFound, "Authentication is not configured", nil)
		return
	}

	var req SignInRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	token, err := h.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	writeJSON(w, http.StatusOK, SignInResponse{Token: token})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain error categories to HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case books.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, books.ErrDuplicateNumber):
		writeError(w, http.StatusConflict, message, err)
	case books.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Log.WithError(err).Error(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
