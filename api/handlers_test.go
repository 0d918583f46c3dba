package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/books-engine/api"
	"github.com/warp/books-engine/auth"
	"github.com/warp/books-engine/books"
	"github.com/warp/books-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.New()
	service := books.NewService(store, nil)
	handler := api.NewHandler(service, store, nil, nil)
	server := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createTestClient(t *testing.T, server *httptest.Server) string {
	t.Helper()
	resp := postJSON(t, server.URL+"/api/clients", map[string]any{
		"name": "Acme Industries", "email": "billing@acme.example", "currency": "USD",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var client struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &client)
	require.NotEmpty(t, client.ID)
	return client.ID
}

// =============================================================================
// CLIENT ENDPOINT TESTS
// =============================================================================

func TestCreateAndGetClient(t *testing.T) {
	server := newTestServer(t)
	id := createTestClient(t, server)

	resp, err := http.Get(server.URL + "/api/clients/" + id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var client map[string]any
	decodeBody(t, resp, &client)
	assert.Equal(t, "Acme Industries", client["name"])
	assert.Equal(t, "USD", client["currency"])
}

func TestCreateClient_ValidationFailure(t *testing.T) {
	server := newTestServer(t)

	// Missing required name.
	resp := postJSON(t, server.URL+"/api/clients", map[string]any{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Malformed email.
	resp = postJSON(t, server.URL+"/api/clients", map[string]any{"name": "A", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateClient(t *testing.T) {
	server := newTestServer(t)
	id := createTestClient(t, server)

	data, err := json.Marshal(map[string]any{
		"name": "Acme Holdings", "email": "ap@acme.example",
	})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/clients/"+id, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var client map[string]any
	decodeBody(t, resp, &client)
	assert.Equal(t, "Acme Holdings", client["name"])
	// Empty currency keeps the existing one.
	assert.Equal(t, "USD", client["currency"])
}

func TestUpdateClient_NotFound(t *testing.T) {
	server := newTestServer(t)

	data, err := json.Marshal(map[string]any{"name": "Nobody"})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/clients/missing", bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetClient_NotFound(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/clients/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// INVOICE AND PAYMENT ENDPOINT TESTS
// =============================================================================

func TestInvoiceFlow_CreateSendPay(t *testing.T) {
	// GIVEN: A client with a sent invoice
	// WHEN: Recording a covering payment
	// THEN: The invoice reads back as paid

	server := newTestServer(t)
	clientID := createTestClient(t, server)

	resp := postJSON(t, server.URL+"/api/invoices", map[string]any{
		"client_id": clientID, "issue_date": "2024-01-10", "due_date": "2024-02-09",
		"total": 200, "currency": "USD",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var inv map[string]any
	decodeBody(t, resp, &inv)
	invoiceID := inv["id"].(string)
	assert.Equal(t, "draft", inv["status"])
	assert.Contains(t, inv["number"], "INV-2024-")

	resp = postJSON(t, server.URL+"/api/invoices/"+invoiceID+"/send", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/payments", map[string]any{
		"client_id": clientID, "invoice_id": invoiceID,
		"date": "2024-01-20", "amount": 200, "method": "bank",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(server.URL + "/api/invoices/" + invoiceID)
	require.NoError(t, err)
	decodeBody(t, resp, &inv)
	assert.Equal(t, "paid", inv["status"])
}

func TestCreateInvoice_UnknownClient(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/invoices", map[string]any{
		"client_id": "missing", "total": 100,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateInvoice_GarbageAmountCoercesToZero(t *testing.T) {
	// Boundary tolerance: a junk total becomes zero, not an error.
	server := newTestServer(t)
	clientID := createTestClient(t, server)

	resp := postJSON(t, server.URL+"/api/invoices", map[string]any{
		"client_id": clientID, "issue_date": "2024-01-10", "total": "abc",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var inv map[string]any
	decodeBody(t, resp, &inv)
	assert.Equal(t, "0", fmt.Sprint(inv["total"]))
}

// =============================================================================
// STATEMENT ENDPOINT TESTS
// =============================================================================

func TestGetStatement(t *testing.T) {
	server := newTestServer(t)
	clientID := createTestClient(t, server)

	resp := postJSON(t, server.URL+"/api/invoices", map[string]any{
		"client_id": clientID, "issue_date": "2024-01-10", "total": 300,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/payments", map[string]any{
		"client_id": clientID, "date": "2024-01-20", "amount": 100,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(server.URL + "/api/clients/" + clientID + "/statement")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var st struct {
		ClientID string `json:"client_id"`
		Entries  []struct {
			Kind    string           `json:"kind"`
			Date    string           `json:"date"`
			Balance books.FlexAmount `json:"balance"`
		} `json:"entries"`
		Totals struct {
			Debit   books.FlexAmount `json:"debit"`
			Credit  books.FlexAmount `json:"credit"`
			Balance books.FlexAmount `json:"balance"`
		} `json:"totals"`
	}
	decodeBody(t, resp, &st)

	assert.Equal(t, clientID, st.ClientID)
	require.Len(t, st.Entries, 2)
	assert.Equal(t, "debit", st.Entries[0].Kind)
	assert.Equal(t, "2024-01-10", st.Entries[0].Date)
	assert.Equal(t, "credit", st.Entries[1].Kind)
	assert.Equal(t, "200", st.Entries[1].Balance.String())
	assert.Equal(t, "200", st.Totals.Balance.String())
}

func TestGetStatement_EmptyClient(t *testing.T) {
	server := newTestServer(t)
	clientID := createTestClient(t, server)

	resp, err := http.Get(server.URL + "/api/clients/" + clientID + "/statement")
	require.NoError(t, err)

	var st struct {
		Entries []any `json:"entries"`
		Totals  struct {
			Balance books.FlexAmount `json:"balance"`
		} `json:"totals"`
	}
	decodeBody(t, resp, &st)
	assert.Empty(t, st.Entries)
	assert.True(t, st.Totals.Balance.IsZero())
}

func TestExportStatement_ReturnsSpreadsheet(t *testing.T) {
	server := newTestServer(t)
	clientID := createTestClient(t, server)

	resp, err := http.Get(server.URL + "/api/clients/" + clientID + "/statement/export")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
}

// =============================================================================
// CONTRACT ENDPOINT TESTS
// =============================================================================

func TestContractFlow_SignViaAPI(t *testing.T) {
	server := newTestServer(t)
	clientID := createTestClient(t, server)

	resp := postJSON(t, server.URL+"/api/contracts", map[string]any{
		"client_id": clientID, "title": "Retainer 2024",
		"start_date": "2024-01-01", "end_date": "2024-12-31",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var contract map[string]any
	decodeBody(t, resp, &contract)
	contractID := contract["id"].(string)
	assert.Equal(t, "draft", contract["status"])

	resp = postJSON(t, server.URL+"/api/contracts/"+contractID+"/transition",
		map[string]any{"status": "sent"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/contracts/"+contractID+"/sign",
		map[string]any{"signed_by": "Jordan Reyes"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &contract)
	assert.Equal(t, "signed", contract["status"])
	assert.Equal(t, "Jordan Reyes", contract["signed_by"])

	// Jumping back to draft is rejected by the validator's oneof before
	// the lifecycle even sees it; an allowed-but-wrong move gets a 400.
	resp = postJSON(t, server.URL+"/api/contracts/"+contractID+"/transition",
		map[string]any{"status": "sent"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// =============================================================================
// AUTH TESTS
// =============================================================================

func TestAuth_GateAndSignIn(t *testing.T) {
	// GIVEN: A server with a JWT provider configured
	// WHEN: Calling the API without, then with, a token
	// THEN: 401 without, 200 with

	store := memory.New()
	service := books.NewService(store, nil)
	provider := auth.NewJWTProvider("test-secret", time.Hour, []auth.Credential{
		{
			User:     auth.User{ID: "admin", Email: "admin@books.local", Role: "admin"},
			Password: "s3cret",
		},
	})
	handler := api.NewHandler(service, store, provider, nil)
	server := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/api/clients")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, server.URL+"/api/auth/signin", map[string]any{
		"email": "admin@books.local", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/auth/signin", map[string]any{
		"email": "admin@books.local", "password": "s3cret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var signin struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &signin)
	require.NotEmpty(t, signin.Token)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/clients", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+signin.Token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// =============================================================================
// CURRENCY AND SCENARIO TESTS
// =============================================================================

func TestListCurrencies(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/currencies")
	require.NoError(t, err)

	var infos []struct {
		Code   string `json:"Code"`
		Symbol string `json:"Symbol"`
	}
	decodeBody(t, resp, &infos)
	assert.NotEmpty(t, infos)
}

func TestLoadScenario(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/scenarios/load",
		map[string]any{"scenario_id": "consulting-studio"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(server.URL + "/api/clients")
	require.NoError(t, err)
	var clients []map[string]any
	decodeBody(t, resp, &clients)
	assert.Len(t, clients, 2)

	resp, err = http.Get(server.URL + "/api/scenarios/current")
	require.NoError(t, err)
	var current map[string]any
	decodeBody(t, resp, &current)
	assert.Equal(t, "consulting-studio", current["id"])
}

func TestLoadScenario_Unknown(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/scenarios/load",
		map[string]any{"scenario_id": "nope"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
