package books_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/books-engine/books"
	"github.com/warp/books-engine/caldate"
	"github.com/warp/books-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) (*books.Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	return books.NewService(store, nil), store
}

func mustCreateClient(t *testing.T, svc *books.Service, name string) books.Client {
	t.Helper()
	client, err := svc.CreateClient(context.Background(), books.Client{Name: name, Currency: "USD"})
	require.NoError(t, err)
	return client
}

// =============================================================================
// CLIENT AND DOCUMENT CREATION
// =============================================================================

func TestService_CreateClient_AssignsIDAndDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	client, err := svc.CreateClient(context.Background(), books.Client{Name: "Acme"})

	require.NoError(t, err)
	assert.NotEmpty(t, client.ID)
	assert.Equal(t, "USD", client.Currency)
	assert.False(t, client.CreatedAt.IsZero())
}

func TestService_CreateInvoice_NumbersPerYear(t *testing.T) {
	// GIVEN: Invoices issued in two different years
	// WHEN: Creating them without explicit numbers
	// THEN: Sequences restart per year

	svc, _ := newTestService(t)
	client := mustCreateClient(t, svc, "Acme")
	ctx := context.Background()

	inv1, err := svc.CreateInvoice(ctx, books.Invoice{
		ClientID: client.ID, IssueDate: caldate.New(2024, time.January, 5), Total: books.AmountFromFloat(100),
	})
	require.NoError(t, err)
	inv2, err := svc.CreateInvoice(ctx, books.Invoice{
		ClientID: client.ID, IssueDate: caldate.New(2024, time.February, 5), Total: books.AmountFromFloat(100),
	})
	require.NoError(t, err)
	inv3, err := svc.CreateInvoice(ctx, books.Invoice{
		ClientID: client.ID, IssueDate: caldate.New(2025, time.January, 5), Total: books.AmountFromFloat(100),
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-2024-0001", inv1.Number)
	assert.Equal(t, "INV-2024-0002", inv2.Number)
	assert.Equal(t, "INV-2025-0001", inv3.Number)
	assert.Equal(t, books.InvoiceDraft, inv1.Status)
}

func TestService_CreateInvoice_OffersGetOwnPrefix(t *testing.T) {
	svc, _ := newTestService(t)
	client := mustCreateClient(t, svc, "Acme")

	offer, err := svc.CreateInvoice(context.Background(), books.Invoice{
		ClientID: client.ID, Kind: books.KindOffer,
		IssueDate: caldate.New(2024, time.March, 1), Total: books.AmountFromFloat(500),
	})

	require.NoError(t, err)
	assert.Equal(t, "OFF-2024-0001", offer.Number)
}

func TestService_CreateInvoice_UnknownClientRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateInvoice(context.Background(), books.Invoice{ClientID: "missing"})

	assert.ErrorIs(t, err, books.ErrMissingClient)
}

// =============================================================================
// PAYMENTS AND STATUS REFRESH
// =============================================================================

func TestService_RecordPayment_MarksInvoicePaid(t *testing.T) {
	// GIVEN: A sent invoice for 200
	// WHEN: Recording a covering payment against it
	// THEN: The stored invoice flips to paid

	svc, store := newTestService(t)
	client := mustCreateClient(t, svc, "Acme")
	ctx := context.Background()

	inv, err := svc.CreateInvoice(ctx, books.Invoice{
		ClientID: client.ID, IssueDate: caldate.New(2024, time.January, 10), Total: books.AmountFromFloat(200),
	})
	require.NoError(t, err)
	_, err = svc.MarkInvoiceSent(ctx, inv.ID)
	require.NoError(t, err)

	pay, err := svc.RecordPayment(ctx, books.Payment{
		ClientID: client.ID, InvoiceID: inv.ID,
		Date: caldate.New(2024, time.January, 15), Amount: books.AmountFromFloat(200),
	})
	require.NoError(t, err)
	assert.Equal(t, "PAY-2024-0001", pay.Number)
	assert.Equal(t, books.MethodBank, pay.Method, "method defaults to bank")

	stored, err := store.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, books.InvoicePaid, stored.Status)
}

func TestService_RecordPayment_PartialLeavesInvoiceSent(t *testing.T) {
	svc, store := newTestService(t)
	client := mustCreateClient(t, svc, "Acme")
	ctx := context.Background()

	inv, err := svc.CreateInvoice(ctx, books.Invoice{
		ClientID: client.ID, IssueDate: caldate.Today(), Total: books.AmountFromFloat(200),
	})
	require.NoError(t, err)
	_, err = svc.MarkInvoiceSent(ctx, inv.ID)
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, books.Payment{
		ClientID: client.ID, InvoiceID: inv.ID,
		Date: caldate.Today(), Amount: books.AmountFromFloat(50),
	})
	require.NoError(t, err)

	stored, err := store.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, books.InvoiceSent, stored.Status)
}

func TestService_RecordPayment_UnappliedAllowed(t *testing.T) {
	svc, _ := newTestService(t)
	client := mustCreateClient(t, svc, "Acme")

	pay, err := svc.RecordPayment(context.Background(), books.Payment{
		ClientID: client.ID, Date: caldate.Today(), Amount: books.AmountFromFloat(75),
	})

	require.NoError(t, err)
	assert.Empty(t, pay.InvoiceID)
}

// =============================================================================
// STATEMENT
// =============================================================================

func TestService_ClientStatement(t *testing.T) {
	// GIVEN: A client with an invoice, an offer, and a partial payment
	// WHEN: Building the statement
	// THEN: The offer is excluded and the balance reflects debit - credit

	svc, _ := newTestService(t)
	client := mustCreateClient(t, svc, "Acme")
	ctx := context.Background()

	_, err := svc.CreateInvoice(ctx, books.Invoice{
		ClientID: client.ID, IssueDate: caldate.New(2024, time.April, 1), Total: books.AmountFromFloat(300),
	})
	require.NoError(t, err)
	_, err = svc.CreateInvoice(ctx, books.Invoice{
		ClientID: client.ID, Kind: books.KindOffer,
		IssueDate: caldate.New(2024, time.April, 2), Total: books.AmountFromFloat(900),
	})
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, books.Payment{
		ClientID: client.ID, Date: caldate.New(2024, time.April, 10), Amount: books.AmountFromFloat(100),
	})
	require.NoError(t, err)

	st, err := svc.ClientStatement(ctx, client.ID)

	require.NoError(t, err)
	require.Len(t, st.Entries, 2)
	assert.Equal(t, "300", st.Totals.Debit.String())
	assert.Equal(t, "100", st.Totals.Credit.String())
	assert.Equal(t, "200", st.Totals.Balance.String())
}

func TestService_ClientStatement_UnknownClient(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ClientStatement(context.Background(), "missing")

	assert.True(t, books.IsNotFound(err))
}

// =============================================================================
// CONTRACTS
// =============================================================================

func TestService_ContractLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	client := mustCreateClient(t, svc, "Acme")
	ctx := context.Background()

	c, err := svc.CreateContract(ctx, books.Contract{ClientID: client.ID, Title: "Retainer"})
	require.NoError(t, err)
	assert.Equal(t, books.ContractDraft, c.Status)

	c, err = svc.TransitionContract(ctx, c.ID, books.ContractSent)
	require.NoError(t, err)

	c, err = svc.SignContract(ctx, c.ID, "Jordan Reyes")
	require.NoError(t, err)
	assert.Equal(t, books.ContractSigned, c.Status)
	assert.Equal(t, "Jordan Reyes", c.SignedBy)

	// Disallowed jumps are rejected and leave the record untouched.
	_, err = svc.TransitionContract(ctx, c.ID, books.ContractDraft)
	assert.ErrorIs(t, err, books.ErrInvalidTransition)
}
