/*
status.go - Invoice status derivation and the contract lifecycle

PURPOSE:
  Two pieces of state logic live here.

  1. Invoice status is partly stored, partly derived. Draft/sent is what
     the user chose; paid and overdue are facts about payments and the
     calendar. DeriveInvoiceStatus folds both into the status the
     application shows.

  2. Contracts move through an explicit lifecycle. Transitions are
     whitelisted; signing additionally records who signed and when.

INVOICE STATUS RULES:
  - offers never derive: they keep their stored status
  - paid when applied payments cover the total (total > 0)
  - overdue when sent, unpaid, and past the due date
  - otherwise the stored status stands

CONTRACT LIFECYCLE:
  draft -> sent -> signed -> active -> expired
  draft/sent/signed/active -> cancelled
*/
package books

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/books-engine/caldate"
)

// =============================================================================
// INVOICE STATUS DERIVATION
// =============================================================================

// DeriveInvoiceStatus computes the effective status of an invoice from
// its stored status, the payments applied to it, and today's date.
func DeriveInvoiceStatus(inv Invoice, payments []Payment, today caldate.Date) InvoiceStatus {
	if inv.Kind == KindOffer {
		return inv.Status
	}

	applied := decimal.Zero
	for _, p := range payments {
		if p.InvoiceID == inv.ID {
			applied = applied.Add(p.Amount.Decimal)
		}
	}

	if inv.Total.Decimal.IsPositive() && applied.GreaterThanOrEqual(inv.Total.Decimal) {
		return InvoicePaid
	}

	if inv.Status != InvoiceDraft && inv.DueDate.Valid && today.After(inv.DueDate) {
		return InvoiceOverdue
	}

	return inv.Status
}

// =============================================================================
// CONTRACT LIFECYCLE
// =============================================================================

var contractTransitions = map[ContractStatus][]ContractStatus{
	ContractDraft:  {ContractSent, ContractCancelled},
	ContractSent:   {ContractSigned, ContractCancelled},
	ContractSigned: {ContractActive, ContractCancelled},
	ContractActive: {ContractExpired, ContractCancelled},
}

// CanTransition reports whether a contract may move from one status to
// another.
func CanTransition(from, to ContractStatus) bool {
	for _, allowed := range contractTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition moves the contract to a new status, enforcing the
// lifecycle. Returns TransitionError for disallowed moves.
func (c *Contract) Transition(to ContractStatus) error {
	if !CanTransition(c.Status, to) {
		return &TransitionError{ContractID: c.ID, From: c.Status, To: to}
	}
	c.Status = to
	return nil
}

// Sign moves the contract to signed, recording the signatory and time.
func (c *Contract) Sign(signedBy string, at time.Time) error {
	if signedBy == "" {
		return ErrSignatureRequired
	}
	if err := c.Transition(ContractSigned); err != nil {
		return err
	}
	c.SignedBy = signedBy
	c.SignedAt = at
	return nil
}
