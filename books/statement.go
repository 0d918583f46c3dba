/*
statement.go - Mapping invoices and payments onto the ledger engine

PURPOSE:
  Converts the two record streams of one client into ledger lines and
  hands them to ledger.BuildStatement. Invoices debit the client,
  payments credit it. Offers are excluded; any status of real invoice
  participates.

  The mapping is where boundary tolerance pays off: FlexAmount has
  already coerced bad amounts to zero and caldate has flagged bad
  dates, so this function is total like the engine beneath it.
*/
package books

import (
	"github.com/warp/books-engine/ledger"
)

// StatementForClient builds the debit/credit statement for one client
// from its invoices and payments. Both inputs may be empty and may
// arrive in any order.
func StatementForClient(invoices []Invoice, payments []Payment) ledger.Statement {
	lines := make([]ledger.Line, 0, len(invoices)+len(payments))

	for _, inv := range invoices {
		if inv.Kind != KindInvoice {
			continue
		}
		lines = append(lines, ledger.Line{
			SourceID:    inv.ID,
			Kind:        ledger.KindDebit,
			Date:        inv.IssueDate,
			Amount:      inv.Total.Decimal,
			Description: "Invoice " + inv.Number,
		})
	}

	for _, p := range payments {
		lines = append(lines, ledger.Line{
			SourceID:    p.ID,
			Kind:        ledger.KindCredit,
			Date:        p.Date,
			Amount:      p.Amount.Decimal,
			Description: "Payment " + p.Number,
		})
	}

	return ledger.BuildStatement(lines)
}
