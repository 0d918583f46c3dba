/*
Package ledger implements the statement computation engine.

PURPOSE:
  Reconstructs a running account balance from two independent record
  streams: debits (amounts owed) and credits (amounts received). The
  engine is domain-agnostic: it consumes Lines and produces a Statement.
  The books package maps invoices and payments onto Lines.

KEY CONCEPTS:
  - Line: an input record (source id, kind, date, amount, description)
  - Entry: a derived statement row with the running balance after it
  - Statement: ordered entries plus debit/credit/balance totals

DESIGN PRINCIPLES:
  1. Purity: BuildStatement has no I/O, no hidden state, and does not
     mutate its input. Same input, same output.
  2. Totality: there is no error path. Malformed amounts are coerced to
     zero upstream; malformed dates sort last (see caldate).
  3. Precision: decimal.Decimal everywhere, never float.

ORDERING:
  Entries sort ascending by calendar date. Same-date ties order debits
  before credits, then by source id. This replaces the
  whatever-the-queries-returned ordering of ad-hoc implementations with
  a deterministic rule.

SEE ALSO:
  - books/statement.go: Maps invoices/payments to Lines
  - caldate: Date ordering, including the invalid-sorts-last rule
*/
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/books-engine/caldate"
)

// =============================================================================
// TYPES
// =============================================================================

// Kind distinguishes the two sides of the statement.
type Kind string

const (
	KindDebit  Kind = "debit"  // amount owed (an invoice)
	KindCredit Kind = "credit" // amount received (a payment)
)

// Line is one input record for the statement computation.
type Line struct {
	SourceID    string
	Kind        Kind
	Date        caldate.Date
	Amount      decimal.Decimal
	Description string
}

// Entry is one row of the computed statement.
// Exactly one of Debit/Credit is nonzero; Balance is the running
// balance after applying this entry.
type Entry struct {
	SourceID    string
	Date        caldate.Date
	Description string
	Kind        Kind
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     decimal.Decimal
}

// Totals summarizes a statement. Balance == Debit - Credit always.
type Totals struct {
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Balance decimal.Decimal
}

// Statement is the full computed ledger for one account.
type Statement struct {
	Entries []Entry
	Totals  Totals
}

// =============================================================================
// STATEMENT COMPUTATION
// =============================================================================

// BuildStatement merges lines into a chronologically ordered statement
// with a running balance.
//
// GUARANTEES:
//   - len(Entries) == len(lines)
//   - Totals.Balance == Totals.Debit - Totals.Credit
//   - Entries are non-decreasing by date; same-date ties order debits
//     before credits, then by source id
//   - pure and total: lines are not mutated, and no input can fail
func BuildStatement(lines []Line) Statement {
	ordered := make([]Line, len(lines))
	copy(ordered, lines)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Kind != b.Kind {
			return a.Kind == KindDebit
		}
		return a.SourceID < b.SourceID
	})

	entries := make([]Entry, len(ordered))
	var totalDebit, totalCredit, balance decimal.Decimal

	for i, line := range ordered {
		e := Entry{
			SourceID:    line.SourceID,
			Date:        line.Date,
			Description: line.Description,
			Kind:        line.Kind,
		}
		switch line.Kind {
		case KindCredit:
			e.Credit = line.Amount
			totalCredit = totalCredit.Add(line.Amount)
			balance = balance.Sub(line.Amount)
		default:
			e.Debit = line.Amount
			totalDebit = totalDebit.Add(line.Amount)
			balance = balance.Add(line.Amount)
		}
		e.Balance = balance
		entries[i] = e
	}

	return Statement{
		Entries: entries,
		Totals: Totals{
			Debit:   totalDebit,
			Credit:  totalCredit,
			Balance: balance,
		},
	}
}

// IsEmpty reports whether the statement has no entries.
func (s Statement) IsEmpty() bool { return len(s.Entries) == 0 }
