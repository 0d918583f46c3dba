/*
Package export renders a computed statement to a downloadable document.

PURPOSE:
  The export target consumes the {entries, totals} shape produced by the
  ledger engine and nothing else - it has no access to the store and no
  knowledge of how the statement was computed. The current format is
  XLSX; a PDF (or any other) generator would consume the same shape.

SEE ALSO:
  - ledger/statement.go: The shape this package consumes
  - api/handlers.go: The download endpoint
*/
package export

import (
	"fmt"
	"io"

	"github.com/warp/books-engine/currency"
	"github.com/warp/books-engine/ledger"
	"github.com/xuri/excelize/v2"
)

const sheet = "Statement"

// WriteStatementXLSX writes an XLSX workbook for one client's statement.
// Amounts are rendered with the client's display currency.
func WriteStatementXLSX(w io.Writer, clientName string, st ledger.Statement, currencyCode string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheet, "A1", "Statement for "+clientName)

	// Header row
	f.SetCellValue(sheet, "A3", "Date")
	f.SetCellValue(sheet, "B3", "Description")
	f.SetCellValue(sheet, "C3", "Debit")
	f.SetCellValue(sheet, "D3", "Credit")
	f.SetCellValue(sheet, "E3", "Balance")

	row := 4
	for _, e := range st.Entries {
		f.SetCellValue(sheet, cell("A", row), e.Date.String())
		f.SetCellValue(sheet, cell("B", row), e.Description)
		if e.Kind == ledger.KindDebit {
			f.SetCellValue(sheet, cell("C", row), currency.Format(e.Debit, currencyCode))
		} else {
			f.SetCellValue(sheet, cell("D", row), currency.Format(e.Credit, currencyCode))
		}
		f.SetCellValue(sheet, cell("E", row), currency.Format(e.Balance, currencyCode))
		row++
	}

	row++
	f.SetCellValue(sheet, cell("B", row), "Totals")
	f.SetCellValue(sheet, cell("C", row), currency.Format(st.Totals.Debit, currencyCode))
	f.SetCellValue(sheet, cell("D", row), currency.Format(st.Totals.Credit, currencyCode))
	f.SetCellValue(sheet, cell("E", row), currency.Format(st.Totals.Balance, currencyCode))

	return f.Write(w)
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
