/*
number.go - Document number formatting

PURPOSE:
  Invoices and payments carry human-facing numbers like "INV-2024-0007".
  The store owns the per-prefix/per-year sequence; this file owns the
  format.
*/
package books

import (
	"fmt"
	"strconv"
	"strings"
)

// Document number prefixes.
const (
	PrefixInvoice = "INV"
	PrefixOffer   = "OFF"
	PrefixPayment = "PAY"
)

// FormatNumber returns a document number like "INV-2024-0007".
func FormatNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%04d-%04d", prefix, year, seq)
}

// ParseNumber parses "INV-2024-0007" into prefix, year, seq.
func ParseNumber(number string) (prefix string, year, seq int, err error) {
	parts := strings.SplitN(number, "-", 3)
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("invalid document number: %q", number)
	}

	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid year in document number %q: %w", number, err)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid sequence in document number %q: %w", number, err)
	}

	return parts[0], year, seq, nil
}
