package currency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/books-engine/currency"
)

func amt(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// =============================================================================
// MONEY FORMATTING TESTS
// =============================================================================

func TestFormat_USD(t *testing.T) {
	assert.Equal(t, "$1,234.50", currency.Format(amt(1234.5), "USD"))
	assert.Equal(t, "$0.00", currency.Format(decimal.Zero, "USD"))
	assert.Equal(t, "$1,000,000.00", currency.Format(amt(1000000), "USD"))
}

func TestFormat_UnknownCode_FallsBackToUSD(t *testing.T) {
	// GIVEN: A currency code missing from the table
	// WHEN: Formatting an amount
	// THEN: USD-style formatting, no error

	assert.Equal(t, "$1,234.50", currency.Format(amt(1234.5), "XXX"))
	assert.Equal(t, "$5.00", currency.Format(amt(5), ""))
}

func TestFormat_LocaleSeparators(t *testing.T) {
	// German locale swaps group and decimal separators.
	assert.Equal(t, "€1.234,50", currency.Format(amt(1234.5), "EUR"))
	// Swiss grouping uses apostrophes.
	assert.Equal(t, "CHF1'234.50", currency.Format(amt(1234.5), "CHF"))
	// Swedish uses space grouping and comma decimals.
	assert.Equal(t, "kr1 234,50", currency.Format(amt(1234.5), "SEK"))
}

func TestFormat_Yen_NoDecimals(t *testing.T) {
	assert.Equal(t, "¥1,500", currency.Format(amt(1500), "JPY"))
}

func TestFormat_Negative(t *testing.T) {
	assert.Equal(t, "-$42.00", currency.Format(amt(-42), "USD"))
}

func TestFormat_CaseInsensitiveCode(t *testing.T) {
	assert.Equal(t, "£9.99", currency.Format(amt(9.99), "gbp"))
}

// =============================================================================
// LOOKUP TESTS
// =============================================================================

func TestLookup(t *testing.T) {
	info := currency.Lookup("EUR")
	assert.Equal(t, "EUR", info.Code)
	assert.Equal(t, "€", info.Symbol)
	assert.Equal(t, "Euro", info.DisplayName)

	fallback := currency.Lookup("NOPE")
	assert.Equal(t, "USD", fallback.Code)
}

func TestSupported_ContainsKnownCodes(t *testing.T) {
	codes := currency.Supported()
	assert.Contains(t, codes, "USD")
	assert.Contains(t, codes, "EUR")
	assert.Contains(t, codes, "JPY")
}

// =============================================================================
// DATE FORMATTING TESTS
// =============================================================================

func TestFormatDate_Short(t *testing.T) {
	assert.Equal(t, "Jan 5, 2024", currency.FormatDate("2024-01-05", "en-US"))
	assert.Equal(t, "März 1, 2024", currency.FormatDate("2024-03-01", "de-DE"))
}

func TestFormatDateLong(t *testing.T) {
	assert.Equal(t, "January 5, 2024", currency.FormatDateLong("2024-01-05", "en-US"))
	assert.Equal(t, "janvier 5, 2024", currency.FormatDateLong("2024-01-05", "fr-FR"))
}

func TestFormatDate_UnknownLocale_FallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "Jul 4, 2024", currency.FormatDate("2024-07-04", "zz-ZZ"))
}

func TestFormatDate_InvalidInput_EmptyString(t *testing.T) {
	assert.Equal(t, "", currency.FormatDate("not-a-date", "en-US"))
	assert.Equal(t, "", currency.FormatDateLong("", "en-US"))
}
