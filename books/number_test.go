package books_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/books-engine/books"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "INV-2024-0007", books.FormatNumber(books.PrefixInvoice, 2024, 7))
	assert.Equal(t, "PAY-2025-0123", books.FormatNumber(books.PrefixPayment, 2025, 123))
	assert.Equal(t, "OFF-2024-10000", books.FormatNumber(books.PrefixOffer, 2024, 10000))
}

func TestParseNumber_RoundTrip(t *testing.T) {
	prefix, year, seq, err := books.ParseNumber(books.FormatNumber(books.PrefixInvoice, 2024, 42))

	require.NoError(t, err)
	assert.Equal(t, books.PrefixInvoice, prefix)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 42, seq)
}

func TestParseNumber_Invalid(t *testing.T) {
	for _, number := range []string{"", "INV", "INV-abc-0001", "INV-2024-xyz"} {
		_, _, _, err := books.ParseNumber(number)
		assert.Error(t, err, "number %q", number)
	}
}
