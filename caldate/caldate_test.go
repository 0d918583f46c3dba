package caldate_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/books-engine/caldate"
)

// =============================================================================
// PARSING TESTS
// =============================================================================

func TestParse_ISO(t *testing.T) {
	d := caldate.Parse("2024-01-05")

	require.True(t, d.Valid)
	assert.Equal(t, "2024-01-05", d.String())
	assert.Equal(t, 2024, d.Year())
}

func TestParse_RFC3339_TruncatesToDay(t *testing.T) {
	// GIVEN: A full timestamp from the backend
	// WHEN: Parsing it as a calendar date
	// THEN: Time-of-day is dropped

	d := caldate.Parse("2024-01-05T17:30:00Z")

	require.True(t, d.Valid)
	assert.Equal(t, "2024-01-05", d.String())
}

func TestParse_Garbage_NeverFails(t *testing.T) {
	for _, input := range []string{"", "not-a-date", "2024-13-45", "05/01/2024"} {
		d := caldate.Parse(input)
		assert.False(t, d.Valid, "input %q should parse as invalid", input)
		assert.Equal(t, "", d.String())
	}
}

// =============================================================================
// ORDERING TESTS - Invalid dates sort after every valid date
// =============================================================================

func TestBefore_ValidDates(t *testing.T) {
	jan := caldate.New(2024, time.January, 1)
	feb := caldate.New(2024, time.February, 1)

	assert.True(t, jan.Before(feb))
	assert.False(t, feb.Before(jan))
	assert.False(t, jan.Before(jan))
	assert.True(t, feb.After(jan))
}

func TestBefore_InvalidSortsLast(t *testing.T) {
	valid := caldate.New(2024, time.June, 1)
	invalid := caldate.Parse("garbage")

	assert.True(t, valid.Before(invalid), "valid date orders before invalid")
	assert.False(t, invalid.Before(valid))
	assert.False(t, invalid.Before(invalid), "invalid dates tie with each other")
	assert.True(t, invalid.Equal(caldate.Date{}))
}

func TestBeforeOrEqual(t *testing.T) {
	d := caldate.New(2024, time.March, 10)

	assert.True(t, d.BeforeOrEqual(d))
	assert.True(t, d.BeforeOrEqual(d.AddDays(1)))
	assert.False(t, d.AddDays(1).BeforeOrEqual(d))
}

// =============================================================================
// ARITHMETIC TESTS
// =============================================================================

func TestAddDays_CrossesMonthBoundary(t *testing.T) {
	d := caldate.New(2024, time.January, 31).AddDays(1)

	assert.Equal(t, "2024-02-01", d.String())
}

func TestAddMonths(t *testing.T) {
	d := caldate.New(2024, time.November, 15).AddMonths(2)

	assert.Equal(t, "2025-01-15", d.String())
}

func TestArithmetic_InvalidStaysInvalid(t *testing.T) {
	var d caldate.Date

	assert.False(t, d.AddDays(5).Valid)
	assert.False(t, d.AddMonths(1).Valid)
	assert.True(t, d.IsZero())
}

// =============================================================================
// JSON TESTS - Decoding is tolerant by contract
// =============================================================================

func TestJSON_RoundTrip(t *testing.T) {
	d := caldate.New(2024, time.May, 7)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-07"`, string(data))

	var back caldate.Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, d.Equal(back))
}

func TestJSON_NullAndGarbage_DecodeToInvalid(t *testing.T) {
	for _, input := range []string{`null`, `""`, `"nonsense"`, `"2024-99-99"`} {
		var d caldate.Date
		require.NoError(t, json.Unmarshal([]byte(input), &d), "input %s", input)
		assert.False(t, d.Valid, "input %s should decode to the invalid date", input)
	}
}

func TestJSON_InvalidMarshalsAsNull(t *testing.T) {
	data, err := json.Marshal(caldate.Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}
