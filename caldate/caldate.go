/*
Package caldate provides the calendar-date type used throughout the engine.

PURPOSE:
  Ledger ordering is defined over calendar dates, not timestamps. A Date
  carries day granularity only and knows whether it parsed successfully.
  Invalid dates are first-class values: they compare AFTER every valid
  date, so malformed input sorts to the end of a statement instead of
  crashing the computation.

TOLERANT DECODING:
  Date implements json.Unmarshaler and never returns an error. Backend
  records arrive with dates as "2024-01-05", RFC3339 timestamps, empty
  strings, or null. Anything unparseable becomes the invalid date.

SEE ALSO:
  - ledger/statement.go: Uses Date ordering for entry sort
*/
package caldate

import (
	"bytes"
	"time"
)

// ISO is the canonical wire format for calendar dates.
const ISO = "2006-01-02"

// Date is a calendar date with day granularity.
// The zero value is the invalid date.
type Date struct {
	Time  time.Time
	Valid bool
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

func New(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Valid: true}
}

func FromTime(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return New(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return FromTime(time.Now().UTC())
}

// Parse accepts "2006-01-02" or an RFC3339 timestamp. Anything else
// yields the invalid date; Parse never fails.
func Parse(s string) Date {
	if t, err := time.Parse(ISO, s); err == nil {
		return FromTime(t)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return FromTime(t)
	}
	return Date{}
}

// =============================================================================
// COMPARISON - Invalid dates order after every valid date
// =============================================================================

// Before reports whether d orders strictly before other.
// An invalid date is never before another invalid date, and a valid
// date is always before an invalid one.
func (d Date) Before(other Date) bool {
	if !d.Valid {
		return false
	}
	if !other.Valid {
		return true
	}
	return d.Time.Before(other.Time)
}

func (d Date) After(other Date) bool { return other.Before(d) }

func (d Date) Equal(other Date) bool {
	if d.Valid != other.Valid {
		return false
	}
	if !d.Valid {
		return true
	}
	return d.Time.Equal(other.Time)
}

func (d Date) BeforeOrEqual(other Date) bool { return !other.Before(d) }

// =============================================================================
// ARITHMETIC AND PROPERTIES
// =============================================================================

func (d Date) AddDays(n int) Date {
	if !d.Valid {
		return d
	}
	return FromTime(d.Time.AddDate(0, 0, n))
}

func (d Date) AddMonths(n int) Date {
	if !d.Valid {
		return d
	}
	return FromTime(d.Time.AddDate(0, n, 0))
}

func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) IsZero() bool { return !d.Valid }

// String renders "2006-01-02", or "" for the invalid date.
func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(ISO)
}

// =============================================================================
// JSON - Tolerant by contract: decoding never fails
// =============================================================================

var jsonNull = []byte("null")

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return jsonNull, nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON coerces strings, timestamps, null, and garbage.
// Unparseable input becomes the invalid date rather than an error.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		*d = Date{}
		return nil
	}
	s := string(bytes.Trim(data, `"`))
	*d = Parse(s)
	return nil
}
