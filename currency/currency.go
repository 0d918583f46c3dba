/*
Package currency renders money and calendar dates for display.

PURPOSE:
  A small, static lookup table maps ISO currency codes to their symbol,
  display name, and formatting locale. Formatting is pure and total:
  an unknown currency code silently falls back to USD, an unknown
  locale falls back to en-US, and invalid dates render as the empty
  string. Extending the table is a data change, not a logic change.

SEE ALSO:
  - export/xlsx.go: Uses Format for statement cells
*/
package currency

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/books-engine/caldate"
)

// =============================================================================
// CURRENCY TABLE
// =============================================================================

// Info describes how one currency is displayed.
type Info struct {
	Code        string
	Symbol      string
	DisplayName string
	Locale      string
	Decimals    int32
}

// DefaultCode is the fallback for unknown currency codes.
const DefaultCode = "USD"

var currencies = map[string]Info{
	"USD": {Code: "USD", Symbol: "$", DisplayName: "US Dollar", Locale: "en-US", Decimals: 2},
	"EUR": {Code: "EUR", Symbol: "€", DisplayName: "Euro", Locale: "de-DE", Decimals: 2},
	"GBP": {Code: "GBP", Symbol: "£", DisplayName: "British Pound", Locale: "en-GB", Decimals: 2},
	"CHF": {Code: "CHF", Symbol: "CHF", DisplayName: "Swiss Franc", Locale: "de-CH", Decimals: 2},
	"JPY": {Code: "JPY", Symbol: "¥", DisplayName: "Japanese Yen", Locale: "ja-JP", Decimals: 0},
	"CAD": {Code: "CAD", Symbol: "CA$", DisplayName: "Canadian Dollar", Locale: "en-CA", Decimals: 2},
	"AUD": {Code: "AUD", Symbol: "A$", DisplayName: "Australian Dollar", Locale: "en-AU", Decimals: 2},
	"INR": {Code: "INR", Symbol: "₹", DisplayName: "Indian Rupee", Locale: "en-IN", Decimals: 2},
	"SEK": {Code: "SEK", Symbol: "kr", DisplayName: "Swedish Krona", Locale: "sv-SE", Decimals: 2},
}

// separators per formatting locale: group then decimal.
var localeSeparators = map[string][2]string{
	"en-US": {",", "."},
	"en-GB": {",", "."},
	"en-CA": {",", "."},
	"en-AU": {",", "."},
	"en-IN": {",", "."},
	"ja-JP": {",", "."},
	"de-DE": {".", ","},
	"de-CH": {"'", "."},
	"sv-SE": {" ", ","},
}

// Lookup returns display info for a currency code, falling back to USD
// for unknown or empty codes. Never fails.
func Lookup(code string) Info {
	if info, ok := currencies[strings.ToUpper(code)]; ok {
		return info
	}
	return currencies[DefaultCode]
}

// Supported returns the known currency codes in stable order.
func Supported() []string {
	codes := make([]string, 0, len(currencies))
	for code := range currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// =============================================================================
// MONEY FORMATTING
// =============================================================================

// Format renders an amount with the symbol and separators of the given
// currency, e.g. Format(1234.5, "USD") == "$1,234.50".
// Unknown codes fall back to USD-style formatting.
func Format(amount decimal.Decimal, code string) string {
	info := Lookup(code)
	seps, ok := localeSeparators[info.Locale]
	if !ok {
		seps = localeSeparators["en-US"]
	}

	negative := amount.IsNegative()
	fixed := amount.Abs().StringFixed(info.Decimals)

	intPart := fixed
	fracPart := ""
	if dot := strings.IndexByte(fixed, '.'); dot >= 0 {
		intPart, fracPart = fixed[:dot], fixed[dot+1:]
	}

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(info.Symbol)
	b.WriteString(group(intPart, seps[0]))
	if fracPart != "" {
		b.WriteString(seps[1])
		b.WriteString(fracPart)
	}
	return b.String()
}

// group inserts a thousands separator into an unsigned integer string.
func group(digits, sep string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// =============================================================================
// DATE FORMATTING
// =============================================================================

// DefaultLocale is the fallback for unknown display locales.
const DefaultLocale = "en-US"

var monthsShort = map[string][12]string{
	"en": {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	"de": {"Jan.", "Feb.", "März", "Apr.", "Mai", "Juni", "Juli", "Aug.", "Sept.", "Okt.", "Nov.", "Dez."},
	"fr": {"janv.", "févr.", "mars", "avr.", "mai", "juin", "juil.", "août", "sept.", "oct.", "nov.", "déc."},
	"es": {"ene.", "feb.", "mar.", "abr.", "may.", "jun.", "jul.", "ago.", "sept.", "oct.", "nov.", "dic."},
	"sv": {"jan.", "feb.", "mars", "apr.", "maj", "juni", "juli", "aug.", "sep.", "okt.", "nov.", "dec."},
}

var monthsLong = map[string][12]string{
	"en": {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	"de": {"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
	"fr": {"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	"es": {"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	"sv": {"januari", "februari", "mars", "april", "maj", "juni", "juli", "augusti", "september", "oktober", "november", "december"},
}

// FormatDate renders an ISO date string in short form, e.g.
// "2024-01-05" -> "Jan 5, 2024". Invalid input renders as "".
func FormatDate(iso string, locale string) string {
	return formatDate(caldate.Parse(iso), locale, monthsShort)
}

// FormatDateLong renders an ISO date string in long form, e.g.
// "2024-01-05" -> "January 5, 2024". Invalid input renders as "".
func FormatDateLong(iso string, locale string) string {
	return formatDate(caldate.Parse(iso), locale, monthsLong)
}

func formatDate(d caldate.Date, locale string, months map[string][12]string) string {
	if !d.Valid {
		return ""
	}
	names, ok := months[language(locale)]
	if !ok {
		names = months[language(DefaultLocale)]
	}
	month := names[int(d.Time.Month())-1]
	return month + " " + strconv.Itoa(d.Time.Day()) + ", " + strconv.Itoa(d.Time.Year())
}

// language extracts the language subtag: "de-DE" -> "de".
func language(locale string) string {
	if i := strings.IndexByte(locale, '-'); i > 0 {
		return strings.ToLower(locale[:i])
	}
	return strings.ToLower(locale)
}
