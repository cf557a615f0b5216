// Package elements converts raw 835 element strings into typed values
// and resolves qualifier codes against static lookup tables. Unknown
// codes always pass through unchanged; real-world files routinely
// carry codes outside any curated set.
package elements

import (
	"strings"
	"time"

	"github.com/oarkflow/convert"
	"github.com/oarkflow/date"
)

// Integer coerces a raw element to an int. Empty and malformed values
// report ok=false instead of failing the parse.
func Integer(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	return convert.ToInt(raw)
}

// Decimal normalizes a raw monetary amount, keeping the original
// textual precision. Returns "" for blank input; malformed values pass
// through, the flattened output reports what the file said.
func Decimal(raw string) string {
	return strings.TrimSpace(raw)
}

// DecimalValue coerces a monetary amount to float64 for callers that
// need arithmetic.
func DecimalValue(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	return convert.ToFloat64(raw)
}

// Identifier passes a raw element through, trimmed.
func Identifier(raw string) string {
	return strings.TrimSpace(raw)
}

// Date parses a positional 835 date (CCYYMMDD and close variants).
// The raw text stays authoritative; the parsed time is a convenience
// and is zero when the value does not parse.
func Date(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("20060102", raw); err == nil {
		return t, true
	}
	t, err := date.Parse(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Lookup resolves a code through a static table, returning the raw
// code untouched on a miss.
func Lookup(table map[string]string, code string) string {
	if description, ok := table[code]; ok {
		return description
	}
	return code
}
