package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a monetary cell into a decimal. Tolerates currency
// prefixes ("$", "ARS") and both thousands conventions: "1.234,56" and
// "1,234.56". Returns ok=false for empty or unparseable input.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "ARS")
	s = strings.TrimSpace(s)

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// Whichever separator appears last is the decimal point.
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		// A single comma is a decimal separator unless it reads like a
		// thousands group ("20,000").
		if len(s)-lastComma-1 == 3 && strings.Count(s, ",") == 1 && lastComma > 0 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
