// Package core holds the ledger domain types and amount handling.
//
// This file parses user-typed amounts and formats amounts for display.
// Input accepts both comma-decimal and dot-decimal conventions and
// disambiguates them; output always uses the comma-decimal, dot-grouped
// locale form.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-typed amount into a signed value.
//
// A leading '+' or '-' sets the sign (default positive). When both '.' and
// ',' appear, the last-occurring one is the decimal separator and the other
// is stripped as a thousands separator. A lone ',' is always the decimal
// separator. A lone '.' is treated as a thousands separator when the text
// after the last dot is exactly a 3-digit group and at most 3 digits precede
// it; otherwise it is the decimal separator. This trailing-group heuristic
// is kept as-is for compatibility with existing data entry habits.
// Embedded spaces and apostrophes are stripped. Returns ErrInvalidAmount
// for empty input or a body that does not parse after normalization.
func ParseAmount(s string) (float64, error) {
	orig := s
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidAmount)
	}

	sign := 1.0
	if s[0] == '+' || s[0] == '-' {
		if s[0] == '-' {
			sign = -1.0
		}
		s = strings.TrimSpace(s[1:])
	}

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	case hasDot:
		parts := strings.Split(s, ".")
		if len(parts) > 2 {
			s = strings.Join(parts, "")
		} else if len(parts[1]) == 3 && len(parts[0]) <= 3 {
			// "1.234" style: a single 3-digit trailing group reads as a
			// thousands-grouped integer, not a decimal.
			s = parts[0] + parts[1]
		}
	}

	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "'", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, orig)
	}
	return sign * d.InexactFloat64(), nil
}

// FormatAmount renders a value with a fixed decimal count, comma as the
// decimal separator and dot-grouped thousands. The sign shows only when the
// value is negative.
func FormatAmount(value float64, decimals int) string {
	fixed := decimal.NewFromFloat(value).StringFixed(int32(decimals))

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart := fixed
	fracPart := ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, fracPart = fixed[:i], fixed[i+1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}
