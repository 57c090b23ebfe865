package grid

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxExponent bounds the decimal exponent of a parsed cell. Larger exponents
// make decimal arithmetic allocate huge coefficients.
const maxExponent = 30

// ParseNumber parses a cell as a decimal. It accepts a leading currency symbol,
// "," thousands separators and accounting negatives like "(1,200.50)". Anything
// else, including exponents beyond ±maxExponent, reports false and should be
// treated as zero.
func ParseNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = strings.TrimSpace(s[1:])
	} else {
		s = strings.TrimPrefix(s, "+")
	}
	for _, sym := range []string{"€", "$", "£"} {
		s = strings.TrimPrefix(s, sym)
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp < -maxExponent || exp > maxExponent {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// NumberOrZero is ParseNumber with unparsable cells coerced to zero.
func NumberOrZero(s string) decimal.Decimal {
	d, _ := ParseNumber(s)
	return d
}
