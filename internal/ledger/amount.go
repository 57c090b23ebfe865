package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aloc23/ifit/internal/grid"
)

// ParseAmount parses a user-entered amount such as "5000" or "€5,000".
func ParseAmount(s string) (decimal.Decimal, error) {
	d, ok := grid.ParseNumber(s)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s must be positive", ErrInvalidAmount, d)
	}
	return d, nil
}
