package model

import "github.com/shopspring/decimal"

// Repayment is a user-entered hypothetical loan repayment.
type Repayment struct {
	ID     string          // "R001", "R002", ...
	Week   int             // grid column index of the target week
	Amount decimal.Decimal // always positive; projected into the grid negated
}
