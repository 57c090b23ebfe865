package model

import "github.com/shopspring/decimal"

// LowPoint is the first week at which the rolling balance hits its minimum.
type LowPoint struct {
	Index int // position in week order
	Label string
	Value decimal.Decimal
}

// Summary holds the scalars derived from one recompute.
type Summary struct {
	TotalRepaid  decimal.Decimal
	FinalBalance decimal.Decimal // last rolling balance value
	Remaining    decimal.Decimal // loan outstanding minus total repaid
	Lowest       LowPoint
}
