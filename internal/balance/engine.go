// Package balance computes weekly net cashflow and the rolling cash balance.
//
// Repayments are netted only through the grid's repayment row: callers must
// choose a summation range that includes that row. Nothing here subtracts the
// ledger total a second time.
package balance

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/aloc23/ifit/internal/grid"
	"github.com/aloc23/ifit/internal/model"
)

var (
	// ErrEmptySeries means there is nothing to summarize.
	ErrEmptySeries = errors.New("empty balance series")
	// ErrInvalidBalanceResult means the series holds a value that cannot be rendered.
	ErrInvalidBalanceResult = errors.New("invalid balance result")
)

// CellReader reads a single cell; it must return "" for missing cells.
type CellReader interface {
	Cell(row, col int) string
}

// WeeklyNet sums the numeric cells of rows start..end inclusive for each week
// column, in week order. Unparsable and empty cells count as zero.
func WeeklyNet(cells CellReader, weeks []model.WeekColumn, start, end int) []decimal.Decimal {
	start = max(start, 0)
	net := make([]decimal.Decimal, len(weeks))
	for i, w := range weeks {
		sum := decimal.Zero
		for r := start; r <= end; r++ {
			sum = sum.Add(grid.NumberOrZero(cells.Cell(r, w.Index)))
		}
		net[i] = sum
	}
	return net
}

// RollingBalance applies each week's net to the previous balance, starting from base.
func RollingBalance(weeklyNet []decimal.Decimal, base decimal.Decimal) []decimal.Decimal {
	series := make([]decimal.Decimal, len(weeklyNet))
	prev := base
	for i, n := range weeklyNet {
		prev = prev.Add(n)
		series[i] = prev
	}
	return series
}

// Summarize derives the summary scalars. The lowest point is the first
// occurrence of the minimum. Remaining is loanOutstanding minus totalRepaid
// and is independent of the balance series.
func Summarize(weeks []model.WeekColumn, series []decimal.Decimal, totalRepaid, loanOutstanding decimal.Decimal) (model.Summary, error) {
	if len(series) == 0 {
		return model.Summary{}, ErrEmptySeries
	}
	if len(weeks) != len(series) {
		return model.Summary{}, fmt.Errorf("%d weeks for %d balance values", len(weeks), len(series))
	}

	low := 0
	for i := 1; i < len(series); i++ {
		if series[i].LessThan(series[low]) {
			low = i
		}
	}

	return model.Summary{
		TotalRepaid:  totalRepaid,
		FinalBalance: series[len(series)-1],
		Remaining:    loanOutstanding.Sub(totalRepaid),
		Lowest: model.LowPoint{
			Index: low,
			Label: weeks[low].Label,
			Value: series[low],
		},
	}, nil
}

// Validate rejects a series with values that have no finite float64 form.
func Validate(series []decimal.Decimal) error {
	for i, d := range series {
		f := d.InexactFloat64()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("%w: week %d value out of range", ErrInvalidBalanceResult, i)
		}
	}
	return nil
}
