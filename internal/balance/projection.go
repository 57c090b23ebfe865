package balance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aloc23/ifit/internal/grid"
	"github.com/aloc23/ifit/internal/model"
)

// Default scenario factors and forecast window.
var (
	BestCaseFactor  = decimal.RequireFromString("1.1")
	WorstCaseFactor = decimal.RequireFromString("0.9")
)

const (
	DefaultTrendWeeks = 4
	DefaultHorizon    = 8
)

// Point is one forecast week beyond the loaded data.
type Point struct {
	Label string
	Value decimal.Decimal
}

// Flows splits each week's cells in rows start..end into money in and money out.
// Out is reported as a positive amount.
func Flows(cells CellReader, weeks []model.WeekColumn, start, end int) (in, out []decimal.Decimal) {
	start = max(start, 0)
	in = make([]decimal.Decimal, len(weeks))
	out = make([]decimal.Decimal, len(weeks))
	for i, w := range weeks {
		in[i], out[i] = decimal.Zero, decimal.Zero
		for r := start; r <= end; r++ {
			v := grid.NumberOrZero(cells.Cell(r, w.Index))
			if v.IsNegative() {
				out[i] = out[i].Add(v.Abs())
			} else {
				in[i] = in[i].Add(v)
			}
		}
	}
	return in, out
}

// Scenario scales every value of series by factor.
func Scenario(series []decimal.Decimal, factor decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(series))
	for i, v := range series {
		out[i] = v.Mul(factor)
	}
	return out
}

// LinearForecast extends series horizon weeks past its end, adding the average
// of the last trendWeeks weekly nets each week.
func LinearForecast(series, weeklyNet []decimal.Decimal, trendWeeks, horizon int) []Point {
	if len(series) == 0 || horizon <= 0 {
		return nil
	}
	trendWeeks = min(max(trendWeeks, 1), len(weeklyNet))

	trend := decimal.Zero
	if trendWeeks > 0 {
		trend = decimal.Sum(decimal.Zero, weeklyNet[len(weeklyNet)-trendWeeks:]...).
			Div(decimal.NewFromInt(int64(trendWeeks)))
	}

	points := make([]Point, horizon)
	last := series[len(series)-1]
	for k := 0; k < horizon; k++ {
		last = last.Add(trend)
		points[k] = Point{Label: fmt.Sprintf("Future +%d", k+1), Value: last}
	}
	return points
}

// Payoff estimates how long a fixed weekly repayment takes to clear loan.
// Months are counted as four weeks. ok is false for a non-positive repayment.
func Payoff(loan, weeklyRepayment decimal.Decimal) (weeks, months int, ok bool) {
	if !weeklyRepayment.IsPositive() {
		return 0, 0, false
	}
	if !loan.IsPositive() {
		return 0, 0, true
	}
	weeks = int(loan.Div(weeklyRepayment).Ceil().IntPart())
	months = (weeks + 3) / 4
	return weeks, months, true
}
