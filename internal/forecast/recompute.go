// Package forecast ties the grid, the repayment ledger and the balance engine
// together into one recompute cycle.
package forecast

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aloc23/ifit/internal/balance"
	"github.com/aloc23/ifit/internal/grid"
	"github.com/aloc23/ifit/internal/ledger"
	"github.com/aloc23/ifit/internal/model"
)

// Input is everything one recompute reads.
type Input struct {
	Cells           balance.CellReader
	Weeks           []model.WeekColumn
	SumStart        int
	SumEnd          int
	Base            decimal.Decimal
	LoanOutstanding decimal.Decimal
	Repayments      ledger.Aggregate
}

// Result is what a recompute hands to the presentation layer. Every series is
// aligned to Weeks.
type Result struct {
	LoadID     uuid.UUID // identifies the load this result was computed from
	Weeks      []model.WeekColumn
	WeekLabels []string
	WeeklyNet  []decimal.Decimal
	Balance    []decimal.Decimal
	Repayments []decimal.Decimal // per-week ledger totals, positive
	Inflows    []decimal.Decimal
	Outflows   []decimal.Decimal
	Base       decimal.Decimal
	Summary    model.Summary
}

// Recompute computes weekly nets, the rolling balance and the summary from in.
// It has no side effects.
func Recompute(in Input) (*Result, error) {
	if len(in.Weeks) == 0 {
		return nil, grid.ErrNoWeekColumns
	}

	net := balance.WeeklyNet(in.Cells, in.Weeks, in.SumStart, in.SumEnd)
	series := balance.RollingBalance(net, in.Base)
	if err := balance.Validate(series); err != nil {
		return nil, err
	}

	summary, err := balance.Summarize(in.Weeks, series, in.Repayments.Total, in.LoanOutstanding)
	if err != nil {
		return nil, fmt.Errorf("summarizing: %w", err)
	}

	repayments := make([]decimal.Decimal, len(in.Weeks))
	for i, w := range in.Weeks {
		repayments[i] = in.Repayments.Week(w.Index)
	}
	inflows, outflows := balance.Flows(in.Cells, in.Weeks, in.SumStart, in.SumEnd)

	return &Result{
		Weeks:      in.Weeks,
		WeekLabels: model.WeekLabels(in.Weeks),
		WeeklyNet:  net,
		Balance:    series,
		Repayments: repayments,
		Inflows:    inflows,
		Outflows:   outflows,
		Base:       in.Base,
		Summary:    summary,
	}, nil
}

// Scenario returns the balance series scaled by factor.
func (r *Result) Scenario(factor decimal.Decimal) []decimal.Decimal {
	return balance.Scenario(r.Balance, factor)
}

// Forecast extends the balance past the loaded weeks on the recent trend.
func (r *Result) Forecast(trendWeeks, horizon int) []balance.Point {
	return balance.LinearForecast(r.Balance, r.WeeklyNet, trendWeeks, horizon)
}
