package forecast

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/aloc23/ifit/internal/config"
)

// Layout says where the semantic rows and week columns are and what the
// balance starts from. Row and column indexes are 0-based.
type Layout struct {
	LabelColumn     int
	HeaderRow       int
	FirstWeekColumn int
	WeekPattern     *regexp.Regexp // nil accepts any non-empty header cell

	RepaymentLabel string
	BalanceLabel   string // row that exports receive the rolling balance in

	// Summed rows: SumStart..SumEnd inclusive, unless SumFromLabel and
	// SumToLabel are set, in which case the rows strictly between those two
	// labeled rows are summed. Either way the repayment row must be inside.
	SumStart     int
	SumEnd       int
	SumFromLabel string
	SumToLabel   string

	Base            decimal.Decimal
	LoanOutstanding decimal.Decimal // zero means the loan equals Base
}

// LayoutFromConfig builds a Layout from a validated config.
func LayoutFromConfig(cfg *config.Config) (Layout, error) {
	re, err := cfg.WeekRegexp()
	if err != nil {
		return Layout{}, fmt.Errorf("building layout: %w", err)
	}
	l := cfg.Layout
	return Layout{
		LabelColumn:     l.LabelColumn,
		HeaderRow:       l.HeaderRow,
		FirstWeekColumn: l.FirstWeekColumn,
		WeekPattern:     re,
		RepaymentLabel:  l.RepaymentLabel,
		BalanceLabel:    l.BalanceLabel,
		SumStart:        l.SumRange.Start,
		SumEnd:          l.SumRange.End,
		SumFromLabel:    l.SumRange.FromLabel,
		SumToLabel:      l.SumRange.ToLabel,
		Base:            cfg.Forecast.BaseValue,
		LoanOutstanding: cfg.Forecast.LoanOutstanding,
	}, nil
}
