// Package report renders forecast results for people and for other programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"github.com/aloc23/ifit/internal/balance"
	"github.com/aloc23/ifit/internal/forecast"
)

// Options controls how a result is displayed.
type Options struct {
	Currency    Currency
	BestFactor  decimal.Decimal // zero means balance.BestCaseFactor
	WorstFactor decimal.Decimal // zero means balance.WorstCaseFactor
	TrendWeeks  int
	Horizon     int // weeks of linear forecast; zero disables it
}

func (o Options) factors() (best, worst decimal.Decimal) {
	best, worst = o.BestFactor, o.WorstFactor
	if best.IsZero() {
		best = balance.BestCaseFactor
	}
	if worst.IsZero() {
		worst = balance.WorstCaseFactor
	}
	return best, worst
}

// JSONOutput is the root JSON output object.
type JSONOutput struct {
	LoadID   string         `json:"load_id"`
	Currency string         `json:"currency"`
	Base     string         `json:"base"`
	Weeks    []JSONWeek     `json:"weeks"`
	Summary  JSONSummary    `json:"summary"`
	Forecast []JSONForecast `json:"forecast,omitempty"`
}

// JSONWeek is one loaded week. Amounts are exact decimal strings.
type JSONWeek struct {
	Column    int    `json:"column"`
	Label     string `json:"label"`
	Inflow    string `json:"inflow"`
	Outflow   string `json:"outflow"`
	Net       string `json:"net"`
	Repayment string `json:"repayment"`
	Balance   string `json:"balance"`
	BestCase  string `json:"best_case"`
	WorstCase string `json:"worst_case"`
}

// JSONSummary holds the aggregate figures.
type JSONSummary struct {
	TotalRepaid  string     `json:"total_repaid"`
	FinalBalance string     `json:"final_balance"`
	Remaining    string     `json:"remaining"`
	Lowest       JSONLowest `json:"lowest"`
	PayoffWeeks  int        `json:"payoff_weeks,omitempty"`
	PayoffMonths int        `json:"payoff_months,omitempty"`
}

// JSONLowest is the week with the lowest balance.
type JSONLowest struct {
	Index   int    `json:"index"`
	Label   string `json:"label"`
	Balance string `json:"balance"`
}

// JSONForecast is one projected week past the loaded data.
type JSONForecast struct {
	Label   string `json:"label"`
	Balance string `json:"balance"`
}

// PrintJSON writes res as indented JSON.
func PrintJSON(w io.Writer, res *forecast.Result, opts Options) error {
	bestFactor, worstFactor := opts.factors()
	best := res.Scenario(bestFactor)
	worst := res.Scenario(worstFactor)

	weeks := make([]JSONWeek, len(res.Weeks))
	for i, wk := range res.Weeks {
		weeks[i] = JSONWeek{
			Column:    wk.Index,
			Label:     wk.Label,
			Inflow:    res.Inflows[i].String(),
			Outflow:   res.Outflows[i].String(),
			Net:       res.WeeklyNet[i].String(),
			Repayment: res.Repayments[i].String(),
			Balance:   res.Balance[i].String(),
			BestCase:  best[i].String(),
			WorstCase: worst[i].String(),
		}
	}

	s := res.Summary
	out := JSONOutput{
		LoadID:   res.LoadID.String(),
		Currency: opts.Currency.Code,
		Base:     res.Base.String(),
		Weeks:    weeks,
		Summary: JSONSummary{
			TotalRepaid:  s.TotalRepaid.String(),
			FinalBalance: s.FinalBalance.String(),
			Remaining:    s.Remaining.String(),
			Lowest: JSONLowest{
				Index:   s.Lowest.Index,
				Label:   s.Lowest.Label,
				Balance: s.Lowest.Value.String(),
			},
		},
	}
	if weeks, months, ok := payoff(res); ok {
		out.Summary.PayoffWeeks = weeks
		out.Summary.PayoffMonths = months
	}
	for _, p := range res.Forecast(opts.TrendWeeks, opts.Horizon) {
		out.Forecast = append(out.Forecast, JSONForecast{Label: p.Label, Balance: p.Value.String()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// PrintTable writes res as a table followed by a summary.
func PrintTable(w io.Writer, res *forecast.Result, opts Options) {
	cur := opts.Currency
	bestFactor, worstFactor := opts.factors()
	best := res.Scenario(bestFactor)
	worst := res.Scenario(worstFactor)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Week", "In", "Out", "Net", "Repayment", "Balance", "Best case", "Worst case", ""})

	for i, wk := range res.Weeks {
		marker := ""
		if i == res.Summary.Lowest.Index {
			marker = "lowest"
		}
		repayment := "-"
		if !res.Repayments[i].IsZero() {
			repayment = cur.Format(res.Repayments[i])
		}
		t.AppendRow(table.Row{
			wk.Label,
			cur.Format(res.Inflows[i]),
			cur.Format(res.Outflows[i]),
			cur.Format(res.WeeklyNet[i]),
			repayment,
			cur.Format(res.Balance[i]),
			cur.Format(best[i]),
			cur.Format(worst[i]),
			marker,
		})
	}

	t.AppendFooter(table.Row{"Total", "", "", "", cur.Format(res.Summary.TotalRepaid), cur.Format(res.Summary.FinalBalance), "", "", ""})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})
	t.Render()

	s := res.Summary
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Starting balance: %s\n", cur.Format(res.Base))
	fmt.Fprintf(w, "Total repaid:     %s\n", cur.Format(s.TotalRepaid))
	fmt.Fprintf(w, "Remaining loan:   %s\n", cur.Format(s.Remaining))
	fmt.Fprintf(w, "Final balance:    %s\n", cur.Format(s.FinalBalance))
	fmt.Fprintf(w, "Lowest balance:   %s (%s)\n", cur.Format(s.Lowest.Value), s.Lowest.Label)
	if weeks, months, ok := payoff(res); ok {
		fmt.Fprintf(w, "Payoff estimate:  %d weeks (about %d months) at the average planned repayment\n", weeks, months)
	}

	points := res.Forecast(opts.TrendWeeks, opts.Horizon)
	if len(points) == 0 {
		return
	}
	fmt.Fprintln(w)
	ft := table.NewWriter()
	ft.SetOutputMirror(w)
	ft.SetTitle("Trend forecast")
	ft.AppendHeader(table.Row{"Week", "Balance"})
	for _, p := range points {
		ft.AppendRow(table.Row{p.Label, cur.Format(p.Value)})
	}
	ft.SetStyle(table.StyleRounded)
	ft.Style().Format.Header = text.FormatDefault
	ft.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	ft.Render()
}

// payoff estimates how long the remaining loan takes at the average repayment
// of the weeks that have one.
func payoff(res *forecast.Result) (weeks, months int, ok bool) {
	n := 0
	for _, r := range res.Repayments {
		if r.IsPositive() {
			n++
		}
	}
	if n == 0 || !res.Summary.Remaining.IsPositive() {
		return 0, 0, false
	}
	avg := res.Summary.TotalRepaid.Div(decimal.NewFromInt(int64(n)))
	return balance.Payoff(res.Summary.Remaining, avg)
}
