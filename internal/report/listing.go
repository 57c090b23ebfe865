package report

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"github.com/aloc23/ifit/internal/history"
	"github.com/aloc23/ifit/internal/model"
	"github.com/aloc23/ifit/internal/plan"
)

// PrintWeeks lists detected week columns.
func PrintWeeks(w io.Writer, weeks []model.WeekColumn) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Column", "Label"})
	for i, wk := range weeks {
		t.AppendRow(table.Row{i + 1, wk.Index, wk.Label})
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Render()
}

// PrintPlan lists saved plan entries with their total.
func PrintPlan(w io.Writer, entries []plan.Entry, cur Currency) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Week", "Column", "Amount"})

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
		t.AppendRow(table.Row{e.EntryID, e.WeekLabel, e.WeekColumn, cur.Format(e.Amount)})
	}
	t.AppendFooter(table.Row{"", "", "Total", cur.Format(total)})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 4, Align: text.AlignRight}})
	t.Render()
}

// PrintHistory lists recorded forecast runs, oldest first.
func PrintHistory(w io.Writer, entries []history.Entry, cur Currency) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"When", "Source", "Repaid", "Final balance", "Lowest"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.Timestamp.Format(time.DateTime),
			e.Source,
			cur.Format(e.TotalRepaid),
			cur.Format(e.FinalBalance),
			cur.Format(e.LowestBalance) + " (" + e.LowestWeek + ")",
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()
}
