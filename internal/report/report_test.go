package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aloc23/ifit/internal/forecast"
	"github.com/aloc23/ifit/internal/grid"
	"github.com/aloc23/ifit/internal/history"
	"github.com/aloc23/ifit/internal/model"
	"github.com/aloc23/ifit/internal/plan"
)

func testResult(t *testing.T, repay bool) *forecast.Result {
	t.Helper()
	g := grid.New([][]string{
		{"", "Week 1", "Week 2", "Week 3", "Week 4"},
		{"Sales", "3000", "1000", "2000", "2500"},
		{"Costs", "-2000", "-3000", "-1500", "-1000"},
		{"Loan repayment", "", "", "", ""},
	})
	s, err := forecast.Open(g, forecast.Layout{
		HeaderRow:       0,
		FirstWeekColumn: 1,
		RepaymentLabel:  "Loan repayment",
		SumStart:        1,
		SumEnd:          3,
		Base:            decimal.NewFromInt(355000),
		LoanOutstanding: decimal.NewFromInt(355000),
	})
	require.NoError(t, err)
	if repay {
		_, err = s.Ledger().Add(2, decimal.NewFromInt(5000))
		require.NoError(t, err)
	}
	res, err := s.Recompute()
	require.NoError(t, err)
	return res
}

func TestPrintTable(t *testing.T) {
	res := testResult(t, true)

	var buf bytes.Buffer
	PrintTable(&buf, res, Options{Currency: NewCurrency("USD")})
	out := buf.String()

	assert.Contains(t, out, "Week 2")
	assert.Contains(t, out, "$349,000")
	assert.Contains(t, out, "-$7,000")
	assert.Contains(t, out, "lowest")
	assert.Contains(t, out, "Total repaid:     $5,000")
	assert.Contains(t, out, "Remaining loan:   $350,000")
	assert.Contains(t, out, "Final balance:    $351,000")
	assert.Contains(t, out, "Lowest balance:   $349,000 (Week 2)")
	assert.Contains(t, out, "Payoff estimate:  70 weeks (about 18 months)")
	assert.NotContains(t, out, "Trend forecast")
}

func TestPrintTable_LowestMarkedOnce(t *testing.T) {
	res := testResult(t, true)

	var buf bytes.Buffer
	PrintTable(&buf, res, Options{Currency: NewCurrency("USD")})
	assert.Equal(t, 1, strings.Count(buf.String(), "lowest"))
}

func TestPrintTable_Forecast(t *testing.T) {
	res := testResult(t, false)

	var buf bytes.Buffer
	PrintTable(&buf, res, Options{Currency: NewCurrency("USD"), TrendWeeks: 4, Horizon: 2})
	out := buf.String()

	assert.Contains(t, out, "Trend forecast")
	assert.Contains(t, out, "Future +2")
	assert.Contains(t, out, "$356,500")
	assert.NotContains(t, out, "Payoff estimate")
}

func TestPrintJSON(t *testing.T) {
	res := testResult(t, true)

	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, res, Options{Currency: NewCurrency("EUR"), TrendWeeks: 4, Horizon: 1}))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "EUR", out.Currency)
	assert.Equal(t, res.LoadID.String(), out.LoadID)
	assert.Equal(t, "355000", out.Base)
	require.Len(t, out.Weeks, 4)
	assert.Equal(t, "Week 2", out.Weeks[1].Label)
	assert.Equal(t, 2, out.Weeks[1].Column)
	assert.Equal(t, "-7000", out.Weeks[1].Net)
	assert.Equal(t, "5000", out.Weeks[1].Repayment)
	assert.Equal(t, "349000", out.Weeks[1].Balance)
	assert.Equal(t, "383900", out.Weeks[1].BestCase)
	assert.Equal(t, "314100", out.Weeks[1].WorstCase)
	assert.Equal(t, "1000", out.Weeks[1].Inflow)
	assert.Equal(t, "8000", out.Weeks[1].Outflow)

	assert.Equal(t, "5000", out.Summary.TotalRepaid)
	assert.Equal(t, "351000", out.Summary.FinalBalance)
	assert.Equal(t, "350000", out.Summary.Remaining)
	assert.Equal(t, 1, out.Summary.Lowest.Index)
	assert.Equal(t, "349000", out.Summary.Lowest.Balance)
	assert.Equal(t, 70, out.Summary.PayoffWeeks)
	assert.Equal(t, 18, out.Summary.PayoffMonths)

	require.Len(t, out.Forecast, 1)
	assert.Equal(t, "Future +1", out.Forecast[0].Label)
}

func TestPrintWeeks(t *testing.T) {
	var buf bytes.Buffer
	PrintWeeks(&buf, []model.WeekColumn{{Index: 5, Label: "Week 1"}, {Index: 6, Label: "Week 2"}})
	assert.Contains(t, buf.String(), "Week 2")
	assert.Contains(t, buf.String(), "Column")
}

func TestPrintPlan(t *testing.T) {
	var buf bytes.Buffer
	PrintPlan(&buf, []plan.Entry{
		{EntryID: "R001", WeekColumn: 6, WeekLabel: "Week 2", Amount: decimal.NewFromInt(5000)},
		{EntryID: "R002", WeekColumn: 7, WeekLabel: "Week 3", Amount: decimal.NewFromInt(2500)},
	}, NewCurrency("USD"))
	out := buf.String()

	assert.Contains(t, out, "R002")
	assert.Contains(t, out, "$7,500")
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	PrintHistory(&buf, []history.Entry{{
		Timestamp:     time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		Source:        "cash.xlsx",
		TotalRepaid:   decimal.NewFromInt(5000),
		FinalBalance:  decimal.NewFromInt(351000),
		LowestWeek:    "Week 2",
		LowestBalance: decimal.NewFromInt(349000),
	}}, NewCurrency("USD"))
	out := buf.String()

	assert.Contains(t, out, "2025-01-15 10:30:00")
	assert.Contains(t, out, "cash.xlsx")
	assert.Contains(t, out, "$349,000 (Week 2)")
}
