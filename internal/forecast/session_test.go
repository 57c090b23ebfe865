package forecast

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aloc23/ifit/internal/balance"
	"github.com/aloc23/ifit/internal/config"
	"github.com/aloc23/ifit/internal/grid"
	"github.com/aloc23/ifit/internal/ledger"
	"github.com/aloc23/ifit/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertSeries(t *testing.T, want []string, got []decimal.Decimal) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, dec(want[i]).Equal(got[i]), "index %d: want %s, got %s", i, want[i], got[i])
	}
}

func testLayout() Layout {
	return Layout{
		LabelColumn:     0,
		HeaderRow:       0,
		FirstWeekColumn: 1,
		RepaymentLabel:  "Loan repayment",
		SumStart:        1,
		SumEnd:          3,
		Base:            dec("355000"),
		LoanOutstanding: dec("355000"),
	}
}

// Weekly nets are 1000, -2000, 500, 1500 before any repayment.
func testGrid() *grid.Grid {
	return grid.New([][]string{
		{"", "Week 1", "Week 2", "Week 3", "Week 4"},
		{"Sales", "3000", "1000", "2000", "2500"},
		{"Costs", "-2000", "-3000", "-1500", "-1000"},
		{"Loan repayment", "", "", "", ""},
		{"Rolling cash balance", "", "", "", ""},
	})
}

func testWeeks() []model.WeekColumn {
	return []model.WeekColumn{
		{Index: 1, Label: "Week 1"},
		{Index: 2, Label: "Week 2"},
		{Index: 3, Label: "Week 3"},
		{Index: 4, Label: "Week 4"},
	}
}

func openTest(t *testing.T) *Session {
	t.Helper()
	s, err := Open(testGrid(), testLayout())
	require.NoError(t, err)
	return s
}

func TestSession_RecomputeWithoutRepayments(t *testing.T) {
	s := openTest(t)

	res, err := s.Recompute()
	require.NoError(t, err)

	assert.Equal(t, []string{"Week 1", "Week 2", "Week 3", "Week 4"}, res.WeekLabels)
	assertSeries(t, []string{"1000", "-2000", "500", "1500"}, res.WeeklyNet)
	assertSeries(t, []string{"356000", "354000", "354500", "356000"}, res.Balance)
	assert.True(t, res.Summary.TotalRepaid.IsZero())
	assert.True(t, dec("356000").Equal(res.Summary.FinalBalance))
	assert.True(t, dec("355000").Equal(res.Summary.Remaining))
	assert.Equal(t, 0, res.Summary.Lowest.Index)
	assert.Equal(t, s.LoadID(), res.LoadID)
	assert.Same(t, res, s.Last())
	assert.Empty(t, s.Warnings())
}

func TestSession_RepaymentLowersBalance(t *testing.T) {
	s := openTest(t)

	_, err := s.Ledger().Add(2, dec("5000"))
	require.NoError(t, err)

	res, err := s.Recompute()
	require.NoError(t, err)

	assert.Equal(t, "-5000", s.Grid().Cell(3, 2))
	assertSeries(t, []string{"1000", "-7000", "500", "1500"}, res.WeeklyNet)
	assertSeries(t, []string{"356000", "349000", "349500", "351000"}, res.Balance)
	assertSeries(t, []string{"0", "5000", "0", "0"}, res.Repayments)
	assert.True(t, dec("5000").Equal(res.Summary.TotalRepaid))
	assert.True(t, dec("351000").Equal(res.Summary.FinalBalance))
	assert.True(t, dec("350000").Equal(res.Summary.Remaining))
	assert.Equal(t, 1, res.Summary.Lowest.Index)
	assert.Equal(t, "Week 2", res.Summary.Lowest.Label)
	assert.True(t, dec("349000").Equal(res.Summary.Lowest.Value))
}

func TestSession_RemovingRepaymentRestoresBalance(t *testing.T) {
	s := openTest(t)
	before, err := s.Recompute()
	require.NoError(t, err)
	beforeBalance := before.Balance

	r, err := s.Ledger().Add(3, dec("1200.50"))
	require.NoError(t, err)
	require.NoError(t, s.Ledger().Remove(r.ID))

	after, err := s.Recompute()
	require.NoError(t, err)
	assertSeries(t, []string{"356000", "354000", "354500", "356000"}, after.Balance)
	assert.Equal(t, len(beforeBalance), len(after.Balance))
	assert.Equal(t, "", s.Grid().Cell(3, 3))
}

func TestSession_IgnoresUnparsableCells(t *testing.T) {
	g := testGrid()
	g.Set(1, 1, "n/a")
	s, err := Open(g, testLayout())
	require.NoError(t, err)

	res, err := s.Recompute()
	require.NoError(t, err)
	assert.True(t, dec("-2000").Equal(res.WeeklyNet[0]))
}

func TestOpen_SeedsLedgerFromRepaymentRow(t *testing.T) {
	g := testGrid()
	g.Set(3, 3, "-2000")
	s, err := Open(g, testLayout())
	require.NoError(t, err)

	require.Len(t, s.Seeded(), 1)
	assert.Equal(t, 3, s.Seeded()[0].Week)
	assert.True(t, dec("2000").Equal(s.Seeded()[0].Amount))

	res, err := s.Recompute()
	require.NoError(t, err)
	assert.True(t, dec("2000").Equal(res.Summary.TotalRepaid))
	// The seeded cell was already in the grid, so the balance is unchanged by seeding.
	assertSeries(t, []string{"356000", "354000", "352500", "354000"}, res.Balance)
}

func TestOpen_PositiveRepaymentCellUnchanged(t *testing.T) {
	g := testGrid()
	g.Set(3, 3, "2000")
	want := balance.RollingBalance(balance.WeeklyNet(g.Clone(), testWeeks(), 1, 3), dec("355000"))

	s, err := Open(g, testLayout())
	require.NoError(t, err)
	assert.Empty(t, s.Seeded())
	assert.Equal(t, "2000", s.Grid().Cell(3, 3))

	res, err := s.Recompute()
	require.NoError(t, err)
	assert.True(t, res.Summary.TotalRepaid.IsZero())
	assertSeries(t, []string{"356000", "354000", "356500", "358000"}, res.Balance)
	require.Len(t, want, len(res.Balance))
	for i := range want {
		assert.True(t, want[i].Equal(res.Balance[i]), "week %d", i)
	}
}

func TestOpen_MissingRepaymentRow(t *testing.T) {
	layout := testLayout()
	layout.RepaymentLabel = "Director loan"

	_, err := Open(testGrid(), layout)
	require.Error(t, err)
	assert.ErrorIs(t, err, grid.ErrRowNotFound)
	assert.Contains(t, err.Error(), "Director loan")
}

func TestOpen_NoWeekColumns(t *testing.T) {
	layout := testLayout()
	layout.FirstWeekColumn = 9

	_, err := Open(testGrid(), layout)
	assert.ErrorIs(t, err, grid.ErrNoWeekColumns)
}

func TestOpen_WarnsWhenRepaymentRowNotSummed(t *testing.T) {
	layout := testLayout()
	layout.SumEnd = 2

	s, err := Open(testGrid(), layout)
	require.NoError(t, err)
	require.Len(t, s.Warnings(), 1)
	assert.Contains(t, s.Warnings()[0], "outside summed rows 1..2")

	_, err = s.Ledger().Add(2, dec("5000"))
	require.NoError(t, err)
	res, err := s.Recompute()
	require.NoError(t, err)
	assertSeries(t, []string{"356000", "354000", "354500", "356000"}, res.Balance)
	assert.True(t, dec("5000").Equal(res.Summary.TotalRepaid))
}

func TestOpen_LabelSumRange(t *testing.T) {
	g := grid.New([][]string{
		{"", "Week 1", "Week 2"},
		{"Opening", "", ""},
		{"Sales", "100", "200"},
		{"Loan repayment", "", ""},
		{"Closing", "", ""},
		{"Ignored", "999", "999"},
	})
	layout := testLayout()
	layout.SumFromLabel = "Opening"
	layout.SumToLabel = "Closing"

	s, err := Open(g, layout)
	require.NoError(t, err)
	start, end := s.SumRange()
	assert.Equal(t, 2, start)
	assert.Equal(t, 3, end)

	res, err := s.Recompute()
	require.NoError(t, err)
	assertSeries(t, []string{"100", "200"}, res.WeeklyNet)
}

func TestSession_InvalidResultKeepsLast(t *testing.T) {
	s := openTest(t)
	good, err := s.Recompute()
	require.NoError(t, err)

	s.SetCell(1, 4, "1"+strings.Repeat("0", 400))
	_, err = s.Recompute()
	require.Error(t, err)
	assert.ErrorIs(t, err, balance.ErrInvalidBalanceResult)
	assert.Same(t, good, s.Last())
}

func TestSession_SetBase(t *testing.T) {
	s := openTest(t)
	s.SetBase(decimal.Zero)

	res, err := s.Recompute()
	require.NoError(t, err)
	assertSeries(t, []string{"1000", "-1000", "-500", "1000"}, res.Balance)
	assert.Equal(t, 1, res.Summary.Lowest.Index)
}

func TestSession_RemainingFollowsBase(t *testing.T) {
	layout := testLayout()
	layout.LoanOutstanding = decimal.Zero
	s, err := Open(testGrid(), layout)
	require.NoError(t, err)
	s.SetBase(dec("100000"))
	_, err = s.Ledger().Add(1, dec("2500"))
	require.NoError(t, err)

	res, err := s.Recompute()
	require.NoError(t, err)
	assert.True(t, dec("97500").Equal(res.Summary.Remaining))
}

func TestReload_FailureKeepsState(t *testing.T) {
	s := openTest(t)
	_, err := s.Ledger().Add(2, dec("5000"))
	require.NoError(t, err)
	_, err = s.Recompute()
	require.NoError(t, err)
	loadID := s.LoadID()

	bad := grid.New([][]string{{"", "Week 1"}, {"Sales", "10"}})
	err = s.Reload(bad)
	require.ErrorIs(t, err, grid.ErrRowNotFound)

	assert.Equal(t, loadID, s.LoadID())
	assert.Equal(t, 1, s.Ledger().Len())
	assert.NotNil(t, s.Last())
}

func TestReload_ReplacesLedger(t *testing.T) {
	s := openTest(t)
	_, err := s.Ledger().Add(2, dec("5000"))
	require.NoError(t, err)
	_, err = s.Recompute()
	require.NoError(t, err)
	oldID := s.LoadID()

	require.NoError(t, s.Reload(testGrid()))

	assert.NotEqual(t, oldID, s.LoadID())
	assert.Equal(t, 0, s.Ledger().Len())
	assert.Nil(t, s.Last())

	res, err := s.Recompute()
	require.NoError(t, err)
	assertSeries(t, []string{"356000", "354000", "354500", "356000"}, res.Balance)
}

func TestResolveWeek(t *testing.T) {
	s := openTest(t)

	tests := []struct {
		ref     string
		want    int
		wantErr bool
	}{
		{ref: "3", want: 3},
		{ref: "#1", want: 1},
		{ref: "#4", want: 4},
		{ref: "week 2", want: 2},
		{ref: " Week 4 ", want: 4},
		{ref: "0", wantErr: true},
		{ref: "#5", wantErr: true},
		{ref: "#x", wantErr: true},
		{ref: "Week 9", wantErr: true},
		{ref: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			w, err := s.ResolveWeek(tt.ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, ledger.ErrInvalidWeek)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, w.Index)
		})
	}
}

func TestRecompute_NoWeeks(t *testing.T) {
	_, err := Recompute(Input{Cells: testGrid()})
	assert.ErrorIs(t, err, grid.ErrNoWeekColumns)
}

func TestResult_ScenarioAndForecast(t *testing.T) {
	s := openTest(t)
	res, err := s.Recompute()
	require.NoError(t, err)

	best := res.Scenario(balance.BestCaseFactor)
	assert.True(t, dec("391600").Equal(best[0]))

	points := res.Forecast(4, 2)
	require.Len(t, points, 2)
	assert.Equal(t, "Future +1", points[0].Label)
	// average of 1000, -2000, 500, 1500 is 250
	assert.True(t, dec("356250").Equal(points[0].Value))
	assert.True(t, dec("356500").Equal(points[1].Value))
}

func TestLayoutFromConfig(t *testing.T) {
	cfg := config.Default()

	l, err := LayoutFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, l.LabelColumn)
	assert.Equal(t, 3, l.HeaderRow)
	assert.Equal(t, 5, l.FirstWeekColumn)
	assert.Equal(t, 5, l.SumStart)
	assert.Equal(t, 270, l.SumEnd)
	require.NotNil(t, l.WeekPattern)
	assert.True(t, l.WeekPattern.MatchString("Week 12"))
	assert.True(t, dec("355000").Equal(l.Base))
}

func TestExportGrid_WritesBalanceRow(t *testing.T) {
	layout := testLayout()
	layout.BalanceLabel = "Rolling cash balance"
	s, err := Open(testGrid(), layout)
	require.NoError(t, err)
	_, err = s.Ledger().Add(2, dec("5000"))
	require.NoError(t, err)
	res, err := s.Recompute()
	require.NoError(t, err)

	out, ok := s.ExportGrid(res)
	require.True(t, ok)
	assert.Equal(t, "349000", out.Cell(4, 2))
	assert.Equal(t, "351000", out.Cell(4, 4))
	assert.Equal(t, "-5000", out.Cell(3, 2))
	assert.Equal(t, "", s.Grid().Cell(4, 2), "session grid untouched")
}

func TestExportGrid_SkipsSummedBalanceRow(t *testing.T) {
	layout := testLayout()
	layout.BalanceLabel = "Rolling cash balance"
	layout.SumEnd = 4
	s, err := Open(testGrid(), layout)
	require.NoError(t, err)
	res, err := s.Recompute()
	require.NoError(t, err)

	out, ok := s.ExportGrid(res)
	assert.False(t, ok)
	assert.Equal(t, "", out.Cell(4, 1))
}
