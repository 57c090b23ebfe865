package forecast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aloc23/ifit/internal/grid"
	"github.com/aloc23/ifit/internal/ledger"
	"github.com/aloc23/ifit/internal/model"
)

// Session owns one loaded grid and its repayment ledger. It is not safe for
// concurrent use.
type Session struct {
	layout Layout
	base   decimal.Decimal
	state  *state
	last   *Result
}

// state is everything derived from one loaded grid. Reload swaps it whole.
type state struct {
	loadID       uuid.UUID
	grid         *grid.Grid
	accessor     *grid.Accessor
	weeks        []model.WeekColumn
	repaymentRow int
	sumStart     int
	sumEnd       int
	ledger       *ledger.Ledger
	seeded       []model.Repayment
	warnings     []string
}

// Open resolves layout against g and seeds the ledger from the repayment row.
// The session takes ownership of g.
func Open(g *grid.Grid, layout Layout) (*Session, error) {
	st, err := resolve(g, layout)
	if err != nil {
		return nil, err
	}
	return &Session{layout: layout, base: layout.Base, state: st}, nil
}

// Reload replaces the grid and ledger with ones built from g. If g cannot be
// resolved the session keeps its previous state.
func (s *Session) Reload(g *grid.Grid) error {
	st, err := resolve(g, s.layout)
	if err != nil {
		return err
	}
	s.state = st
	s.last = nil
	return nil
}

func resolve(g *grid.Grid, layout Layout) (*state, error) {
	acc := grid.NewAccessor(g, layout.LabelColumn)

	weeks, err := acc.WeekColumns(layout.HeaderRow, layout.FirstWeekColumn, layout.WeekPattern)
	if err != nil {
		return nil, err
	}

	repaymentRow, err := acc.RequireRow(layout.RepaymentLabel)
	if err != nil {
		return nil, fmt.Errorf("locating repayment row: %w", err)
	}

	start, end := layout.SumStart, layout.SumEnd
	if layout.SumFromLabel != "" && layout.SumToLabel != "" {
		from, err := acc.RequireRow(layout.SumFromLabel)
		if err != nil {
			return nil, fmt.Errorf("locating start of summed rows: %w", err)
		}
		to, err := acc.RequireRow(layout.SumToLabel)
		if err != nil {
			return nil, fmt.Errorf("locating end of summed rows: %w", err)
		}
		start, end = from+1, to-1
	}

	var warnings []string
	if repaymentRow < start || repaymentRow > end {
		warnings = append(warnings, fmt.Sprintf(
			"repayment row %d is outside summed rows %d..%d; repayments will not change the balance",
			repaymentRow, start, end))
	}

	led := ledger.New(g, repaymentRow, weeks)
	seeded := led.Seed()

	return &state{
		loadID:       uuid.New(),
		grid:         g,
		accessor:     acc,
		weeks:        weeks,
		repaymentRow: repaymentRow,
		sumStart:     start,
		sumEnd:       end,
		ledger:       led,
		seeded:       seeded,
		warnings:     warnings,
	}, nil
}

// Recompute runs a full recompute. On success the result becomes Last; on
// failure Last keeps the previous good result.
func (s *Session) Recompute() (*Result, error) {
	loan := s.layout.LoanOutstanding
	if loan.IsZero() {
		loan = s.base
	}
	res, err := Recompute(Input{
		Cells:           s.state.grid,
		Weeks:           s.state.weeks,
		SumStart:        s.state.sumStart,
		SumEnd:          s.state.sumEnd,
		Base:            s.base,
		LoanOutstanding: loan,
		Repayments:      s.state.ledger.Aggregate(),
	})
	if err != nil {
		return nil, err
	}
	res.LoadID = s.state.loadID
	s.last = res
	return res, nil
}

// Last returns the last good result, or nil.
func (s *Session) Last() *Result { return s.last }

// LoadID identifies the current load.
func (s *Session) LoadID() uuid.UUID { return s.state.loadID }

// Grid returns the loaded grid, including projected repayments.
func (s *Session) Grid() *grid.Grid { return s.state.grid }

// Weeks returns the detected week columns in week order.
func (s *Session) Weeks() []model.WeekColumn { return s.state.weeks }

// Ledger returns the repayment ledger of the current load.
func (s *Session) Ledger() *ledger.Ledger { return s.state.ledger }

// Seeded returns the entries imported from the repayment row at load time.
func (s *Session) Seeded() []model.Repayment { return s.state.seeded }

// RepaymentRow returns the grid row repayments are projected into.
func (s *Session) RepaymentRow() int { return s.state.repaymentRow }

// SumRange returns the inclusive range of summed rows.
func (s *Session) SumRange() (start, end int) { return s.state.sumStart, s.state.sumEnd }

// Warnings reports layout problems that do not stop a recompute.
func (s *Session) Warnings() []string { return s.state.warnings }

// Base returns the starting balance.
func (s *Session) Base() decimal.Decimal { return s.base }

// SetBase changes the starting balance used by the next recompute.
func (s *Session) SetBase(base decimal.Decimal) { s.base = base }

// SetCell edits one grid cell directly.
func (s *Session) SetCell(row, col int, value string) { s.state.grid.Set(row, col, value) }

// ResolveWeek finds a week column by reference: a column index such as "7",
// a 1-based week position such as "#3", or a label matched like row labels
// (exact, then containment, ignoring case).
func (s *Session) ResolveWeek(ref string) (model.WeekColumn, error) {
	ref = strings.TrimSpace(ref)
	weeks := s.state.weeks

	if pos, ok := strings.CutPrefix(ref, "#"); ok {
		n, err := strconv.Atoi(pos)
		if err != nil || n < 1 || n > len(weeks) {
			return model.WeekColumn{}, fmt.Errorf("%w: no week at position %q", ledger.ErrInvalidWeek, pos)
		}
		return weeks[n-1], nil
	}
	if col, err := strconv.Atoi(ref); err == nil {
		if i := model.WeekPosition(weeks, col); i >= 0 {
			return weeks[i], nil
		}
		return model.WeekColumn{}, fmt.Errorf("%w: column %d is not a week column", ledger.ErrInvalidWeek, col)
	}

	want := strings.ToLower(ref)
	if want != "" {
		for _, w := range weeks {
			if strings.ToLower(w.Label) == want {
				return w, nil
			}
		}
		for _, w := range weeks {
			if strings.Contains(strings.ToLower(w.Label), want) {
				return w, nil
			}
		}
	}
	return model.WeekColumn{}, fmt.Errorf("%w: no week matches %q", ledger.ErrInvalidWeek, ref)
}

// ExportGrid returns a copy of the grid with res's balance written into the
// balance row. The row is left alone when it is missing or inside the summed
// rows, since writing there would change the next recompute; ok reports
// whether the balance was written.
func (s *Session) ExportGrid(res *Result) (g *grid.Grid, ok bool) {
	g = s.state.grid.Clone()
	if s.layout.BalanceLabel == "" || res == nil {
		return g, false
	}
	row := s.state.accessor.FindRowIndex(s.layout.BalanceLabel)
	if row == grid.NotFound || (row >= s.state.sumStart && row <= s.state.sumEnd) {
		return g, false
	}
	for i, w := range res.Weeks {
		g.Set(row, w.Index, res.Balance[i].String())
	}
	return g, true
}
