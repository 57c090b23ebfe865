// Package ledger holds user-entered repayments and projects them into the
// repayment row of a grid.
package ledger

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/aloc23/ifit/internal/grid"
	"github.com/aloc23/ifit/internal/id"
	"github.com/aloc23/ifit/internal/model"
)

var (
	// ErrInvalidAmount rejects non-positive or non-finite amounts.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidWeek rejects a column that is not a known week column.
	ErrInvalidWeek = errors.New("invalid week")
	// ErrEntryNotFound means no entry has the given ID.
	ErrEntryNotFound = errors.New("repayment entry not found")
)

// Ledger is the list of repayment entries. It is the source of truth for the
// grid's repayment row, which it rewrites on every change.
type Ledger struct {
	grid         *grid.Grid
	repaymentRow int
	weeks        []model.WeekColumn
	known        map[int]bool
	entries      []model.Repayment
	nextSeq      int
	// presets are positive repayment row cells left in place on Seed.
	presets map[int]preset
}

type preset struct {
	raw   string
	value decimal.Decimal
}

// Aggregate is the per-week sum of entry amounts.
type Aggregate struct {
	ByWeek map[int]decimal.Decimal // keyed by week column index
	Total  decimal.Decimal
}

// Week returns the summed amount for a week column, zero when it has no entries.
func (a Aggregate) Week(column int) decimal.Decimal {
	if d, ok := a.ByWeek[column]; ok {
		return d
	}
	return decimal.Zero
}

// UpdateParams holds the optional fields of an entry edit.
type UpdateParams struct {
	Week   *int
	Amount *decimal.Decimal
}

// New creates an empty Ledger projecting into row repaymentRow of g.
func New(g *grid.Grid, repaymentRow int, weeks []model.WeekColumn) *Ledger {
	known := make(map[int]bool, len(weeks))
	for _, w := range weeks {
		known[w.Index] = true
	}
	return &Ledger{
		grid:         g,
		repaymentRow: repaymentRow,
		weeks:        weeks,
		known:        known,
		nextSeq:      1,
		presets:      make(map[int]preset),
	}
}

// RepaymentRow returns the grid row entries are projected into.
func (l *Ledger) RepaymentRow() int { return l.repaymentRow }

// Add validates and appends an entry, then projects its week.
func (l *Ledger) Add(week int, amount decimal.Decimal) (model.Repayment, error) {
	if err := l.check(week, amount); err != nil {
		return model.Repayment{}, err
	}

	entry := model.Repayment{
		ID:     id.FormatRepaymentID(l.nextSeq),
		Week:   week,
		Amount: amount,
	}
	l.nextSeq++
	l.entries = append(l.entries, entry)
	l.project(week)
	return entry, nil
}

// AddEntry appends r keeping its ID when it is a well-formed repayment ID the
// ledger has not handed out yet, otherwise it gets the next free ID. Later IDs
// continue after the highest one held.
func (l *Ledger) AddEntry(r model.Repayment) (model.Repayment, error) {
	seq, err := id.ParseRepaymentID(r.ID)
	if err != nil || seq < l.nextSeq {
		return l.Add(r.Week, r.Amount)
	}
	r.ID = id.FormatRepaymentID(seq)
	if err := l.check(r.Week, r.Amount); err != nil {
		return model.Repayment{}, err
	}

	l.entries = append(l.entries, r)
	l.nextSeq = max(l.nextSeq, id.NextSeq(l.ids()))
	l.project(r.Week)
	return r, nil
}

// Remove deletes the entry with the given ID.
func (l *Ledger) Remove(entryID string) error {
	i := l.indexOf(entryID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	week := l.entries[i].Week
	l.entries = slices.Delete(l.entries, i, i+1)
	l.project(week)
	return nil
}

// Update changes the week and/or amount of an entry. On error the entry is unchanged.
func (l *Ledger) Update(entryID string, params UpdateParams) (model.Repayment, error) {
	i := l.indexOf(entryID)
	if i < 0 {
		return model.Repayment{}, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}

	updated := l.entries[i]
	if params.Week != nil {
		updated.Week = *params.Week
	}
	if params.Amount != nil {
		updated.Amount = *params.Amount
	}
	if err := l.check(updated.Week, updated.Amount); err != nil {
		return model.Repayment{}, err
	}

	oldWeek := l.entries[i].Week
	l.entries[i] = updated
	l.project(oldWeek, updated.Week)
	return updated, nil
}

// Clear removes every entry and blanks the repayment row for all known weeks.
func (l *Ledger) Clear() {
	l.entries = nil
	clear(l.presets)
	for _, w := range l.weeks {
		l.grid.Set(l.repaymentRow, w.Index, "")
	}
}

// Entries returns a copy of the entries in insertion order.
func (l *Ledger) Entries() []model.Repayment {
	return slices.Clone(l.entries)
}

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Aggregate sums entry amounts per week. It does not modify the ledger.
func (l *Ledger) Aggregate() Aggregate {
	agg := Aggregate{ByWeek: make(map[int]decimal.Decimal), Total: decimal.Zero}
	for _, e := range l.entries {
		agg.ByWeek[e.Week] = agg.Week(e.Week).Add(e.Amount)
		agg.Total = agg.Total.Add(e.Amount)
	}
	return agg
}

// Seed turns negative repayment row cells of known weeks into entries, so
// repayments already planned in a loaded workbook are owned by the ledger.
// A cell of -500 seeds an entry of 500. Positive cells are not repayments and
// stay as they are; entries added to their week are subtracted from them.
func (l *Ledger) Seed() []model.Repayment {
	var seeded []model.Repayment
	for _, w := range l.weeks {
		raw := l.grid.Cell(l.repaymentRow, w.Index)
		v, ok := grid.ParseNumber(raw)
		if !ok || v.IsZero() {
			continue
		}
		if v.IsPositive() {
			l.presets[w.Index] = preset{raw: raw, value: v}
			continue
		}
		entry, err := l.Add(w.Index, v.Neg())
		if err != nil {
			continue
		}
		seeded = append(seeded, entry)
	}
	return seeded
}

func (l *Ledger) check(week int, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidAmount, amount)
	}
	if !l.known[week] {
		return fmt.Errorf("%w: column %d is not a week column", ErrInvalidWeek, week)
	}
	return nil
}

func (l *Ledger) ids() []string {
	ids := make([]string, len(l.entries))
	for i, e := range l.entries {
		ids[i] = e.ID
	}
	return ids
}

func (l *Ledger) indexOf(entryID string) int {
	return slices.IndexFunc(l.entries, func(e model.Repayment) bool {
		return e.ID == entryID
	})
}

// project rewrites the repayment row cell of each given week from the entries.
func (l *Ledger) project(weeks ...int) {
	agg := l.Aggregate()
	for _, w := range weeks {
		sum := agg.Week(w)
		p, hasPreset := l.presets[w]
		switch {
		case sum.IsZero():
			l.grid.Set(l.repaymentRow, w, p.raw)
		case hasPreset:
			l.grid.Set(l.repaymentRow, w, p.value.Sub(sum).String())
		default:
			l.grid.Set(l.repaymentRow, w, sum.Neg().String())
		}
	}
}
