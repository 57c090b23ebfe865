// Package plan saves and restores repayment plans as CSV files.
package plan

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aloc23/ifit/internal/ledger"
	"github.com/aloc23/ifit/internal/model"
)

// Header is the CSV header of a plan file.
const Header = "entry_id,week_column,week_label,amount"

const (
	numFields    = 4
	colEntryID   = 0
	colWeekCol   = 1
	colWeekLabel = 2
	colAmount    = 3
)

// Entry is one saved repayment. WeekLabel is preferred over WeekColumn when
// the plan is applied to a different workbook.
type Entry struct {
	EntryID    string
	WeekColumn int
	WeekLabel  string
	Amount     decimal.Decimal
}

// Read reads all entries from a plan CSV.
func Read(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading plan CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var entries []Entry
	for i, rec := range records[1:] {
		e, err := Unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Write writes entries to w, header first.
func Write(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range entries {
		if err := cw.Write(Marshal(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Marshal converts an entry to a CSV record.
func Marshal(e Entry) []string {
	rec := make([]string, numFields)
	rec[colEntryID] = e.EntryID
	rec[colWeekCol] = strconv.Itoa(e.WeekColumn)
	rec[colWeekLabel] = e.WeekLabel
	rec[colAmount] = e.Amount.String()
	return rec
}

// Unmarshal parses a CSV record into an entry.
func Unmarshal(rec []string) (Entry, error) {
	col, err := strconv.Atoi(strings.TrimSpace(rec[colWeekCol]))
	if err != nil {
		return Entry{}, fmt.Errorf("parsing week column %q: %w", rec[colWeekCol], err)
	}
	amount, err := ledger.ParseAmount(rec[colAmount])
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		EntryID:    rec[colEntryID],
		WeekColumn: col,
		WeekLabel:  rec[colWeekLabel],
		Amount:     amount,
	}, nil
}

// ReadFile reads a plan from path.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening plan: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// WriteFile writes a plan to path, replacing any existing file.
func WriteFile(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating plan: %w", err)
	}
	if err := Write(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FromLedger snapshots ledger entries, labeling each with its week header.
func FromLedger(repayments []model.Repayment, weeks []model.WeekColumn) []Entry {
	entries := make([]Entry, 0, len(repayments))
	for _, r := range repayments {
		label := ""
		if i := model.WeekPosition(weeks, r.Week); i >= 0 {
			label = weeks[i].Label
		}
		entries = append(entries, Entry{
			EntryID:    r.ID,
			WeekColumn: r.Week,
			WeekLabel:  label,
			Amount:     r.Amount,
		})
	}
	return entries
}

// Apply adds every entry to l. An entry's week is found by label first and by
// column second. Entry IDs are kept unless the ledger already used them.
// Entries applied before a failure stay in the ledger.
func Apply(l *ledger.Ledger, weeks []model.WeekColumn, entries []Entry) ([]model.Repayment, error) {
	added := make([]model.Repayment, 0, len(entries))
	for i, e := range entries {
		r, err := l.AddEntry(model.Repayment{
			ID:     e.EntryID,
			Week:   weekFor(e, weeks),
			Amount: e.Amount,
		})
		if err != nil {
			return added, fmt.Errorf("plan entry %d (%s): %w", i+1, e.EntryID, err)
		}
		added = append(added, r)
	}
	return added, nil
}

func weekFor(e Entry, weeks []model.WeekColumn) int {
	if e.WeekLabel != "" {
		for _, w := range weeks {
			if strings.EqualFold(w.Label, e.WeekLabel) {
				return w.Index
			}
		}
	}
	return e.WeekColumn
}
