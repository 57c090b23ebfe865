// Package history keeps an append-only CSV record of forecast runs.
package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aloc23/ifit/internal/forecast"
)

// Entry is one recorded forecast run.
type Entry struct {
	Timestamp     time.Time
	LoadID        string
	Source        string
	TotalRepaid   decimal.Decimal
	FinalBalance  decimal.Decimal
	LowestWeek    string
	LowestBalance decimal.Decimal
}

// Header is the CSV header of the history file.
const Header = "timestamp,load_id,source,total_repaid,final_balance,lowest_week,lowest_balance"

// FileName is the history file inside a project directory.
const FileName = "ifit-history.csv"

const (
	numFields        = 7
	colTimestamp     = 0
	colLoadID        = 1
	colSource        = 2
	colTotalRepaid   = 3
	colFinalBalance  = 4
	colLowestWeek    = 5
	colLowestBalance = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colLoadID] = e.LoadID
	row[colSource] = e.Source
	row[colTotalRepaid] = e.TotalRepaid.String()
	row[colFinalBalance] = e.FinalBalance.String()
	row[colLowestWeek] = e.LowestWeek
	row[colLowestBalance] = e.LowestBalance.String()
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	e := Entry{
		Timestamp:  ts,
		LoadID:     record[colLoadID],
		Source:     record[colSource],
		LowestWeek: record[colLowestWeek],
	}
	for _, f := range []struct {
		col int
		dst *decimal.Decimal
	}{
		{colTotalRepaid, &e.TotalRepaid},
		{colFinalBalance, &e.FinalBalance},
		{colLowestBalance, &e.LowestBalance},
	} {
		d, err := decimal.NewFromString(record[f.col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing amount %q: %w", record[f.col], err)
		}
		*f.dst = d
	}
	return e, nil
}

// Append writes entries to <dir>/ifit-history.csv, creating the file and
// header if needed.
func Append(dir string, entries []Entry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dir>/ifit-history.csv. A missing file reads
// as no entries.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading history CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// NewEntry records res as loaded from source at now.
func NewEntry(now time.Time, source string, res *forecast.Result) Entry {
	s := res.Summary
	return Entry{
		Timestamp:     now.UTC().Truncate(time.Second),
		LoadID:        res.LoadID.String(),
		Source:        source,
		TotalRepaid:   s.TotalRepaid,
		FinalBalance:  s.FinalBalance,
		LowestWeek:    s.Lowest.Label,
		LowestBalance: s.Lowest.Value,
	}
}
