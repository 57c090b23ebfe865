package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/aloc23/ifit/internal/grid"
)

// FormatCSV names the CSV parser.
const FormatCSV = "csv"

// CSVParser reads comma separated workbooks. Rows may have different widths.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return FormatCSV }

// Parse reads every record of r into a grid.
func (p *CSVParser) Parse(r io.Reader) (*grid.Grid, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return grid.New(records), nil
}

// WriteCSV writes g as CSV, one record per grid row.
func WriteCSV(w io.Writer, g *grid.Grid) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(g.Records()); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}
