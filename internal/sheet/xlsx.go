package sheet

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/aloc23/ifit/internal/grid"
)

// FormatXLSX names the XLSX parser.
const FormatXLSX = "xlsx"

// ErrNoSheet means the workbook has no worksheet to read.
var ErrNoSheet = errors.New("no worksheet")

// XLSXParser reads one worksheet of an Excel workbook.
type XLSXParser struct {
	Sheet string // empty reads the first sheet
}

// Format returns the parser name.
func (p *XLSXParser) Format() string { return FormatXLSX }

// Parse reads the worksheet's raw cell values into a grid. Formulas are not
// evaluated; their cached values are used.
func (p *XLSXParser) Parse(r io.Reader) (*grid.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	name := p.Sheet
	if name == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoSheet
		}
		name = sheets[0]
	}
	if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoSheet, name)
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", name, err)
	}
	return grid.New(rows), nil
}

// WriteXLSX saves g to path as a single-sheet workbook. Cells that parse as
// plain numbers are written as numbers.
func WriteXLSX(path string, g *grid.Grid, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	name := f.GetSheetName(0)
	if sheetName != "" && sheetName != name {
		if err := f.SetSheetName(name, sheetName); err != nil {
			return fmt.Errorf("naming sheet: %w", err)
		}
		name = sheetName
	}

	for r, n := 0, g.NumRows(); r < n; r++ {
		src := g.Row(r)
		if len(src) == 0 {
			continue
		}
		row := make([]interface{}, len(src))
		for c, v := range src {
			row[c] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return fmt.Errorf("row %d: %w", r, err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", r, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// cellValue writes s as a number only when it reads back as the same text, so
// cells like "0012" or "1e3" stay strings.
func cellValue(s string) interface{} {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if strconv.FormatFloat(f, 'f', -1, 64) != s {
		return s
	}
	return f
}
