package grid

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aloc23/ifit/internal/model"
)

// NotFound is returned by FindRowIndex when no row matches.
const NotFound = -1

var (
	// ErrRowNotFound matches every *RowNotFoundError.
	ErrRowNotFound = errors.New("row not found")
	// ErrNoWeekColumns means the header scan found no week columns.
	ErrNoWeekColumns = errors.New("no week columns detected")
)

// RowNotFoundError names the semantic row that could not be located.
type RowNotFoundError struct {
	Label  string
	Column int
}

func (e *RowNotFoundError) Error() string {
	return fmt.Sprintf("row %q not found in label column %d", e.Label, e.Column)
}

// Is reports whether target is ErrRowNotFound.
func (e *RowNotFoundError) Is(target error) bool {
	return target == ErrRowNotFound
}

// Accessor resolves labeled rows and week columns in a Grid.
type Accessor struct {
	grid     *Grid
	labelCol int
}

// NewAccessor creates an Accessor that matches labels in column labelCol.
func NewAccessor(g *Grid, labelCol int) *Accessor {
	return &Accessor{grid: g, labelCol: labelCol}
}

// FindRowIndex returns the first row whose label cell equals label, ignoring
// case and surrounding whitespace. If none does, it returns the first row whose
// label cell contains label. Otherwise it returns NotFound.
func (a *Accessor) FindRowIndex(label string) int {
	want := normalize(label)
	if want == "" {
		return NotFound
	}

	contains := NotFound
	for i := 0; i < a.grid.NumRows(); i++ {
		got := normalize(a.grid.Cell(i, a.labelCol))
		if got == "" {
			continue
		}
		if got == want {
			return i
		}
		if contains == NotFound && strings.Contains(got, want) {
			contains = i
		}
	}
	return contains
}

// RequireRow is FindRowIndex returning a *RowNotFoundError instead of NotFound.
func (a *Accessor) RequireRow(label string) (int, error) {
	idx := a.FindRowIndex(label)
	if idx == NotFound {
		return NotFound, &RowNotFoundError{Label: label, Column: a.labelCol}
	}
	return idx, nil
}

// WeekColumns extracts week columns from headerRow. It returns ErrNoWeekColumns
// when the row is missing or nothing in it qualifies.
func (a *Accessor) WeekColumns(headerRow, offset int, pattern *regexp.Regexp) ([]model.WeekColumn, error) {
	if headerRow < 0 || headerRow >= a.grid.NumRows() {
		return nil, fmt.Errorf("header row %d outside grid of %d rows: %w", headerRow, a.grid.NumRows(), ErrNoWeekColumns)
	}
	weeks := ExtractWeekColumns(a.grid.Row(headerRow), offset, pattern)
	if len(weeks) == 0 {
		return nil, fmt.Errorf("header row %d from column %d: %w", headerRow, offset, ErrNoWeekColumns)
	}
	return weeks, nil
}

// ExtractWeekColumns scans header left to right from offset. A cell qualifies
// when it is non-empty after trimming and matches pattern; a nil pattern accepts
// any non-empty cell. The result is ordered by column index.
func ExtractWeekColumns(header []string, offset int, pattern *regexp.Regexp) []model.WeekColumn {
	var weeks []model.WeekColumn
	for i := max(offset, 0); i < len(header); i++ {
		label := strings.TrimSpace(header[i])
		if label == "" {
			continue
		}
		if pattern != nil && !pattern.MatchString(label) {
			continue
		}
		weeks = append(weeks, model.WeekColumn{Index: i, Label: label})
	}
	return weeks
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
