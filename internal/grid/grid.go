// Package grid holds a parsed spreadsheet as rows of string cells and resolves
// labeled rows and week columns in it.
package grid

// Grid is a 2-D grid of cells with (0,0) at the top left. Rows may have
// different lengths; reads past the end of a row return "".
type Grid struct {
	rows [][]string
}

// New creates a Grid from parsed records. The records are copied.
func New(records [][]string) *Grid {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = append([]string(nil), r...)
	}
	return &Grid{rows: rows}
}

// NumRows returns the number of rows.
func (g *Grid) NumRows() int {
	return len(g.rows)
}

// Width returns the length of the longest row.
func (g *Grid) Width() int {
	w := 0
	for _, r := range g.rows {
		w = max(w, len(r))
	}
	return w
}

// Cell returns the cell at row, col, or "" when it does not exist.
func (g *Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= len(g.rows[row]) {
		return ""
	}
	return g.rows[row][col]
}

// Row returns a copy of a row, or nil when it does not exist.
func (g *Grid) Row(row int) []string {
	if row < 0 || row >= len(g.rows) {
		return nil
	}
	return append([]string(nil), g.rows[row]...)
}

// Set writes a cell, growing the grid with empty cells as needed. Negative
// coordinates are ignored, and so is writing "" past the end of the grid.
func (g *Grid) Set(row, col int, value string) {
	if row < 0 || col < 0 {
		return
	}
	if value == "" && g.Cell(row, col) == "" {
		return
	}
	for len(g.rows) <= row {
		g.rows = append(g.rows, nil)
	}
	for len(g.rows[row]) <= col {
		g.rows[row] = append(g.rows[row], "")
	}
	g.rows[row][col] = value
}

// Records returns a deep copy of all rows, for export.
func (g *Grid) Records() [][]string {
	out := make([][]string, len(g.rows))
	for i, r := range g.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	return New(g.rows)
}
