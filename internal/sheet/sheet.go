// Package sheet reads cashflow workbooks into a grid and writes grids back out.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aloc23/ifit/internal/grid"
)

// ErrUnknownFormat means no parser is registered for a file.
var ErrUnknownFormat = errors.New("unknown sheet format")

// Parser converts a workbook into a grid of cell strings.
type Parser interface {
	Parse(r io.Reader) (*grid.Grid, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with the CSV and XLSX parsers. sheetName
// picks the XLSX worksheet; empty means the first one.
func DefaultRegistry(sheetName string) *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{})
	r.Register(&XLSXParser{Sheet: sheetName})
	return r
}

// FormatFromPath guesses the format from the file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	}
	return ""
}

// Load parses the file at path. An empty format is taken from the extension.
func (r *Registry) Load(path, format string) (*grid.Grid, error) {
	if format == "" {
		format = FormatFromPath(path)
	}
	p := r.Get(format)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sheet: %w", err)
	}
	defer f.Close()

	g, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return g, nil
}

// Export writes g to path in the format its extension names.
func Export(path string, g *grid.Grid, sheetName string) error {
	switch FormatFromPath(path) {
	case FormatCSV:
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := WriteCSV(f, g); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case FormatXLSX:
		return WriteXLSX(path, g, sheetName)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Base(path))
}
