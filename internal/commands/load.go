package commands

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/aloc23/ifit/internal/config"
	"github.com/aloc23/ifit/internal/forecast"
	"github.com/aloc23/ifit/internal/grid"
	"github.com/aloc23/ifit/internal/sheet"
)

// loadGrid reads a workbook using the configured worksheet unless sheetName
// overrides it.
func loadGrid(cfg *config.Config, path, sheetName string, logger *log.Logger) (*grid.Grid, error) {
	if sheetName == "" {
		sheetName = cfg.Layout.Sheet
	}
	g, err := sheet.DefaultRegistry(sheetName).Load(path, "")
	if err != nil {
		return nil, err
	}
	logger.Printf("loaded %s: %d rows, %d columns", path, g.NumRows(), g.Width())
	return g, nil
}

// openSession loads path and resolves it against the configured layout.
func openSession(cmd *cobra.Command, cfg *config.Config, path, sheetName string, logger *log.Logger) (*forecast.Session, error) {
	g, err := loadGrid(cfg, path, sheetName, logger)
	if err != nil {
		return nil, err
	}
	layout, err := forecast.LayoutFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	s, err := forecast.Open(g, layout)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	start, end := s.SumRange()
	logger.Printf("load %s: %d week columns, repayment row %d, summed rows %d..%d",
		s.LoadID(), len(s.Weeks()), s.RepaymentRow(), start, end)
	for _, r := range s.Seeded() {
		logger.Printf("seeded %s: column %d, %s", r.ID, r.Week, r.Amount)
	}
	for _, w := range s.Warnings() {
		warn(cmd, "%s", w)
	}
	return s, nil
}
