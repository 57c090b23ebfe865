package commands

import (
	"github.com/spf13/cobra"

	"github.com/aloc23/ifit/internal/grid"
	"github.com/aloc23/ifit/internal/report"
)

func newWeeksCommand(g *globals) *cobra.Command {
	var sheetName string

	cmd := &cobra.Command{
		Use:   "weeks <file>",
		Short: "List the week columns detected in a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			re, err := cfg.WeekRegexp()
			if err != nil {
				return err
			}

			gr, err := loadGrid(cfg, args[0], sheetName, g.logger(cmd))
			if err != nil {
				return err
			}
			acc := grid.NewAccessor(gr, cfg.Layout.LabelColumn)
			weeks, err := acc.WeekColumns(cfg.Layout.HeaderRow, cfg.Layout.FirstWeekColumn, re)
			if err != nil {
				return err
			}

			report.PrintWeeks(cmd.OutOrStdout(), weeks)
			return nil
		},
	}

	cmd.Flags().StringVar(&sheetName, "sheet", "", "worksheet to read (XLSX only)")

	return cmd
}
