package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aloc23/ifit/internal/history"
	"github.com/aloc23/ifit/internal/report"
)

func newHistoryCommand(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [directory]",
		Short: "List recorded forecast runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			entries, err := history.Read(dir)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
				return nil
			}
			report.PrintHistory(cmd.OutOrStdout(), entries, report.NewCurrency(cfg.Display.Currency))
			return nil
		},
	}
	return cmd
}
