package commands

import (
	"github.com/spf13/cobra"

	"github.com/aloc23/ifit/internal/plan"
	"github.com/aloc23/ifit/internal/report"
)

func newPlanCommand(g *globals) *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Repayment plan operations",
	}
	planCmd.AddCommand(newPlanShowCommand(g))
	return planCmd
}

func newPlanShowCommand(g *globals) *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "show <plan.csv>",
		Short: "Print a saved repayment plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if currency != "" {
				cfg.Display.Currency = currency
			}

			entries, err := plan.ReadFile(args[0])
			if err != nil {
				return err
			}
			report.PrintPlan(cmd.OutOrStdout(), entries, report.NewCurrency(cfg.Display.Currency))
			return nil
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "display currency (overrides config)")

	return cmd
}
