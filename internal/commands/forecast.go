package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/aloc23/ifit/internal/config"
	"github.com/aloc23/ifit/internal/forecast"
	"github.com/aloc23/ifit/internal/history"
	"github.com/aloc23/ifit/internal/ledger"
	"github.com/aloc23/ifit/internal/plan"
	"github.com/aloc23/ifit/internal/report"
	"github.com/aloc23/ifit/internal/sheet"
)

type forecastOptions struct {
	sheetName  string
	repay      []string
	planFile   string
	clear      bool
	base       string
	format     string
	exportPath string
	savePlan   string
	currency   string
	horizon    int
	record     bool
}

func newForecastCommand(g *globals) *cobra.Command {
	var o forecastOptions

	cmd := &cobra.Command{
		Use:   "forecast <file>",
		Short: "Compute the rolling cash balance with planned repayments",
		Long: `Loads a weekly cashflow workbook, applies repayments and prints the rolling
balance. Repayments already in the workbook's repayment row are kept unless
--clear is given. --repay takes WEEK=AMOUNT where WEEK is a week label
("Week 3"), a 1-based position ("#3") or a column index ("7").`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForecast(cmd, g, args[0], &o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.sheetName, "sheet", "", "worksheet to read (XLSX only)")
	f.StringArrayVar(&o.repay, "repay", nil, "add a repayment as WEEK=AMOUNT (repeatable)")
	f.StringVar(&o.planFile, "plan", "", "apply a saved repayment plan")
	f.BoolVar(&o.clear, "clear", false, "drop repayments already in the workbook")
	f.StringVar(&o.base, "base", "", "starting balance (overrides config)")
	f.StringVar(&o.format, "format", "table", "output format: table or json")
	f.StringVar(&o.exportPath, "export", "", "write the updated workbook to a .csv or .xlsx file")
	f.StringVar(&o.savePlan, "save-plan", "", "save the resulting repayment plan to a CSV file")
	f.StringVar(&o.currency, "currency", "", "display currency (overrides config)")
	f.IntVar(&o.horizon, "horizon", -1, "weeks of trend forecast (default from config, 0 disables)")
	f.BoolVar(&o.record, "record", false, "append this run to "+history.FileName)

	return cmd
}

func runForecast(cmd *cobra.Command, g *globals, path string, o *forecastOptions) error {
	if o.format != "table" && o.format != "json" {
		return fmt.Errorf("unknown format %q (want table or json)", o.format)
	}
	logger := g.logger(cmd)

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if o.base != "" {
		base, err := decimal.NewFromString(strings.TrimSpace(o.base))
		if err != nil {
			return fmt.Errorf("parsing --base %q: %w", o.base, err)
		}
		cfg.Forecast.BaseValue = base
	}
	if o.currency != "" {
		cfg.Display.Currency = o.currency
	}
	if o.horizon >= 0 {
		cfg.Forecast.HorizonWeeks = o.horizon
	}

	s, err := openSession(cmd, cfg, path, o.sheetName, logger)
	if err != nil {
		return err
	}
	led := s.Ledger()

	if o.clear {
		logger.Printf("clearing %d existing repayments", led.Len())
		led.Clear()
	}
	if o.planFile != "" {
		entries, err := plan.ReadFile(o.planFile)
		if err != nil {
			return err
		}
		added, err := plan.Apply(led, s.Weeks(), entries)
		if err != nil {
			return err
		}
		logger.Printf("applied %d repayments from %s", len(added), o.planFile)
	}
	for _, spec := range o.repay {
		if err := addRepayment(s, spec); err != nil {
			return err
		}
	}

	res, err := s.Recompute()
	if err != nil {
		return fmt.Errorf("computing forecast: %w", err)
	}

	if o.savePlan != "" {
		if err := plan.WriteFile(o.savePlan, plan.FromLedger(led.Entries(), s.Weeks())); err != nil {
			return err
		}
		logger.Printf("saved %d repayments to %s", led.Len(), o.savePlan)
	}
	if o.exportPath != "" {
		out, wroteBalance := s.ExportGrid(res)
		if !wroteBalance {
			logger.Printf("balance row %q not exported", cfg.Layout.BalanceLabel)
		}
		if err := sheet.Export(o.exportPath, out, cfg.Layout.Sheet); err != nil {
			return err
		}
	}
	if o.record {
		dir := "."
		if g.configPath != "" {
			dir = filepath.Dir(g.configPath)
		}
		if err := history.Append(dir, []history.Entry{history.NewEntry(time.Now(), path, res)}); err != nil {
			return err
		}
	}

	opts := reportOptions(cfg)
	if o.format == "json" {
		return report.PrintJSON(cmd.OutOrStdout(), res, opts)
	}
	report.PrintTable(cmd.OutOrStdout(), res, opts)
	return nil
}

// addRepayment applies one WEEK=AMOUNT flag value.
func addRepayment(s *forecast.Session, spec string) error {
	i := strings.LastIndex(spec, "=")
	if i < 0 {
		return fmt.Errorf("--repay %q: want WEEK=AMOUNT", spec)
	}
	week, err := s.ResolveWeek(spec[:i])
	if err != nil {
		return fmt.Errorf("--repay %q: %w", spec, err)
	}
	amount, err := ledger.ParseAmount(spec[i+1:])
	if err != nil {
		return fmt.Errorf("--repay %q: %w", spec, err)
	}
	if _, err := s.Ledger().Add(week.Index, amount); err != nil {
		return fmt.Errorf("--repay %q: %w", spec, err)
	}
	return nil
}

func reportOptions(cfg *config.Config) report.Options {
	return report.Options{
		Currency:    report.NewCurrency(cfg.Display.Currency),
		BestFactor:  cfg.Forecast.BestCase,
		WorstFactor: cfg.Forecast.WorstCase,
		TrendWeeks:  cfg.Forecast.TrendWeeks,
		Horizon:     cfg.Forecast.HorizonWeeks,
	}
}
