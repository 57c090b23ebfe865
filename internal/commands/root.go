package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/aloc23/ifit/internal/buildinfo"
	"github.com/aloc23/ifit/internal/config"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	envFile    string
	verbose    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "ifit",
		Short:   "Weekly cashflow forecasting with a loan repayment plan",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (default ./"+config.FileName+" when present)")
	pf.StringVar(&g.envFile, "env-file", ".env", "dotenv file with IFIT_* overrides")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log load and layout details to stderr")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newWeeksCommand(g))
	rootCmd.AddCommand(newForecastCommand(g))
	rootCmd.AddCommand(newPlanCommand(g))
	rootCmd.AddCommand(newHistoryCommand(g))

	return rootCmd
}

// loadConfig reads the config file, then the dotenv file, then the process
// environment. Without --config a missing ./ifit.yaml means defaults.
func (g *globals) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if g.configPath != "" {
		c, err := config.Load(g.configPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		c, err := config.Load(config.FileName)
		switch {
		case err == nil:
			cfg = c
		case errors.Is(err, fs.ErrNotExist):
			cfg = config.Default()
		default:
			return nil, err
		}
	}

	if err := config.LoadDotEnv(g.envFile); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logger writes diagnostics to stderr with --verbose and discards them otherwise.
func (g *globals) logger(cmd *cobra.Command) *log.Logger {
	if !g.verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), "ifit: ", 0)
}

func warn(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: "+format+"\n", args...)
}
