package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Environment variables that override config values.
const (
	EnvBaseValue       = "IFIT_BASE_VALUE"
	EnvLoanOutstanding = "IFIT_LOAN_OUTSTANDING"
	EnvCurrency        = "IFIT_CURRENCY"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config values from the environment, read through lookup
// (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvBaseValue); ok && strings.TrimSpace(v) != "" {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", EnvBaseValue, v, err)
		}
		c.Forecast.BaseValue = d
	}
	if v, ok := lookup(EnvLoanOutstanding); ok && strings.TrimSpace(v) != "" {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", EnvLoanOutstanding, v, err)
		}
		c.Forecast.LoanOutstanding = d
	}
	if v, ok := lookup(EnvCurrency); ok && strings.TrimSpace(v) != "" {
		c.Display.Currency = strings.ToUpper(strings.TrimSpace(v))
	}
	return nil
}
