package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "ifit.yaml"

// Config represents the top-level ifit.yaml configuration.
type Config struct {
	Layout   LayoutConfig   `yaml:"layout"`
	Forecast ForecastConfig `yaml:"forecast"`
	Display  DisplayConfig  `yaml:"display"`
}

// LayoutConfig locates the semantic rows and week columns in a workbook.
// Indexes are 0-based.
type LayoutConfig struct {
	Sheet           string   `yaml:"sheet,omitempty"` // empty = first sheet
	LabelColumn     int      `yaml:"label_column"`
	HeaderRow       int      `yaml:"header_row"`
	FirstWeekColumn int      `yaml:"first_week_column"`
	WeekPattern     string   `yaml:"week_pattern"` // empty = any non-empty header cell
	RepaymentLabel  string   `yaml:"repayment_label"`
	BalanceLabel    string   `yaml:"balance_label,omitempty"`
	SumRange        SumRange `yaml:"sum_range"`
}

// SumRange selects the rows summed into each week's net. Either set Start/End
// (inclusive) or FromLabel/ToLabel, which sums the rows strictly between them.
// The range must include the repayment row.
type SumRange struct {
	Start     int    `yaml:"start"`
	End       int    `yaml:"end"`
	FromLabel string `yaml:"from_label,omitempty"`
	ToLabel   string `yaml:"to_label,omitempty"`
}

// ForecastConfig holds the numbers the balance is computed from.
type ForecastConfig struct {
	BaseValue       decimal.Decimal `yaml:"base_value"`
	LoanOutstanding decimal.Decimal `yaml:"loan_outstanding,omitempty"` // zero follows base_value
	BestCase        decimal.Decimal `yaml:"best_case_factor"`
	WorstCase       decimal.Decimal `yaml:"worst_case_factor"`
	TrendWeeks      int             `yaml:"trend_weeks"`
	HorizonWeeks    int             `yaml:"horizon_weeks"`
}

// DisplayConfig controls report formatting.
type DisplayConfig struct {
	Currency string `yaml:"currency"`
}

// Load reads an ifit.yaml file from disk and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the layout of the loan repayment workbook the tool was built
// around: labels in column B, week headers on row 4 from column F.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			LabelColumn:     1,
			HeaderRow:       3,
			FirstWeekColumn: 5,
			WeekPattern:     `(?i)week`,
			RepaymentLabel:  "Mayweather Investment Repayment (Investment 1 and 2)",
			BalanceLabel:    "Rolling cash balance",
			SumRange:        SumRange{Start: 5, End: 270},
		},
		Forecast: ForecastConfig{
			BaseValue:       decimal.NewFromInt(355000),
			BestCase:        decimal.RequireFromString("1.1"),
			WorstCase:       decimal.RequireFromString("0.9"),
			TrendWeeks:      4,
			HorizonWeeks:    8,
		},
		Display: DisplayConfig{
			Currency: "EUR",
		},
	}
}

// Validate checks values that would otherwise fail deep inside a recompute.
func (c *Config) Validate() error {
	l := c.Layout
	if l.LabelColumn < 0 || l.HeaderRow < 0 || l.FirstWeekColumn < 0 {
		return fmt.Errorf("layout indexes must not be negative")
	}
	if l.RepaymentLabel == "" {
		return fmt.Errorf("layout.repayment_label is required")
	}
	if _, err := c.WeekRegexp(); err != nil {
		return err
	}
	r := l.SumRange
	byLabel := r.FromLabel != "" || r.ToLabel != ""
	if byLabel && (r.FromLabel == "" || r.ToLabel == "") {
		return fmt.Errorf("sum_range needs both from_label and to_label")
	}
	if !byLabel && (r.Start < 0 || r.End < r.Start) {
		return fmt.Errorf("sum_range %d..%d is not a valid row range", r.Start, r.End)
	}
	if c.Forecast.TrendWeeks < 0 || c.Forecast.HorizonWeeks < 0 {
		return fmt.Errorf("forecast weeks must not be negative")
	}
	return nil
}

// WeekRegexp compiles the week marker pattern. An empty pattern yields nil.
func (c *Config) WeekRegexp() (*regexp.Regexp, error) {
	if c.Layout.WeekPattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(c.Layout.WeekPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid week_pattern %q: %w", c.Layout.WeekPattern, err)
	}
	return re, nil
}
