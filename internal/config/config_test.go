package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Layout.SumRange = SumRange{Start: 2, End: 40}
	cfg.Forecast.BaseValue = decimal.RequireFromString("120000.50")
	cfg.Display.Currency = "GBP"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Layout, got.Layout)
	assert.True(t, got.Forecast.BaseValue.Equal(cfg.Forecast.BaseValue))
	assert.True(t, got.Forecast.LoanOutstanding.Equal(cfg.Forecast.LoanOutstanding))
	assert.True(t, got.Forecast.BestCase.Equal(cfg.Forecast.BestCase))
	assert.True(t, got.Forecast.WorstCase.Equal(cfg.Forecast.WorstCase))
	assert.Equal(t, cfg.Forecast.TrendWeeks, got.Forecast.TrendWeeks)
	assert.Equal(t, cfg.Forecast.HorizonWeeks, got.Forecast.HorizonWeeks)
	assert.Equal(t, "GBP", got.Display.Currency)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1, cfg.Layout.LabelColumn)
	assert.Equal(t, 3, cfg.Layout.HeaderRow)
	assert.Equal(t, 5, cfg.Layout.FirstWeekColumn)
	assert.Equal(t, SumRange{Start: 5, End: 270}, cfg.Layout.SumRange)
	assert.True(t, cfg.Forecast.BaseValue.Equal(decimal.NewFromInt(355000)))
	assert.Equal(t, "EUR", cfg.Display.Currency)
	require.NoError(t, cfg.Validate())

	re, err := cfg.WeekRegexp()
	require.NoError(t, err)
	assert.True(t, re.MatchString("Week 3 = 2024-01-15"))
	assert.False(t, re.MatchString("Weekly income"))
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := "forecast:\n  base_value: 1000\ndisplay:\n  currency: USD\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Forecast.BaseValue.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "USD", cfg.Display.Currency)
	assert.Equal(t, 3, cfg.Layout.HeaderRow)
	assert.NotEmpty(t, cfg.Layout.RepaymentLabel)
}

func TestLoad_LabelSumRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := "layout:\n  sum_range:\n    from_label: Weekly income / cash position\n    to_label: Rolling cash balance to target\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Weekly income / cash position", cfg.Layout.SumRange.FromLabel)
	assert.Equal(t, "Rolling cash balance to target", cfg.Layout.SumRange.ToLabel)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "layout: [\n"},
		{"bad pattern", "layout:\n  week_pattern: \"(\"\n"},
		{"negative index", "layout:\n  header_row: -1\n"},
		{"half label range", "layout:\n  sum_range:\n    from_label: Income\n"},
		{"reversed range", "layout:\n  sum_range:\n    start: 10\n    end: 2\n"},
		{"bad decimal", "forecast:\n  base_value: lots\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "label_column: 1")
	assert.Contains(t, contents, "header_row: 3")
	assert.Contains(t, contents, "repayment_label: Mayweather Investment Repayment (Investment 1 and 2)")
	assert.Contains(t, contents, "base_value:")
	assert.Contains(t, contents, "355000")
	assert.Contains(t, contents, "currency: EUR")
}

func TestWeekRegexp_Empty(t *testing.T) {
	cfg := Default()
	cfg.Layout.WeekPattern = ""
	re, err := cfg.WeekRegexp()
	require.NoError(t, err)
	assert.Nil(t, re)
}

func TestWeekRegexp_Default(t *testing.T) {
	cfg := Default()
	re, err := cfg.WeekRegexp()
	require.NoError(t, err)
	require.NotNil(t, re)

	for _, s := range []string{"Week 1", "Week1", "WEEK-1", "week 12 = 2024-03-18"} {
		assert.True(t, re.MatchString(s), "header %q", s)
	}
	for _, s := range []string{"Total", "Sales", "W1"} {
		assert.False(t, re.MatchString(s), "header %q", s)
	}
}
