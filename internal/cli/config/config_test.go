package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/shortlist/internal/ui/view"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shortlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("verbose", false, "")
	flags.String("output", "", "")
	flags.String("state", "", "")
	flags.String("log-level", "", "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultStateFile, cfg.StatePath)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultPort, cfg.UI.Port)
	assert.Equal(t, 2, cfg.Shortlist.MinFilters)
	assert.Equal(t, DefaultProjects, cfg.Shortlist.Projects)
	assert.Equal(t, DefaultLeadStatuses, cfg.Shortlist.LeadStatuses)
	assert.Equal(t, DefaultSearchTimeout, cfg.Search.Timeout)
	assert.Empty(t, cfg.UI.OmitSlots)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_FileEnvFlags(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, `
output: markdown
state_path: data/runs.db
ui:
  port: 9000
  omit_slots: [readyIndicator]
shortlist:
  min_filters: 3
  locale: en-IN
  currency_symbol: "AED "
  projects: [Altura, Sobha Waves]
search:
  fixture: leads.json
  timeout: 3s
`)
	dir := filepath.Dir(path)

	t.Setenv("SHORTLIST_UI__PORT", "9100")
	t.Setenv("SHORTLIST_SHORTLIST__UNIT_TYPES", "Studio, Villa,")

	cfg, err := LoadConfig(path, newFlags(t, "--output", "json"))
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, "json", cfg.OutputFormat, "flag beats file")
	assert.Equal(t, 9100, cfg.UI.Port, "env beats file")
	assert.Equal(t, 3, cfg.Shortlist.MinFilters)
	assert.Equal(t, "AED ", cfg.Shortlist.CurrencySymbol)
	assert.Equal(t, []string{"Altura", "Sobha Waves"}, cfg.Shortlist.Projects)
	assert.Equal(t, []string{"Studio", "Villa"}, cfg.Shortlist.UnitTypes)
	assert.Equal(t, DefaultLeadStatuses, cfg.Shortlist.LeadStatuses)
	assert.Equal(t, 3*time.Second, cfg.Search.Timeout)
	assert.Equal(t, filepath.Join(dir, "data", "runs.db"), cfg.StatePath)
	assert.Equal(t, filepath.Join(dir, "leads.json"), cfg.Search.Fixture)
	assert.False(t, cfg.Layout().Has(view.ReadyIndicator))
	assert.True(t, cfg.Layout().Has(view.FilterForm))
}

func TestLoadConfig_StateFlagNotResolved(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "state_path: nested/state.db\n")

	cfg, err := LoadConfig(path, newFlags(t, "--state", "local.db", "--log-level", "debug"))
	require.NoError(t, err)
	assert.Equal(t, "local.db", cfg.StatePath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"bad yaml", "ui: [", "error reading config file"},
		{"threshold too low", "shortlist:\n  min_filters: 0\n", "shortlist.min_filters must be between 1 and 5"},
		{"threshold too high", "shortlist:\n  min_filters: 6\n", "shortlist.min_filters"},
		{"unknown slot", "ui:\n  omit_slots: [sidebar]\n", `unknown UI slot "sidebar"`},
		{"bad locale", "shortlist:\n  locale: \"not a locale!\"\n", "shortlist.locale"},
		{"both search backends", "search:\n  url: http://x\n  fixture: f.json\n", "mutually exclusive"},
		{"bad output", "output: pdf\n", "output must be one of"},
		{"bad log level", "log_level: loud\n", "log_level"},
		{"bad timeout", "search:\n  timeout: soon\n", "unable to decode config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Shortlist.MinFilters = 9
	cfg.UI.Port = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shortlist.min_filters")
	assert.Contains(t, err.Error(), "ui.port")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"chatty", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := slog.New(slog.DiscardHandler)
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
