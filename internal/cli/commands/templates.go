package commands

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/shortlist/internal/cli/config"
)

//go:embed templates/leads.json
var templateFS embed.FS

// Files written by init.
const (
	ConfigFileName  = "shortlist.yaml"
	FixtureFileName = "leads.json"
)

// configFile is the layout of a generated shortlist.yaml.
type configFile struct {
	LogLevel  string        `yaml:"log_level"`
	Output    string        `yaml:"output"`
	StatePath string        `yaml:"state_path"`
	UI        uiFile        `yaml:"ui"`
	Shortlist shortlistFile `yaml:"shortlist"`
	Search    searchFile    `yaml:"search"`
}

type uiFile struct {
	Port          int      `yaml:"port"`
	AutoOpen      bool     `yaml:"auto_open"`
	Watch         bool     `yaml:"watch"`
	SessionSecret string   `yaml:"session_secret"`
	OmitSlots     []string `yaml:"omit_slots"`
}

type shortlistFile struct {
	MinFilters     int      `yaml:"min_filters"`
	Locale         string   `yaml:"locale"`
	CurrencySymbol string   `yaml:"currency_symbol"`
	Projects       []string `yaml:"projects"`
	UnitTypes      []string `yaml:"unit_types"`
	LeadStatuses   []string `yaml:"lead_statuses"`
}

type searchFile struct {
	URL       string  `yaml:"url"`
	Timeout   string  `yaml:"timeout"`
	Fixture   string  `yaml:"fixture"`
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
}

// newConfigFile converts a configuration into its file layout. Durations are
// written in their string form so the file stays hand-editable.
func newConfigFile(cfg *config.Config) configFile {
	omit := cfg.UI.OmitSlots
	if omit == nil {
		omit = []string{}
	}
	return configFile{
		LogLevel:  cfg.LogLevel,
		Output:    cfg.OutputFormat,
		StatePath: cfg.StatePath,
		UI: uiFile{
			Port:          cfg.UI.Port,
			AutoOpen:      cfg.UI.AutoOpen,
			Watch:         cfg.UI.Watch,
			SessionSecret: cfg.UI.SessionSecret,
			OmitSlots:     omit,
		},
		Shortlist: shortlistFile{
			MinFilters:     cfg.Shortlist.MinFilters,
			Locale:         cfg.Shortlist.Locale,
			CurrencySymbol: cfg.Shortlist.CurrencySymbol,
			Projects:       cfg.Shortlist.Projects,
			UnitTypes:      cfg.Shortlist.UnitTypes,
			LeadStatuses:   cfg.Shortlist.LeadStatuses,
		},
		Search: searchFile{
			URL:       cfg.Search.URL,
			Timeout:   cfg.Search.Timeout.String(),
			Fixture:   cfg.Search.Fixture,
			RateLimit: cfg.Search.RateLimit,
			Burst:     cfg.Search.Burst,
		},
	}
}

// marshalConfig renders a configuration as YAML.
func marshalConfig(cfg *config.Config) ([]byte, error) {
	data, err := yaml.Marshal(newConfigFile(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return data, nil
}

// exampleFixture returns the sample search results written by init --example.
func exampleFixture() ([]byte, error) {
	return templateFS.ReadFile("templates/" + FixtureFileName)
}

// writeProjectFile writes one generated file, refusing to replace an existing
// file unless force is set.
func writeProjectFile(dir, name string, content []byte, force bool) (string, error) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists. Use --force to overwrite", name)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}
