// Package config provides configuration management for the shortlist CLI.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	Verbose      bool            `koanf:"verbose"`
	LogLevel     string          `koanf:"log_level"`
	OutputFormat string          `koanf:"output"`
	StatePath    string          `koanf:"state_path"`
	UI           UIConfig        `koanf:"ui"`
	Shortlist    ShortlistConfig `koanf:"shortlist"`
	Search       SearchConfig    `koanf:"search"`

	// ConfigDir is the directory of the config file used, if any. Relative
	// paths in the file are resolved against it.
	ConfigDir string `koanf:"-"`
}

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	Watch         bool   `koanf:"watch"`
	StaticDir     string `koanf:"static_dir"`
	SessionSecret string `koanf:"session_secret"`
	// OmitSlots names page slots left out of the rendered page.
	OmitSlots []string `koanf:"omit_slots"`
}

// ShortlistConfig holds the filter panel settings.
type ShortlistConfig struct {
	MinFilters     int      `koanf:"min_filters"`
	Locale         string   `koanf:"locale"`
	CurrencySymbol string   `koanf:"currency_symbol"`
	Projects       []string `koanf:"projects"`
	UnitTypes      []string `koanf:"unit_types"`
	LeadStatuses   []string `koanf:"lead_statuses"`
}

// SearchConfig selects the lead search backend.
type SearchConfig struct {
	URL       string        `koanf:"url"`
	Timeout   time.Duration `koanf:"timeout"`
	Fixture   string        `koanf:"fixture"`
	RateLimit float64       `koanf:"rate_limit"`
	Burst     int           `koanf:"burst"`
}

// Default configuration values.
const (
	DefaultStateFile      = ".shortlist/state.db"
	DefaultOutput         = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel       = "info"
	DefaultPort           = 8765
	DefaultMinFilters     = 2
	MaxMinFilters         = 5
	DefaultLocale         = "en-US"
	DefaultCurrencySymbol = "$"
	DefaultSearchTimeout  = 10 * time.Second
	DefaultSearchBurst    = 5
	DefaultSessionSecret  = "shortlist-dev-secret-change-in-production" //nolint:gosec
)

// Default option lists offered by the filter form.
var (
	DefaultProjects = []string{
		"Altura", "Beachgate by Address", "Damac Bay by Cavalli", "DLF West Park",
		"Godrej Vistas", "Lumina Grand", "Sobha Crest", "Sobha Waves",
	}
	DefaultUnitTypes = []string{
		"Studio", "1 bed", "2 bed", "2 bed w study", "3 bed", "4 bed", "Duplex", "Penthouse",
	}
	DefaultLeadStatuses = []string{
		"Not Connected",
		"Connected",
		"Follow-up sent",
		"Visit requested",
		"Visit scheduled",
		"Visit done not purchased",
		"Purchased",
		"Not interested",
	}
)

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		LogLevel:     DefaultLogLevel,
		OutputFormat: DefaultOutput,
		StatePath:    DefaultStateFile,
		UI: UIConfig{
			Port:          DefaultPort,
			AutoOpen:      true,
			SessionSecret: DefaultSessionSecret,
		},
		Shortlist: ShortlistConfig{
			MinFilters:     DefaultMinFilters,
			Locale:         DefaultLocale,
			CurrencySymbol: DefaultCurrencySymbol,
			Projects:       append([]string(nil), DefaultProjects...),
			UnitTypes:      append([]string(nil), DefaultUnitTypes...),
			LeadStatuses:   append([]string(nil), DefaultLeadStatuses...),
		},
		Search: SearchConfig{
			Timeout: DefaultSearchTimeout,
			Burst:   DefaultSearchBurst,
		},
	}
}

// defaultMap is Default flattened into koanf keys.
func defaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"verbose":                   false,
		"log_level":                 d.LogLevel,
		"output":                    d.OutputFormat,
		"state_path":                d.StatePath,
		"ui.port":                   d.UI.Port,
		"ui.auto_open":              d.UI.AutoOpen,
		"ui.watch":                  d.UI.Watch,
		"ui.static_dir":             "",
		"ui.session_secret":         d.UI.SessionSecret,
		"ui.omit_slots":             []string{},
		"shortlist.min_filters":     d.Shortlist.MinFilters,
		"shortlist.locale":          d.Shortlist.Locale,
		"shortlist.currency_symbol": d.Shortlist.CurrencySymbol,
		"shortlist.projects":        d.Shortlist.Projects,
		"shortlist.unit_types":      d.Shortlist.UnitTypes,
		"shortlist.lead_statuses":   d.Shortlist.LeadStatuses,
		"search.url":                "",
		"search.timeout":            d.Search.Timeout.String(),
		"search.fixture":            "",
		"search.rate_limit":         0.0,
		"search.burst":              d.Search.Burst,
	}
}
