package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/leapstack-labs/shortlist/internal/ui/view"
)

// Output formats accepted by --output.
var OutputFormats = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(OutputFormats, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output must be one of %s, got %q", strings.Join(OutputFormats, "|"), c.OutputFormat))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.UI.Port < 0 || c.UI.Port > 65535 {
		errs = append(errs, fmt.Errorf("ui.port must be between 0 and 65535, got %d", c.UI.Port))
	}
	for _, name := range c.UI.OmitSlots {
		if _, err := view.ParseSlot(name); err != nil {
			errs = append(errs, fmt.Errorf("ui.omit_slots: %w", err))
		}
	}
	if c.Shortlist.MinFilters < 1 || c.Shortlist.MinFilters > MaxMinFilters {
		errs = append(errs, fmt.Errorf("shortlist.min_filters must be between 1 and %d, got %d", MaxMinFilters, c.Shortlist.MinFilters))
	}
	if _, err := language.Parse(c.Shortlist.Locale); err != nil {
		errs = append(errs, fmt.Errorf("shortlist.locale %q: %w", c.Shortlist.Locale, err))
	}
	if c.Search.URL != "" && c.Search.Fixture != "" {
		errs = append(errs, errors.New("search.url and search.fixture are mutually exclusive"))
	}
	if c.Search.Timeout < 0 {
		errs = append(errs, fmt.Errorf("search.timeout must not be negative, got %s", c.Search.Timeout))
	}
	if c.Search.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("search.rate_limit must not be negative, got %g", c.Search.RateLimit))
	}

	return errors.Join(errs...)
}

// ParseLogLevel maps a level name to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Layout returns the page layout after omitting the configured slots.
// Call after Validate.
func (c *Config) Layout() view.Layout {
	layout := view.FullLayout()
	for _, name := range c.UI.OmitSlots {
		if id, err := view.ParseSlot(name); err == nil {
			layout = layout.Without(id)
		}
	}
	return layout
}

