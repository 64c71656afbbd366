package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/shortlist/internal/cli/config"
	"github.com/leapstack-labs/shortlist/internal/cli/output"
	"github.com/leapstack-labs/shortlist/internal/leads"
	"github.com/leapstack-labs/shortlist/internal/panel"
	"github.com/leapstack-labs/shortlist/internal/search"
	"github.com/leapstack-labs/shortlist/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// Panel builds the filter panel from the shortlist settings.
func (c *CommandContext) Panel() (*panel.Panel, error) {
	f, err := c.Formatter()
	if err != nil {
		return nil, err
	}
	return panel.New(panel.Config{MinActive: c.Cfg.Shortlist.MinFilters, Formatter: f}), nil
}

// Formatter builds the budget formatter for the configured locale.
func (c *CommandContext) Formatter() (*leads.Formatter, error) {
	f, err := leads.NewFormatter(c.Cfg.Shortlist.Locale, c.Cfg.Shortlist.CurrencySymbol)
	if err != nil {
		return nil, fmt.Errorf("budget formatter: %w", err)
	}
	return f, nil
}

// Searcher picks the lead search backend: the upstream URL, a fixture file,
// or a searcher that reports it is not configured.
func (c *CommandContext) Searcher() (search.Searcher, error) {
	sc := c.Cfg.Search
	switch {
	case sc.URL != "":
		client, err := search.NewHTTPClient(search.HTTPConfig{
			URL:       sc.URL,
			Timeout:   sc.Timeout,
			RateLimit: sc.RateLimit,
			Burst:     sc.Burst,
			Logger:    c.Logger,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case sc.Fixture != "":
		return search.Fixture{Path: sc.Fixture}, nil
	default:
		c.Logger.Warn("no lead search configured; submissions will report an error")
		return search.Unconfigured{}, nil
	}
}

// OpenStore opens the run log. The caller closes it.
func (c *CommandContext) OpenStore(ctx context.Context) (*state.SQLiteStore, error) {
	store, err := state.Open(ctx, c.Cfg.StatePath, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}
	return store, nil
}

// getConfig returns the current configuration, or the defaults when none was
// loaded (commands built directly in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
