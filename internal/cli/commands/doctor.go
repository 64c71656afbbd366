package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/shortlist/internal/cli/config"
	"github.com/leapstack-labs/shortlist/internal/cli/output"
	"github.com/leapstack-labs/shortlist/internal/filter"
	"github.com/leapstack-labs/shortlist/internal/search"
)

// Health check statuses.
const (
	StatusPass  = "pass"
	StatusWarn  = "warn"
	StatusError = "error"
)

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	ConfigFile   string        `json:"config_file,omitempty"`
	HealthChecks []HealthCheck `json:"health_checks"`
	IssueCount   int           `json:"issue_count"`
}

// HealthCheck is one check of the local setup.
type HealthCheck struct {
	Name    string `json:"name"`
	Group   string `json:"group"`
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the shortlist setup",
		Long: `Check that the configuration, run log and lead search backend are usable
before serving the panel.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run health check
  shortlist doctor

  # Output as JSON
  shortlist doctor --output json`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	checks := []HealthCheck{
		checkThreshold(cmdCtx.Cfg),
		checkRunLog(cmd.Context(), cmdCtx),
		checkSearch(cmd.Context(), cmdCtx),
		checkSessionSecret(cmdCtx.Cfg),
	}
	out := DoctorOutput{ConfigFile: config.GetConfigFileUsed(), HealthChecks: checks}
	for _, c := range checks {
		if c.Status != StatusPass {
			out.IssueCount++
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(out)
	}
	renderDoctor(r, out)
	return nil
}

func checkThreshold(cfg *config.Config) HealthCheck {
	c := HealthCheck{Name: "minimum filters", Group: "panel", Status: StatusPass}
	c.Details = fmt.Sprintf("%d of %d filter groups required", cfg.Shortlist.MinFilters, len(filter.Groups))
	if cfg.Shortlist.MinFilters == len(filter.Groups) {
		c.Status = StatusWarn
		c.Details += "; every group must be set to shortlist"
	}
	return c
}

func checkRunLog(ctx context.Context, cmdCtx *CommandContext) HealthCheck {
	c := HealthCheck{Name: "run log", Group: "storage"}
	store, err := cmdCtx.OpenStore(ctx)
	if err != nil {
		c.Status, c.Details = StatusError, err.Error()
		return c
	}
	defer func() { _ = store.Close() }()

	version, err := store.MigrationVersion(ctx)
	if err != nil {
		c.Status, c.Details = StatusError, err.Error()
		return c
	}
	c.Status = StatusPass
	c.Details = cmdCtx.Cfg.StatePath + " at schema version " + strconv.FormatInt(version, 10)
	return c
}

func checkSearch(ctx context.Context, cmdCtx *CommandContext) HealthCheck {
	c := HealthCheck{Name: "lead search", Group: "search"}
	sc := cmdCtx.Cfg.Search
	switch {
	case sc.URL != "":
		c.Status = StatusPass
		c.Details = "upstream " + sc.URL
		if sc.RateLimit > 0 {
			c.Details += fmt.Sprintf(" (%g req/s, burst %d)", sc.RateLimit, sc.Burst)
		}
	case sc.Fixture != "":
		payload, err := search.Fixture{Path: sc.Fixture}.Search(ctx, filter.Empty())
		if err != nil {
			c.Status, c.Details = StatusError, err.Error()
			return c
		}
		c.Status = StatusPass
		c.Details = fmt.Sprintf("fixture %s with %d leads", sc.Fixture, len(payload.Leads))
	default:
		c.Status = StatusWarn
		c.Details = "neither search.url nor search.fixture is set; submissions will report an error"
	}
	return c
}

func checkSessionSecret(cfg *config.Config) HealthCheck {
	c := HealthCheck{Name: "session secret", Group: "ui", Status: StatusPass}
	if cfg.UI.SessionSecret == config.DefaultSessionSecret {
		c.Status = StatusWarn
		c.Details = "using the built-in development secret; set ui.session_secret"
	}
	return c
}

func renderDoctor(r *output.Renderer, out DoctorOutput) {
	title := cases.Title(language.English)

	r.Header(1, "Shortlist Doctor")
	if out.ConfigFile != "" {
		r.KeyValue("Config file", out.ConfigFile)
	} else {
		r.KeyValue("Config file", "none (defaults)")
	}
	r.Println("")

	rows := make([][]string, 0, len(out.HealthChecks))
	for _, c := range out.HealthChecks {
		rows = append(rows, []string{title.String(c.Group), c.Name, statusLabel(r, c.Status), c.Details})
	}
	r.Table([]string{"Group", "Check", "Status", "Details"}, rows)
	r.Println("")

	if out.IssueCount == 0 {
		r.Success("All checks passed")
		return
	}
	r.Warning(fmt.Sprintf("%d issue(s) found", out.IssueCount))
}

func statusLabel(r *output.Renderer, status string) string {
	if r.EffectiveMode() != output.ModeText {
		return status
	}
	s := r.Styles()
	switch status {
	case StatusPass:
		return s.Success.Render(status)
	case StatusWarn:
		return s.Warning.Render(status)
	default:
		return s.Error.Render(status)
	}
}
