package commands

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/shortlist/internal/cli/output"
	"github.com/leapstack-labs/shortlist/internal/filter"
	"github.com/leapstack-labs/shortlist/internal/state"
)

// RunsOptions holds options for the runs command.
type RunsOptions struct {
	Limit int
}

// RunOutput is the JSON form of a recorded run.
type RunOutput struct {
	ID          string             `json:"id"`
	CreatedAt   time.Time          `json:"created_at"`
	Status      string             `json:"status"`
	ActiveCount int                `json:"active_count"`
	MinActive   int                `json:"min_active"`
	Groups      []filter.GroupName `json:"groups"`
	Filters     string             `json:"filters"`
	LeadCount   *int               `json:"lead_count,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	opts := &RunsOptions{}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent shortlist submissions",
		Long: `List the most recent submit decisions from the run log, newest first.

Each run shows whether the submission was blocked by the minimum-filters
rule, failed in the lead search, or produced a shortlist.`,
		Example: `  # Show the last 20 runs
  shortlist runs

  # Show the last 5 runs as JSON
  shortlist runs --limit 5 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRuns(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", state.DefaultListLimit, "Maximum number of runs to show")

	return cmd
}

func runRuns(cmd *cobra.Command, opts *RunsOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	store, err := cmdCtx.OpenStore(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := make([]RunOutput, 0, len(runs))
		for _, run := range runs {
			out = append(out, toRunOutput(run))
		}
		return r.JSON(out)
	}

	r.Header(1, "Recent runs")
	r.Println("")
	if len(runs) == 0 {
		r.Muted("No runs recorded yet")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		o := toRunOutput(run)
		leadCount := "-"
		if o.LeadCount != nil {
			leadCount = strconv.Itoa(*o.LeadCount)
		}
		rows = append(rows, []string{
			run.ShortID(),
			o.CreatedAt.Local().Format(time.DateTime),
			o.Status,
			strconv.Itoa(o.ActiveCount) + "/" + strconv.Itoa(o.MinActive),
			leadCount,
			run.GroupSummary(),
		})
	}
	r.Table([]string{"Run", "Created", "Status", "Active", "Leads", "Filters"}, rows)
	return nil
}

func toRunOutput(run state.Run) RunOutput {
	return RunOutput{
		ID:          run.ID,
		CreatedAt:   run.CreatedAt,
		Status:      run.Status(),
		ActiveCount: run.ActiveCount,
		MinActive:   run.MinActive,
		Groups:      run.ActiveGroups(),
		Filters:     run.Filters.Values().Encode(),
		LeadCount:   run.LeadCount,
		Error:       run.Error,
	}
}
