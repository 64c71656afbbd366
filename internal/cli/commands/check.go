package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/shortlist/internal/cli/output"
	"github.com/leapstack-labs/shortlist/internal/filter"
)

// ErrBlocked is returned by check --strict when the filters would not pass.
var ErrBlocked = errors.New("shortlist blocked")

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Strict bool
}

// CheckResult is the JSON form of a check.
type CheckResult struct {
	Query     string             `json:"query"`
	Count     int                `json:"count"`
	Active    []filter.GroupName `json:"active"`
	MinActive int                `json:"min_active"`
	Decision  string             `json:"decision"`
	Message   string             `json:"message,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <query>",
		Short: "Count active filters and decide a submission offline",
		Long: `Evaluate a url-encoded filter query the same way the panel does:
count the active filter groups and apply the minimum-filters rule.

Query keys are the form field names: project_name, min_budget, max_budget,
unit_type (repeatable), lead_status (repeatable), from_date and to_date.`,
		Example: `  # Two groups active: allowed
  shortlist check 'project_name=Altura&unit_type=Studio'

  # Both budget bounds form one group: blocked
  shortlist check 'min_budget=100000&max_budget=500000'

  # Fail with a non-zero exit status when blocked
  shortlist check --strict 'lead_status=Connected'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit with an error when the submission would be blocked")

	return cmd
}

func runCheck(cmd *cobra.Command, query string, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	snapshot, err := filter.ParseQuery(query)
	if err != nil {
		return fmt.Errorf("invalid filter query: %w", err)
	}

	p, err := cmdCtx.Panel()
	if err != nil {
		return err
	}
	decision := p.Guard.Decide(snapshot)

	result := CheckResult{
		Query:     query,
		Count:     decision.Count,
		Active:    filter.Active(snapshot),
		MinActive: decision.MinActive,
		Decision:  decision.State.String(),
	}
	if result.Active == nil {
		result.Active = []filter.GroupName{}
	}
	if !decision.Allowed() {
		result.Message = p.Guard.Message()
	}

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(result); err != nil {
			return err
		}
	} else {
		renderCheck(r, snapshot, result)
	}

	if opts.Strict && !decision.Allowed() {
		return fmt.Errorf("%w: %d of %d required filters active", ErrBlocked, result.Count, result.MinActive)
	}
	return nil
}

func renderCheck(r *output.Renderer, snapshot filter.Snapshot, result CheckResult) {
	r.Header(1, "Filter check")
	r.Println("")

	rows := make([][]string, 0, len(filter.Groups))
	for _, g := range filter.Groups {
		active := "no"
		if g.Active(snapshot) {
			active = "yes"
		}
		rows = append(rows, []string{string(g.Name), strings.Join(g.Fields, ", "), active})
	}
	r.Table([]string{"Group", "Fields", "Active"}, rows)
	r.Println("")

	r.KeyValue("Active filters", strconv.Itoa(result.Count))
	r.KeyValue("Required", strconv.Itoa(result.MinActive))
	r.KeyValue("Decision", result.Decision)
	if result.Message != "" {
		r.Warning(result.Message)
		return
	}
	r.Success("Ready to shortlist")
}
