// Package state keeps the shortlist run log in SQLite. Every submit decision is
// recorded with the filters it was made on, so past shortlists can be listed.
package state

import (
	"context"
	"strings"
	"time"

	"github.com/leapstack-labs/shortlist/internal/filter"
)

// Run is one recorded submit decision.
type Run struct {
	ID          string
	Filters     filter.Snapshot
	ActiveCount int
	MinActive   int
	Allowed     bool
	// LeadCount is nil when no search ran or the search failed.
	LeadCount *int
	Error     string
	CreatedAt time.Time
}

// Status summarises the outcome of a run.
func (r Run) Status() string {
	switch {
	case !r.Allowed:
		return "blocked"
	case r.Error != "":
		return "failed"
	default:
		return "shortlisted"
	}
}

// ShortID is the first eight characters of the run id.
func (r Run) ShortID() string {
	if len(r.ID) > 8 {
		return r.ID[:8]
	}
	return r.ID
}

// ActiveGroups lists the filter groups the run was made with.
func (r Run) ActiveGroups() []filter.GroupName {
	groups := filter.Active(r.Filters)
	if groups == nil {
		return []filter.GroupName{}
	}
	return groups
}

// GroupSummary joins the active group names for display, or "none".
func (r Run) GroupSummary() string {
	groups := r.ActiveGroups()
	if len(groups) == 0 {
		return "none"
	}
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}

// Store records and lists runs.
type Store interface {
	RecordRun(ctx context.Context, run Run) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// DefaultListLimit is used when ListRuns gets a non-positive limit.
const DefaultListLimit = 20
