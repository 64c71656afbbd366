// Package search defines the lead search collaborator the shortlist submits to,
// with an HTTP client for a real upstream and a fixture for local use.
package search

import (
	"context"
	"errors"

	"github.com/leapstack-labs/shortlist/internal/filter"
	"github.com/leapstack-labs/shortlist/internal/leads"
)

// ErrNotConfigured is returned when no upstream or fixture is set.
var ErrNotConfigured = errors.New("search is not configured")

// Searcher runs a lead search for an allowed submission.
type Searcher interface {
	Search(ctx context.Context, s filter.Snapshot) (leads.ResultsPayload, error)
}

// Func adapts a function to a Searcher.
type Func func(ctx context.Context, s filter.Snapshot) (leads.ResultsPayload, error)

// Search calls f.
func (f Func) Search(ctx context.Context, s filter.Snapshot) (leads.ResultsPayload, error) {
	return f(ctx, s)
}

// Unconfigured is a Searcher that always fails with ErrNotConfigured.
type Unconfigured struct{}

// Search returns ErrNotConfigured.
func (Unconfigured) Search(context.Context, filter.Snapshot) (leads.ResultsPayload, error) {
	return leads.ResultsPayload{}, ErrNotConfigured
}
