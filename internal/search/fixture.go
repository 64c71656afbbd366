package search

import (
	"context"
	"fmt"
	"os"

	"github.com/leapstack-labs/shortlist/internal/filter"
	"github.com/leapstack-labs/shortlist/internal/leads"
)

// Fixture answers every search with a payload read from a JSON file. The file
// is read on each call so edits show up without a restart.
type Fixture struct {
	Path string
}

// Search loads the fixture file.
func (f Fixture) Search(ctx context.Context, _ filter.Snapshot) (leads.ResultsPayload, error) {
	if err := ctx.Err(); err != nil {
		return leads.ResultsPayload{}, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return leads.ResultsPayload{}, fmt.Errorf("open fixture: %w", err)
	}
	defer func() { _ = file.Close() }()

	payload, err := leads.Decode(file)
	if err != nil {
		return leads.ResultsPayload{}, fmt.Errorf("decode fixture %s: %w", f.Path, err)
	}
	return payload, nil
}
