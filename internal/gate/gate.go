// Package gate implements the minimum-active-filters rule applied when the
// shortlist form is submitted.
package gate

import (
	"fmt"

	"github.com/leapstack-labs/shortlist/internal/filter"
)

// DefaultMinActive is the number of active filter groups a submission needs.
const DefaultMinActive = 2

// State is the outcome of one submission attempt.
type State int

// Gate states.
const (
	Blocked State = iota
	Allowed
)

func (s State) String() string {
	switch s {
	case Blocked:
		return "blocked"
	case Allowed:
		return "allowed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Decision is the result of evaluating a snapshot at submit time.
type Decision struct {
	State     State
	Count     int
	MinActive int
}

// Allowed reports whether the submission may proceed.
func (d Decision) Allowed() bool {
	return d.State == Allowed
}

// Guard evaluates submissions. The zero value uses DefaultMinActive.
type Guard struct {
	MinActive int
}

// New returns a guard requiring minActive active groups.
func New(minActive int) Guard {
	return Guard{MinActive: minActive}
}

func (g Guard) threshold() int {
	if g.MinActive <= 0 {
		return DefaultMinActive
	}
	return g.MinActive
}

// Evaluate decides a submission from scratch; no earlier attempt is remembered.
func (g Guard) Evaluate(s filter.Snapshot) Decision {
	minActive := g.threshold()
	count := filter.ActiveCount(s)
	d := Decision{State: Allowed, Count: count, MinActive: minActive}
	if count < minActive {
		d.State = Blocked
	}
	return d
}

// Message is the advisory text shown when a submission is blocked.
func (g Guard) Message() string {
	return MessageFor(g.threshold())
}

// MessageFor returns the advisory text for a threshold.
func MessageFor(minActive int) string {
	if minActive == 1 {
		return "Please select at least 1 filter before shortlisting."
	}
	return fmt.Sprintf("Please select at least %d filters before shortlisting.", minActive)
}
