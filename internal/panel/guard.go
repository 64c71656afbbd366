package panel

import (
	"github.com/leapstack-labs/shortlist/internal/filter"
	"github.com/leapstack-labs/shortlist/internal/gate"
	"github.com/leapstack-labs/shortlist/internal/ui/view"
)

// SubmissionGuard blocks submissions with too few active filters.
type SubmissionGuard struct {
	gate gate.Guard
}

// NewSubmissionGuard wraps a gate.
func NewSubmissionGuard(g gate.Guard) SubmissionGuard {
	return SubmissionGuard{gate: g}
}

// Message is the advisory shown on a blocked submission.
func (g SubmissionGuard) Message() string {
	return g.gate.Message()
}

// Decide evaluates a submission without painting.
func (g SubmissionGuard) Decide(s filter.Snapshot) gate.Decision {
	return g.gate.Evaluate(s)
}

// Check evaluates a submission and paints the form error. A blocked decision
// stands whether or not the page has a form error slot.
func (g SubmissionGuard) Check(a *view.Adapter, s filter.Snapshot) gate.Decision {
	d := g.Decide(s)
	if !d.Allowed() {
		a.SetText(view.FormError, g.gate.Message())
		a.SetVisible(view.FormError, true)
		return d
	}
	a.SetText(view.FormError, "")
	a.SetVisible(view.FormError, false)
	return d
}
