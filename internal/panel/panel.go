// Package panel implements the shortlist filter panel: the live filter counter,
// the submission guard and the results renderer. Each component computes from a
// snapshot of the form and paints through a view.Adapter, so page layouts that
// omit a slot need no special handling here.
package panel

import (
	"github.com/leapstack-labs/shortlist/internal/filter"
	"github.com/leapstack-labs/shortlist/internal/gate"
	"github.com/leapstack-labs/shortlist/internal/leads"
	"github.com/leapstack-labs/shortlist/internal/ui/view"
)

// Config configures a Panel.
type Config struct {
	// MinActive is the submission threshold; zero means gate.DefaultMinActive.
	MinActive int
	// Formatter formats budgets; nil means leads.DefaultFormatter.
	Formatter *leads.Formatter
}

// Panel wires the three components together.
type Panel struct {
	Counter  Counter
	Guard    SubmissionGuard
	Renderer ResultsRenderer
}

// New creates a panel.
func New(cfg Config) *Panel {
	return &Panel{
		Guard:    NewSubmissionGuard(gate.New(cfg.MinActive)),
		Renderer: NewResultsRenderer(cfg.Formatter),
	}
}

// Attached reports whether the panel listens to the page at all. Without the
// filter form nothing is wired.
func Attached(layout view.Layout) bool {
	return layout.Has(view.FilterForm)
}

// Refresh recounts active filters after a field change or on page init.
func (p *Panel) Refresh(a *view.Adapter, s filter.Snapshot) filter.State {
	return p.Counter.Update(a, s)
}

// Submit runs the submission guard.
func (p *Panel) Submit(a *view.Adapter, s filter.Snapshot) gate.Decision {
	return p.Guard.Check(a, s)
}

// Render paints a search response.
func (p *Panel) Render(a *view.Adapter, payload leads.ResultsPayload) {
	p.Renderer.Render(a, payload)
}

// Fail shows a search failure in the results area. The leads list is left alone.
func (p *Panel) Fail(a *view.Adapter, message string) {
	a.SetVisible(view.ResultsArea, true)
	a.SetText(view.ResultsMessage, message)
	a.SetVisible(view.ResultsMessage, true)
	a.ScrollIntoView(view.ResultsArea)
}

// ClearAll resets the form, recounts on the reset form and hides the results.
func (p *Panel) ClearAll(a *view.Adapter) filter.State {
	empty := filter.Empty()
	a.ResetFields(empty.Signals())
	state := p.Counter.Update(a, empty)
	a.SetVisible(view.ResultsArea, false)
	return state
}
