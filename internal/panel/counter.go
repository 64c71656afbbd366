package panel

import (
	"strconv"

	"github.com/leapstack-labs/shortlist/internal/filter"
	"github.com/leapstack-labs/shortlist/internal/ui/view"
)

// Counter keeps the active filter count and the ready indicator in sync with the form.
type Counter struct{}

// Update computes the filter state and paints it. Repeated calls with the same
// snapshot paint the same state.
func (Counter) Update(a *view.Adapter, s filter.Snapshot) filter.State {
	state := filter.Evaluate(s)
	a.SetText(view.FilterCount, strconv.Itoa(state.Count))
	a.SetVisible(view.ReadyIndicator, state.HasAnyActive)
	return state
}
