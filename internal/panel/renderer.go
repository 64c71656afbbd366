package panel

import (
	"strconv"

	"github.com/leapstack-labs/shortlist/internal/leads"
	"github.com/leapstack-labs/shortlist/internal/ui/components"
	"github.com/leapstack-labs/shortlist/internal/ui/view"
)

// ResultsRenderer paints search responses as lead cards.
type ResultsRenderer struct {
	format *leads.Formatter
}

// NewResultsRenderer creates a renderer; a nil formatter uses en-US dollars.
func NewResultsRenderer(f *leads.Formatter) ResultsRenderer {
	if f == nil {
		f = leads.DefaultFormatter()
	}
	return ResultsRenderer{format: f}
}

// Cards projects the payload's leads into display cards, keeping their order.
func (r ResultsRenderer) Cards(p leads.ResultsPayload) []components.Card {
	cards := make([]components.Card, 0, len(p.Leads))
	for _, l := range p.Leads {
		cards = append(cards, components.Card{
			Name:        l.Name,
			Email:       l.Email,
			Phone:       l.Phone,
			Project:     l.Project,
			Budget:      r.format.Budget(l.Budget),
			UnitType:    l.UnitType,
			VisitStatus: l.VisitStatus,
		})
	}
	return cards
}

// Render reveals the results area, writes the lead count when the payload has
// one, replaces the whole leads list and scrolls the results into view.
func (r ResultsRenderer) Render(a *view.Adapter, p leads.ResultsPayload) {
	a.SetVisible(view.ResultsArea, true)
	a.SetText(view.ResultsMessage, "")
	a.SetVisible(view.ResultsMessage, false)
	if p.Count != nil {
		a.SetText(view.LeadCount, strconv.Itoa(*p.Count))
	}
	a.Replace(view.LeadsList, components.LeadsList(r.Cards(p)))
	a.ScrollIntoView(view.ResultsArea)
}
