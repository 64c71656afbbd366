// Package view provides the capability-checked view adapter used by the
// shortlist panel. Page layouts may omit any UI slot; the adapter absorbs the
// difference so panel logic can update the view unconditionally.
package view

import (
	"fmt"
	"sort"
)

// SlotID is the DOM id of a named UI slot.
type SlotID string

// UI slots of the shortlist page.
const (
	FilterForm     SlotID = "filterForm"
	ClearAllButton SlotID = "clearAllBtn"
	FilterCount    SlotID = "filterCount"
	ReadyIndicator SlotID = "readyIndicator"
	ResultsArea    SlotID = "resultsArea"
	ResultsMessage SlotID = "resultsMessage"
	LeadCount      SlotID = "leadCount"
	LeadsList      SlotID = "leadsList"
	FormError      SlotID = "formError"
)

// AllSlots lists every known slot.
var AllSlots = []SlotID{
	FilterForm,
	ClearAllButton,
	FilterCount,
	ReadyIndicator,
	ResultsArea,
	ResultsMessage,
	LeadCount,
	LeadsList,
	FormError,
}

// ParseSlot validates a slot id.
func ParseSlot(s string) (SlotID, error) {
	for _, id := range AllSlots {
		if string(id) == s {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown UI slot %q", s)
}

// TextSignal is the signal holding the text content of a slot.
func TextSignal(id SlotID) string {
	return "_" + string(id) + "Text"
}

// ShownSignal is the signal holding the visibility of a slot.
func ShownSignal(id SlotID) string {
	return "_" + string(id) + "Shown"
}

// Layout is the set of slots a page variant contains.
type Layout struct {
	present map[SlotID]bool
}

// FullLayout contains every slot.
func FullLayout() Layout {
	return NewLayout(AllSlots...)
}

// NewLayout contains exactly the given slots.
func NewLayout(ids ...SlotID) Layout {
	l := Layout{present: make(map[SlotID]bool, len(ids))}
	for _, id := range ids {
		l.present[id] = true
	}
	return l
}

// Without returns a copy of the layout with the given slots removed.
func (l Layout) Without(ids ...SlotID) Layout {
	out := Layout{present: make(map[SlotID]bool, len(l.present))}
	for id, ok := range l.present {
		out.present[id] = ok
	}
	for _, id := range ids {
		delete(out.present, id)
	}
	return out
}

// IsZero reports whether the layout was never built. A zero Layout has no slots.
func (l Layout) IsZero() bool {
	return l.present == nil
}

// Has reports whether the slot is part of the layout.
func (l Layout) Has(id SlotID) bool {
	return l.present[id]
}

// Slots returns the present slots sorted by id.
func (l Layout) Slots() []SlotID {
	ids := make([]SlotID, 0, len(l.present))
	for id := range l.present {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
