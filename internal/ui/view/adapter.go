package view

import (
	"fmt"
	"maps"

	"github.com/a-h/templ"
)

// Sink applies collected view changes to a client.
type Sink interface {
	PatchSignals(signals map[string]any) error
	PatchElement(c templ.Component) error
	ExecuteScript(script string) error
}

// Adapter collects view changes for one request. Every operation on a slot the
// layout does not contain is a no-op.
type Adapter struct {
	layout   Layout
	signals  map[string]any
	elements []templ.Component
	scripts  []string
}

// NewAdapter creates an adapter for a page layout.
func NewAdapter(layout Layout) *Adapter {
	return &Adapter{
		layout:  layout,
		signals: make(map[string]any),
	}
}

// Layout returns the layout the adapter checks against.
func (a *Adapter) Layout() Layout {
	return a.layout
}

// Has reports whether the slot exists on the page.
func (a *Adapter) Has(id SlotID) bool {
	return a.layout.Has(id)
}

// SetText sets the text content of a slot.
func (a *Adapter) SetText(id SlotID, text string) {
	if !a.Has(id) {
		return
	}
	a.signals[TextSignal(id)] = text
}

// SetVisible shows or hides a slot.
func (a *Adapter) SetVisible(id SlotID, shown bool) {
	if !a.Has(id) {
		return
	}
	a.signals[ShownSignal(id)] = shown
}

// Replace swaps the slot element for c. The root element of c must carry the
// slot id.
func (a *Adapter) Replace(id SlotID, c templ.Component) {
	if !a.Has(id) {
		return
	}
	a.elements = append(a.elements, c)
}

// ScrollIntoView scrolls the slot smoothly into the nearest visible position.
func (a *Adapter) ScrollIntoView(id SlotID) {
	if !a.Has(id) {
		return
	}
	a.scripts = append(a.scripts, scrollScript(id))
}

// ResetFields overwrites the bound form fields. It needs the filter form.
func (a *Adapter) ResetFields(fields map[string]any) {
	if !a.Has(FilterForm) {
		return
	}
	maps.Copy(a.signals, fields)
}

// Empty reports whether nothing is pending.
func (a *Adapter) Empty() bool {
	return len(a.signals) == 0 && len(a.elements) == 0 && len(a.scripts) == 0
}

// Flush applies pending changes in one pass: signals, then elements, then
// scripts. Pending state is cleared even when the sink fails.
func (a *Adapter) Flush(sink Sink) error {
	signals, elements, scripts := a.signals, a.elements, a.scripts
	a.signals = make(map[string]any)
	a.elements = nil
	a.scripts = nil

	if len(signals) > 0 {
		if err := sink.PatchSignals(signals); err != nil {
			return fmt.Errorf("patch signals: %w", err)
		}
	}
	for _, c := range elements {
		if err := sink.PatchElement(c); err != nil {
			return fmt.Errorf("patch element: %w", err)
		}
	}
	for _, s := range scripts {
		if err := sink.ExecuteScript(s); err != nil {
			return fmt.Errorf("execute script: %w", err)
		}
	}
	return nil
}

func scrollScript(id SlotID) string {
	return fmt.Sprintf(`document.getElementById(%q)?.scrollIntoView({behavior: "smooth", block: "nearest"})`, string(id))
}
