package view

import (
	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

// SSESink writes view changes to a datastar event stream.
type SSESink struct {
	sse *datastar.ServerSentEventGenerator
}

// NewSSESink wraps a datastar event stream.
func NewSSESink(sse *datastar.ServerSentEventGenerator) *SSESink {
	return &SSESink{sse: sse}
}

// PatchSignals merges signals into the page.
func (s *SSESink) PatchSignals(signals map[string]any) error {
	return s.sse.MarshalAndPatchSignals(signals)
}

// PatchElement morphs an element into the page by its id.
func (s *SSESink) PatchElement(c templ.Component) error {
	return s.sse.PatchElementTempl(c)
}

// ExecuteScript runs a script on the page.
func (s *SSESink) ExecuteScript(script string) error {
	return s.sse.ExecuteScript(script)
}
