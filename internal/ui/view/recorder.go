package view

import (
	"bytes"
	"context"
	"maps"

	"github.com/a-h/templ"
)

// Recorder is a Sink that keeps everything it receives. It stands in for a
// browser in tests and in offline rendering.
type Recorder struct {
	// Signals holds the merged value of every patched signal.
	Signals  map[string]any
	Elements []string
	Scripts  []string
	Flushes  int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{Signals: make(map[string]any)}
}

// PatchSignals merges signals.
func (r *Recorder) PatchSignals(signals map[string]any) error {
	maps.Copy(r.Signals, signals)
	r.Flushes++
	return nil
}

// PatchElement renders the component and stores its HTML.
func (r *Recorder) PatchElement(c templ.Component) error {
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		return err
	}
	r.Elements = append(r.Elements, buf.String())
	return nil
}

// ExecuteScript stores the script.
func (r *Recorder) ExecuteScript(script string) error {
	r.Scripts = append(r.Scripts, script)
	return nil
}

// Text returns the last text patched into a slot.
func (r *Recorder) Text(id SlotID) (string, bool) {
	v, ok := r.Signals[TextSignal(id)].(string)
	return v, ok
}

// Shown returns the last visibility patched for a slot.
func (r *Recorder) Shown(id SlotID) (bool, bool) {
	v, ok := r.Signals[ShownSignal(id)].(bool)
	return v, ok
}
