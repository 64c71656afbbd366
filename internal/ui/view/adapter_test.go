package view

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func element(html string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html)
		return err
	})
}

func TestAdapter_FullLayout(t *testing.T) {
	a := NewAdapter(FullLayout())
	a.SetText(FilterCount, "3")
	a.SetVisible(ReadyIndicator, true)
	a.Replace(LeadsList, element(`<div id="leadsList"></div>`))
	a.ScrollIntoView(ResultsArea)
	a.ResetFields(map[string]any{"project_name": ""})

	rec := NewRecorder()
	require.NoError(t, a.Flush(rec))

	text, ok := rec.Text(FilterCount)
	assert.True(t, ok)
	assert.Equal(t, "3", text)
	shown, ok := rec.Shown(ReadyIndicator)
	assert.True(t, ok)
	assert.True(t, shown)
	assert.Equal(t, "", rec.Signals["project_name"])
	assert.Equal(t, []string{`<div id="leadsList"></div>`}, rec.Elements)
	require.Len(t, rec.Scripts, 1)
	assert.Contains(t, rec.Scripts[0], `getElementById("resultsArea")`)
	assert.Contains(t, rec.Scripts[0], `behavior: "smooth"`)
	assert.Contains(t, rec.Scripts[0], `block: "nearest"`)
	assert.True(t, a.Empty(), "flush should clear pending changes")
}

func TestAdapter_MissingSlotsAreNoOps(t *testing.T) {
	a := NewAdapter(NewLayout(FilterCount))
	a.SetText(ReadyIndicator, "x")
	a.SetVisible(ReadyIndicator, true)
	a.Replace(LeadsList, element(`<div id="leadsList"></div>`))
	a.ScrollIntoView(ResultsArea)
	a.ResetFields(map[string]any{"project_name": ""})

	assert.True(t, a.Empty())

	rec := NewRecorder()
	require.NoError(t, a.Flush(rec))
	assert.Zero(t, rec.Flushes)
	assert.Empty(t, rec.Elements)
	assert.Empty(t, rec.Scripts)
}

func TestAdapter_LastWriteWins(t *testing.T) {
	a := NewAdapter(FullLayout())
	a.SetVisible(ResultsArea, true)
	a.SetVisible(ResultsArea, false)

	rec := NewRecorder()
	require.NoError(t, a.Flush(rec))
	shown, _ := rec.Shown(ResultsArea)
	assert.False(t, shown)
}

type failingSink struct{ Recorder }

func (f *failingSink) PatchSignals(map[string]any) error { return errors.New("stream closed") }

func TestAdapter_FlushError(t *testing.T) {
	a := NewAdapter(FullLayout())
	a.SetText(FilterCount, "1")

	err := a.Flush(&failingSink{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "patch signals")
	assert.True(t, a.Empty())
}

func TestLayout(t *testing.T) {
	full := FullLayout()
	for _, id := range AllSlots {
		assert.True(t, full.Has(id), "full layout should have %s", id)
	}

	partial := full.Without(ReadyIndicator, FormError)
	assert.False(t, partial.Has(ReadyIndicator))
	assert.False(t, partial.Has(FormError))
	assert.True(t, partial.Has(FilterCount))
	assert.True(t, full.Has(ReadyIndicator), "Without must not modify the receiver")
	assert.Len(t, partial.Slots(), len(AllSlots)-2)
}

func TestParseSlot(t *testing.T) {
	id, err := ParseSlot("readyIndicator")
	require.NoError(t, err)
	assert.Equal(t, ReadyIndicator, id)

	_, err = ParseSlot("sidebar")
	assert.Error(t, err)
}

func TestSignalNames(t *testing.T) {
	assert.Equal(t, "_filterCountText", TextSignal(FilterCount))
	assert.Equal(t, "_resultsAreaShown", ShownSignal(ResultsArea))
}
