package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTest(mode Mode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"TEXT", ModeText, false},
		{"markdown", ModeMarkdown, false},
		{"json", ModeJSON, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{"auto on tty", ModeAuto, true, ModeText},
		{"auto in pipe", ModeAuto, false, ModeMarkdown},
		{"explicit json", ModeJSON, true, ModeJSON},
		{"empty means auto", "", false, ModeMarkdown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTest(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestRenderer_MarkdownOutput(t *testing.T) {
	r, out, _ := newTest(ModeAuto, false)
	r.Header(1, "Filters")
	r.KeyValue("Active", "2")
	r.Table([]string{"Group", "Active"}, [][]string{{"project", "yes"}})

	s := out.String()
	assert.Contains(t, s, "# Filters\n")
	assert.Contains(t, s, "- **Active:** 2\n")
	assert.Contains(t, s, "| Group | Active |")
	assert.Contains(t, s, "| project | yes |")
}

func TestRenderer_TextOutputWithoutColorWhenPiped(t *testing.T) {
	r, out, errOut := newTest(ModeText, false)
	r.Header(2, "Filters")
	r.Success("allowed")
	r.Error("blocked")
	r.Table([]string{"Group"}, [][]string{{"project"}})

	assert.NotContains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "Filters")
	assert.Contains(t, out.String(), "✓ allowed")
	assert.Contains(t, out.String(), "┌")
	assert.Contains(t, errOut.String(), "✗ blocked")
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTest(ModeJSON, false)
	require.NoError(t, r.JSON(map[string]int{"count": 2}))
	assert.Equal(t, "{\n  \"count\": 2\n}\n", out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Runs", FormatHeader(2, "Runs"))
	assert.True(t, strings.HasPrefix(FormatKeyValue("a", "b"), "- **a:**"))
}
