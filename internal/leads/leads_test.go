package leads

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	input := `{
		"count": 2,
		"leads": [
			{"name": "Asha Rao", "email": "asha@example.com", "phone": "+971 50 123 4567",
			 "project": "Sobha Waves", "budget": 1250000, "unit_type": "2 bed", "visit_status": "Visit scheduled"},
			{"name": "Omar", "budget": "n/a"}
		]
	}`

	p, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	require.NotNil(t, p.Count)
	assert.Equal(t, 2, *p.Count)
	require.Len(t, p.Leads, 2)
	assert.Equal(t, "Asha Rao", p.Leads[0].Name)
	assert.Equal(t, NewBudget(1250000), p.Leads[0].Budget)
	assert.Equal(t, "Visit scheduled", p.Leads[0].VisitStatus)
	assert.False(t, p.Leads[1].Budget.Valid)
	assert.Empty(t, p.Leads[1].Email)
}

func TestDecode_NoCount(t *testing.T) {
	p, err := Decode(strings.NewReader(`{"leads": []}`))
	require.NoError(t, err)
	assert.Nil(t, p.Count)
	assert.Empty(t, p.Leads)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"leads": [`))
	assert.Error(t, err)
}

func TestDecode_LooseFieldTypes(t *testing.T) {
	input := `{
		"count": 1.0,
		"leads": [
			{"name": {"first": "Asha"}, "email": null, "phone": 5551234, "project": ["Altura"],
			 "budget": "900,000", "unit_type": 2, "visit_status": true}
		]
	}`

	p, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	require.NotNil(t, p.Count)
	assert.Equal(t, 1, *p.Count)
	require.Len(t, p.Leads, 1)
	assert.Equal(t, Record{
		Phone:       "5551234",
		Budget:      NewBudget(900000),
		UnitType:    "2",
		VisitStatus: "true",
	}, p.Leads[0])
}

func TestRecord_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"string", `"+971 50 123"`, "+971 50 123"},
		{"integer", `5551234`, "5551234"},
		{"negative", `-7`, "-7"},
		{"fraction", `12.50`, "12.50"},
		{"true", `true`, "true"},
		{"false", `false`, "false"},
		{"null", `null`, ""},
		{"object", `{"cc": "971"}`, ""},
		{"array", `["a", "b"]`, ""},
		{"markup stays text", `"<b>x</b>"`, "<b>x</b>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			require.NoError(t, json.Unmarshal([]byte(`{"phone": `+tt.input+`}`), &r))
			assert.Equal(t, tt.want, r.Phone)
		})
	}
}

func TestResultsPayload_UnmarshalCount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *int
	}{
		{"integer", `3`, intPtr(3)},
		{"whole float", `1.0`, intPtr(1)},
		{"exponent", `2e1`, intPtr(20)},
		{"numeric string", `"3"`, intPtr(3)},
		{"zero", `0`, intPtr(0)},
		{"fraction", `1.5`, nil},
		{"negative", `-1`, nil},
		{"text", `"many"`, nil},
		{"boolean", `true`, nil},
		{"object", `{"n": 1}`, nil},
		{"null", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(strings.NewReader(`{"count": ` + tt.input + `, "leads": [{"name": "a"}]}`))
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Count)
			require.Len(t, p.Leads, 1)
			assert.Equal(t, "a", p.Leads[0].Name)
		})
	}
}

func intPtr(n int) *int {
	return &n
}

func TestBudget_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Budget
	}{
		{"integer", `500000`, NewBudget(500000)},
		{"fraction", `1234.5`, NewBudget(1234.5)},
		{"negative", `-10`, NewBudget(-10)},
		{"numeric string", `"750000"`, NewBudget(750000)},
		{"grouped string", `"1,500,000"`, NewBudget(1500000)},
		{"null", `null`, Budget{}},
		{"text", `"call me"`, Budget{}},
		{"boolean", `true`, Budget{}},
		{"object", `{"min": 1}`, Budget{}},
		{"empty string", `""`, Budget{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Budget
			require.NoError(t, json.Unmarshal([]byte(tt.input), &b))
			assert.Equal(t, tt.want, b)
		})
	}
}

func TestBudget_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Record{Name: "a", Budget: NewBudget(42)})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"budget":42`)

	out, err = json.Marshal(Record{Name: "b"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"budget":null`)
}

func TestNewPayload(t *testing.T) {
	p := NewPayload([]Record{{Name: "a"}, {Name: "b"}})
	require.NotNil(t, p.Count)
	assert.Equal(t, 2, *p.Count)
}

func TestFormatter_Budget(t *testing.T) {
	f := DefaultFormatter()

	tests := []struct {
		name   string
		budget Budget
		want   string
	}{
		{"thousands", NewBudget(500000), "$500,000"},
		{"millions", NewBudget(1250000), "$1,250,000"},
		{"small", NewBudget(950), "$950"},
		{"zero", NewBudget(0), "$0"},
		{"negative", NewBudget(-2500), "-$2,500"},
		{"negative fraction", NewBudget(-0.5), "-$0.5"},
		{"invalid", Budget{}, "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Budget(tt.budget))
		})
	}
}

func TestNewFormatter(t *testing.T) {
	f, err := NewFormatter("", "AED ")
	require.NoError(t, err)
	assert.Equal(t, "AED 2,000,000", f.Budget(NewBudget(2000000)))

	_, err = NewFormatter("not a locale!!", "$")
	assert.Error(t, err)
}
