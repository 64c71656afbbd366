package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/shortlist/internal/filter"
)

func TestGuard_Evaluate(t *testing.T) {
	snapshots := []filter.Snapshot{
		filter.Empty(),
		{ProjectName: "Skyline"},
		{ProjectName: "Skyline", MinBudget: "500000"},
		{ProjectName: "Skyline", MinBudget: "500000", UnitTypes: []string{"Studio"}},
		{ProjectName: "Skyline", MinBudget: "500000", UnitTypes: []string{"Studio"}, LeadStatuses: []string{"Connected"}},
		{ProjectName: "Skyline", MinBudget: "500000", UnitTypes: []string{"Studio"}, LeadStatuses: []string{"Connected"}, ToDate: "May 1, 2025"},
	}

	g := Guard{}
	for count, s := range snapshots {
		d := g.Evaluate(s)
		assert.Equal(t, count, d.Count)
		assert.Equal(t, DefaultMinActive, d.MinActive)
		if count < 2 {
			assert.Equal(t, Blocked, d.State, "count %d", count)
			assert.False(t, d.Allowed())
		} else {
			assert.Equal(t, Allowed, d.State, "count %d", count)
			assert.True(t, d.Allowed())
		}
	}
}

func TestGuard_NoMemoryBetweenAttempts(t *testing.T) {
	g := New(2)

	assert.Equal(t, Allowed, g.Evaluate(filter.Snapshot{ProjectName: "a", MaxBudget: "1"}).State)
	assert.Equal(t, Blocked, g.Evaluate(filter.Snapshot{ProjectName: "a"}).State)
	assert.Equal(t, Allowed, g.Evaluate(filter.Snapshot{ProjectName: "a", FromDate: "x"}).State)
}

func TestGuard_CustomThreshold(t *testing.T) {
	g := New(3)
	d := g.Evaluate(filter.Snapshot{ProjectName: "a", MaxBudget: "1"})

	assert.Equal(t, Blocked, d.State)
	assert.Equal(t, 3, d.MinActive)
	assert.Equal(t, "Please select at least 3 filters before shortlisting.", g.Message())
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Please select at least 2 filters before shortlisting.", Guard{}.Message())
	assert.Equal(t, "Please select at least 1 filter before shortlisting.", MessageFor(1))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "blocked", Blocked.String())
	assert.Equal(t, "allowed", Allowed.String())
	assert.Equal(t, "State(7)", State(7).String())
}
