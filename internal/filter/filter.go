// Package filter defines the shortlist filter groups and the pure computation of
// how many of them are active for a snapshot of the form.
package filter

import (
	"net/url"
	"strings"
)

// Form field names. These match the input names of the filter form.
const (
	FieldProjectName = "project_name"
	FieldMinBudget   = "min_budget"
	FieldMaxBudget   = "max_budget"
	FieldUnitType    = "unit_type"
	FieldLeadStatus  = "lead_status"
	FieldFromDate    = "from_date"
	FieldToDate      = "to_date"
)

// Fields lists every form field in display order.
var Fields = []string{
	FieldProjectName,
	FieldMinBudget,
	FieldMaxBudget,
	FieldUnitType,
	FieldLeadStatus,
	FieldFromDate,
	FieldToDate,
}

// GroupName identifies a logical filter.
type GroupName string

// Filter groups.
const (
	GroupProject     GroupName = "project"
	GroupBudgetRange GroupName = "budgetRange"
	GroupUnitType    GroupName = "unitType"
	GroupLeadStatus  GroupName = "leadStatus"
	GroupDateRange   GroupName = "dateRange"
)

// Snapshot holds the values of the filter form at one point in time.
type Snapshot struct {
	ProjectName  string   `json:"project_name"`
	MinBudget    string   `json:"min_budget"`
	MaxBudget    string   `json:"max_budget"`
	UnitTypes    []string `json:"unit_type"`
	LeadStatuses []string `json:"lead_status"`
	FromDate     string   `json:"from_date"`
	ToDate       string   `json:"to_date"`
}

// Group is one logical filter backed by one or more form fields.
type Group struct {
	Name   GroupName
	Fields []string
	values func(Snapshot) []string
}

// Active reports whether any constituent value of the group is non-empty.
func (g Group) Active(s Snapshot) bool {
	for _, v := range g.values(s) {
		if v != "" {
			return true
		}
	}
	return false
}

// Groups is the single definition of the five filter groups, in display order.
// Both the live counter and the submission gate count against this table.
var Groups = []Group{
	{
		Name:   GroupProject,
		Fields: []string{FieldProjectName},
		values: func(s Snapshot) []string { return []string{s.ProjectName} },
	},
	{
		Name:   GroupBudgetRange,
		Fields: []string{FieldMinBudget, FieldMaxBudget},
		values: func(s Snapshot) []string { return []string{s.MinBudget, s.MaxBudget} },
	},
	{
		Name:   GroupUnitType,
		Fields: []string{FieldUnitType},
		values: func(s Snapshot) []string { return s.UnitTypes },
	},
	{
		Name:   GroupLeadStatus,
		Fields: []string{FieldLeadStatus},
		values: func(s Snapshot) []string { return s.LeadStatuses },
	},
	{
		Name:   GroupDateRange,
		Fields: []string{FieldFromDate, FieldToDate},
		values: func(s Snapshot) []string { return []string{s.FromDate, s.ToDate} },
	},
}

// State is the derived filter state of a snapshot.
type State struct {
	Count        int
	HasAnyActive bool
}

// ActiveCount returns how many filter groups are active, in [0, len(Groups)].
func ActiveCount(s Snapshot) int {
	count := 0
	for _, g := range Groups {
		if g.Active(s) {
			count++
		}
	}
	return count
}

// Evaluate computes the filter state of a snapshot.
func Evaluate(s Snapshot) State {
	count := ActiveCount(s)
	return State{Count: count, HasAnyActive: count > 0}
}

// Active returns the names of the active groups in display order.
func Active(s Snapshot) []GroupName {
	var names []GroupName
	for _, g := range Groups {
		if g.Active(s) {
			names = append(names, g.Name)
		}
	}
	return names
}

// FromValues builds a snapshot from submitted form values.
func FromValues(v url.Values) Snapshot {
	return Snapshot{
		ProjectName:  v.Get(FieldProjectName),
		MinBudget:    v.Get(FieldMinBudget),
		MaxBudget:    v.Get(FieldMaxBudget),
		UnitTypes:    nonEmpty(v[FieldUnitType]),
		LeadStatuses: nonEmpty(v[FieldLeadStatus]),
		FromDate:     v.Get(FieldFromDate),
		ToDate:       v.Get(FieldToDate),
	}
}

// ParseQuery builds a snapshot from a url-encoded query such as
// "project_name=Skyline&unit_type=Studio".
func ParseQuery(query string) (Snapshot, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return Snapshot{}, err
	}
	return FromValues(v), nil
}

// Values encodes the snapshot as form values. Empty fields are omitted.
func (s Snapshot) Values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set(FieldProjectName, s.ProjectName)
	set(FieldMinBudget, s.MinBudget)
	set(FieldMaxBudget, s.MaxBudget)
	for _, u := range nonEmpty(s.UnitTypes) {
		v.Add(FieldUnitType, u)
	}
	for _, ls := range nonEmpty(s.LeadStatuses) {
		v.Add(FieldLeadStatus, ls)
	}
	set(FieldFromDate, s.FromDate)
	set(FieldToDate, s.ToDate)
	return v
}

// Empty returns the snapshot of a reset form.
func Empty() Snapshot {
	return Snapshot{UnitTypes: []string{}, LeadStatuses: []string{}}
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
