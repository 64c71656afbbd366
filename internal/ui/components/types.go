// Package components holds the templ components of the shortlist UI. All
// dynamic text goes through templ escaping.
package components

import (
	"encoding/json"
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/shortlist/internal/filter"
	"github.com/leapstack-labs/shortlist/internal/ui/view"
)

const (
	datastarScript  = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"
	flatpickrScript = "https://cdn.jsdelivr.net/npm/flatpickr"
	flatpickrStyle  = "https://cdn.jsdelivr.net/npm/flatpickr/dist/flatpickr.min.css"
	datePlaceholder = "Month D, YYYY"
	readyDisplay    = "flex"
	blockDisplay    = "block"
)

// RunsTableID is the DOM id of the run history table, patched on updates.
const RunsTableID = "runsTable"

// Options are the choices offered by the filter form.
type Options struct {
	Projects     []string
	UnitTypes    []string
	LeadStatuses []string
}

// Actions are the endpoints the page posts to.
type Actions struct {
	Count  string
	Submit string
	Clear  string
	Form   string
	Reload string
	Runs   string
}

// Results is the server-rendered state of the results area.
type Results struct {
	Shown   bool
	Message string
	Count   string // empty when unknown
	Cards   []Card
}

// PageData holds everything the shortlist page renders.
type PageData struct {
	Title     string
	IsDev     bool
	Layout    view.Layout
	Values    filter.Snapshot
	State     filter.State
	Options   Options
	Actions   Actions
	FormError string
	Results   Results
}

// InitialSignals returns the signals the page starts with: the form fields and
// the text and visibility of every slot.
func (d PageData) InitialSignals() map[string]any {
	signals := d.Values.Signals()
	signals[view.TextSignal(view.FilterCount)] = strconv.Itoa(d.State.Count)
	signals[view.ShownSignal(view.ReadyIndicator)] = d.State.HasAnyActive
	signals[view.TextSignal(view.FormError)] = d.FormError
	signals[view.ShownSignal(view.FormError)] = d.FormError != ""
	signals[view.ShownSignal(view.ResultsArea)] = d.Results.Shown
	signals[view.TextSignal(view.ResultsMessage)] = d.Results.Message
	signals[view.ShownSignal(view.ResultsMessage)] = d.Results.Message != ""
	signals[view.TextSignal(view.LeadCount)] = d.Results.Count
	return signals
}

func (d PageData) signalsJSON() (string, error) {
	b, err := json.Marshal(d.InitialSignals())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// attached reports whether the page has a filter form to listen on.
func (d PageData) attached() bool {
	return d.Layout.Has(view.FilterForm)
}

// Card is a lead prepared for display. Values are plain text.
type Card struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Project     string `json:"project"`
	Budget      string `json:"budget"`
	UnitType    string `json:"unit_type"`
	VisitStatus string `json:"visit_status"`
}

type cardField struct {
	label string
	value string
}

func (c Card) fields() []cardField {
	return []cardField{
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Project", c.Project},
		{"Budget", c.Budget},
		{"Unit Type", c.UnitType},
		{"Status", c.VisitStatus},
	}
}

// RunRow is a recorded run prepared for display. Values are plain text.
type RunRow struct {
	ID        string
	CreatedAt string
	Status    string
	Active    string
	Leads     string
	Filters   string
	Error     string
}

// RunsPageData holds everything the run history page renders.
type RunsPageData struct {
	Title   string
	IsDev   bool
	Reload  string
	Updates string // SSE endpoint streaming table patches; empty disables
	Rows    []RunRow
}

func (r RunRow) cells() []string {
	return []string{r.ID, r.CreatedAt, r.Status, r.Active, r.Leads, r.Filters}
}

func (r RunRow) attrs() templ.Attributes {
	attrs := templ.Attributes{"class": "run-" + r.Status}
	if r.Error != "" {
		attrs["title"] = r.Error
	}
	return attrs
}

func post(path string) string {
	return "@post('" + path + "')"
}

// stream opens a long-lived SSE request that survives hidden tabs.
func stream(path string) string {
	return "@get('" + path + "', {openWhenHidden: true})"
}

func textSignal(id view.SlotID) string {
	return "$" + view.TextSignal(id)
}

func shownSignal(id view.SlotID) string {
	return "$" + view.ShownSignal(id)
}

// visibility is the initial inline display of a slot toggled by data-show.
func visibility(shown bool, display string) templ.Attributes {
	if shown {
		return templ.Attributes{"style": "display: " + display}
	}
	return templ.Attributes{"style": "display: none"}
}

// inputAttrs keeps extra input attributes in the order given.
func inputAttrs(kv ...string) templ.OrderedAttributes {
	attrs := make(templ.OrderedAttributes, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, templ.KeyValue[string, any]{Key: kv[i], Value: kv[i+1]})
	}
	return attrs
}
