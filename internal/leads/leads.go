// Package leads defines the search results payload consumed by the results renderer.
package leads

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Record is one lead returned by the search collaborator. All fields are
// untrusted and must only ever be rendered as text.
type Record struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Project     string `json:"project"`
	Budget      Budget `json:"budget"`
	UnitType    string `json:"unit_type"`
	VisitStatus string `json:"visit_status"`
}

// ResultsPayload is a search response. Count is nil when the response did not
// carry one.
type ResultsPayload struct {
	Count *int     `json:"count,omitempty"`
	Leads []Record `json:"leads"`
}

// NewPayload builds a payload whose count is the number of leads.
func NewPayload(records []Record) ResultsPayload {
	n := len(records)
	return ResultsPayload{Count: &n, Leads: records}
}

// UnmarshalJSON keeps the leads and a usable count. A count that is not a
// non-negative whole number decodes as absent.
func (p *ResultsPayload) UnmarshalJSON(data []byte) error {
	var raw struct {
		Count count    `json:"count"`
		Leads []Record `json:"leads"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = ResultsPayload{Count: raw.Count.n, Leads: raw.Leads}
	return nil
}

// UnmarshalJSON decodes a lead whose text fields may arrive as any JSON value.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name        text   `json:"name"`
		Email       text   `json:"email"`
		Phone       text   `json:"phone"`
		Project     text   `json:"project"`
		Budget      Budget `json:"budget"`
		UnitType    text   `json:"unit_type"`
		VisitStatus text   `json:"visit_status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{
		Name:        string(raw.Name),
		Email:       string(raw.Email),
		Phone:       string(raw.Phone),
		Project:     string(raw.Project),
		Budget:      raw.Budget,
		UnitType:    string(raw.UnitType),
		VisitStatus: string(raw.VisitStatus),
	}
	return nil
}

// Decode reads a payload from JSON.
func Decode(r io.Reader) (ResultsPayload, error) {
	var p ResultsPayload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return ResultsPayload{}, fmt.Errorf("decode results payload: %w", err)
	}
	return p, nil
}

// Budget is a lead budget. Absent, null, non-numeric or non-finite values
// decode as an invalid budget rather than failing the whole payload.
type Budget struct {
	Amount float64
	Valid  bool
}

// NewBudget returns a valid budget.
func NewBudget(amount float64) Budget {
	return Budget{Amount: amount, Valid: true}
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (b *Budget) UnmarshalJSON(data []byte) error {
	*b = Budget{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	var text string
	switch data[0] {
	case '"':
		if err := json.Unmarshal(data, &text); err != nil {
			return nil
		}
		text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		text = string(data)
	default:
		return nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*b = NewBudget(f)
	return nil
}

// MarshalJSON writes valid budgets as numbers and invalid ones as null.
func (b Budget) MarshalJSON() ([]byte, error) {
	if !b.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(b.Amount)
}

// text is a lead field rendered as text. Strings are kept, numbers keep their
// literal form and booleans read true or false. Objects, arrays and null
// decode as empty.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	*t = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*t = text(s)
	case 't', 'f', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*t = text(data)
	}
	return nil
}

// count is a lead count. Whole numbers are kept even when written as 1.0 or
// as a numeric string.
type count struct {
	n *int
}

func (c *count) UnmarshalJSON(data []byte) error {
	c.n = nil
	var b Budget
	if err := b.UnmarshalJSON(data); err != nil || !b.Valid {
		return nil
	}
	if b.Amount < 0 || b.Amount > math.MaxInt32 || b.Amount != math.Trunc(b.Amount) {
		return nil
	}
	n := int(b.Amount)
	c.n = &n
	return nil
}
