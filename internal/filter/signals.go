package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UnmarshalJSON decodes a snapshot from datastar signals. Bound inputs may arrive
// as strings, numbers, booleans, null or arrays depending on how the page
// initialised them, so every field is normalised to text. Unknown signals are ignored.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode filter signals: %w", err)
	}

	out := Empty()
	var err error
	scalar := func(key string, dst *string) {
		if err != nil {
			return
		}
		if msg, ok := raw[key]; ok {
			*dst, err = scalarText(msg)
			if err != nil {
				err = fmt.Errorf("signal %s: %w", key, err)
			}
		}
	}
	list := func(key string, dst *[]string) {
		if err != nil {
			return
		}
		if msg, ok := raw[key]; ok {
			*dst, err = listText(msg)
			if err != nil {
				err = fmt.Errorf("signal %s: %w", key, err)
			}
		}
	}

	scalar(FieldProjectName, &out.ProjectName)
	scalar(FieldMinBudget, &out.MinBudget)
	scalar(FieldMaxBudget, &out.MaxBudget)
	list(FieldUnitType, &out.UnitTypes)
	list(FieldLeadStatus, &out.LeadStatuses)
	scalar(FieldFromDate, &out.FromDate)
	scalar(FieldToDate, &out.ToDate)
	if err != nil {
		return err
	}

	*s = out
	return nil
}

// scalarText renders a JSON scalar as the text an input would hold.
// false and null are empty.
func scalarText(msg json.RawMessage) (string, error) {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 {
		return "", nil
	}
	switch msg[0] {
	case 'n':
		return "", nil
	case 't':
		return "true", nil
	case 'f':
		return "", nil
	case '"':
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return "", err
		}
		return s, nil
	case '[', '{':
		return "", fmt.Errorf("expected a scalar, got %s", kindOf(msg[0]))
	default:
		var n json.Number
		if err := json.Unmarshal(msg, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}

// listText decodes a checkbox group. A single scalar is treated as a one-element
// group; empty values are dropped.
func listText(msg json.RawMessage) ([]string, error) {
	msg = bytes.TrimSpace(msg)
	if len(msg) > 0 && msg[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(msg, &items); err != nil {
			return nil, err
		}
		out := make([]string, 0, len(items))
		for i, item := range items {
			v, err := scalarText(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			if v != "" {
				out = append(out, v)
			}
		}
		return out, nil
	}

	v, err := scalarText(msg)
	if err != nil {
		return nil, err
	}
	if v == "" {
		return []string{}, nil
	}
	return []string{v}, nil
}

func kindOf(b byte) string {
	if b == '[' {
		return "array"
	}
	return "object"
}

// Signals returns the snapshot as a signals map suitable for patching the form.
func (s Snapshot) Signals() map[string]any {
	units := nonEmpty(s.UnitTypes)
	statuses := nonEmpty(s.LeadStatuses)
	return map[string]any{
		FieldProjectName: s.ProjectName,
		FieldMinBudget:   s.MinBudget,
		FieldMaxBudget:   s.MaxBudget,
		FieldUnitType:    units,
		FieldLeadStatus:  statuses,
		FieldFromDate:    s.FromDate,
		FieldToDate:      s.ToDate,
	}
}
