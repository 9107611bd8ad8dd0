package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// dueDateLayouts are tried in order; layouts without an offset parse as UTC.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// ParseDueDate accepts the ISO-8601 forms clients send for dueDate.
func ParseDueDate(raw string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("dueDate %q is not an ISO-8601 date", raw)
}

// DueDate decodes leniently and always encodes as RFC3339.
type DueDate time.Time

func (d *DueDate) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("dueDate: %w", err)
	}
	t, err := ParseDueDate(raw)
	if err != nil {
		return err
	}
	*d = DueDate(t)
	return nil
}

func (d DueDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(time.RFC3339Nano))
}

// UnmarshalJSON lets Task read any dueDate form DueDate accepts.
func (t *Task) UnmarshalJSON(b []byte) error {
	type plain Task
	aux := struct {
		*plain
		DueDate DueDate `json:"dueDate"`
	}{plain: (*plain)(t), DueDate: DueDate(t.DueDate)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	t.DueDate = time.Time(aux.DueDate)
	return nil
}
