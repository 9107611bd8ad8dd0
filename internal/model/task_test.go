package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/grand-thief-cash/todolist/internal/consts"
)

func TestCloneDoesNotAlias(t *testing.T) {
	d, p := "desc", consts.PriorityHigh
	orig := &Task{ID: 1, Title: "a", Description: &d, Priority: &p}
	cp := orig.Clone()
	*cp.Description = "changed"
	*cp.Priority = consts.PriorityLow
	if orig.DescriptionOf() != "desc" || orig.PriorityOf() != consts.PriorityHigh {
		t.Fatalf("clone aliased original: %+v", orig)
	}
}

func TestTaskJSONShape(t *testing.T) {
	task := Task{ID: 7, Title: "x", DueDate: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), OwnerID: 42}
	b, err := json.Marshal(task)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	for _, want := range []string{`"id":7`, `"description":null`, `"priority":null`, `"dueDate":"2024-01-01T09:00:00Z"`, `"isCompleted":false`} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %s in %s", want, s)
		}
	}
	if strings.Contains(s, "42") {
		t.Fatalf("owner id must not be serialised: %s", s)
	}
}

func TestTaskDecodesISODueDates(t *testing.T) {
	cases := map[string]time.Time{
		`"2025-06-30T10:00:00Z"`:        time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC),
		`"2025-06-30T12:00:00+02:00"`:   time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC),
		`"2025-06-30T10:00:00"`:         time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC),
		`"2025-06-30T10:00:00.1234567"`: time.Date(2025, 6, 30, 10, 0, 0, 123456700, time.UTC),
		`"2025-06-30"`:                  time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		var task Task
		if err := json.Unmarshal([]byte(`{"id":3,"title":"x","dueDate":`+raw+`}`), &task); err != nil {
			t.Fatalf("%s: %v", raw, err)
		}
		if !task.DueDate.Equal(want) || task.ID != 3 || task.Title != "x" {
			t.Fatalf("%s: got %+v", raw, task)
		}
	}

	var task Task
	if err := json.Unmarshal([]byte(`{"title":"x","dueDate":"30/06/2025"}`), &task); err == nil {
		t.Fatal("expected error for non ISO date")
	}
}

func TestDueDateEncodesRFC3339(t *testing.T) {
	b, err := json.Marshal(DueDate(time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC)))
	if err != nil || string(b) != `"2025-06-30T10:00:00Z"` {
		t.Fatalf("got %s %v", b, err)
	}
}
