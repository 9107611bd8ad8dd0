// Package tasklist holds the client view state as an explicit value with pure
// transitions, and a Controller that applies them after each API call succeeds.
package tasklist

import (
	"slices"
	"time"

	"github.com/grand-thief-cash/todolist/internal/consts"
	"github.com/grand-thief-cash/todolist/internal/model"
)

type Filter string

const (
	FilterAll        Filter = "all"
	FilterCompleted  Filter = "completed"
	FilterIncomplete Filter = "incomplete"
)

func (f Filter) Valid() bool {
	return f == FilterAll || f == FilterCompleted || f == FilterIncomplete
}

type SortBy string

const (
	SortDueDate  SortBy = "dueDate"
	SortPriority SortBy = "priority"
	SortTitle    SortBy = "title"
)

func (s SortBy) Valid() bool {
	return s == SortDueDate || s == SortPriority || s == SortTitle
}

type FormData struct {
	Title       string
	Description string
	DueDate     time.Time
	IsCompleted bool
	Priority    consts.Priority
}

// DefaultForm is the empty form: due at the start of today, medium priority.
func DefaultForm(now time.Time) FormData {
	y, m, d := now.Date()
	return FormData{
		DueDate:  time.Date(y, m, d, 0, 0, 0, 0, now.Location()),
		Priority: consts.PriorityMedium,
	}
}

// FormFromTask copies a task's editable fields.
func FormFromTask(t model.Task) FormData {
	return FormData{
		Title:       t.Title,
		Description: t.DescriptionOf(),
		DueDate:     t.DueDate,
		IsCompleted: t.IsCompleted,
		Priority:    t.PriorityOf(),
	}
}

// Task builds the payload for create (id 0) or update.
func (f FormData) Task(id int64) model.Task {
	t := model.Task{ID: id, Title: f.Title, DueDate: f.DueDate, IsCompleted: f.IsCompleted}
	if f.Description != "" {
		d := f.Description
		t.Description = &d
	}
	if f.Priority != "" {
		p := f.Priority
		t.Priority = &p
	}
	return t
}

type State struct {
	Tasks        []model.Task
	Filter       Filter
	SearchTerm   string
	SortBy       SortBy
	EditingTask  *model.Task
	FormData     FormData
	ShowFullForm bool
	FormError    string
}

func NewState(now time.Time) State {
	return State{
		Filter:   FilterAll,
		SortBy:   SortDueDate,
		FormData: DefaultForm(now),
	}
}

// Every transition below returns a new State and never mutates the receiver's slices.

func (s State) Loaded(tasks []model.Task) State {
	s.Tasks = cloneTasks(tasks)
	return s
}

func (s State) WithFilter(f Filter) State {
	s.Filter = f
	return s
}

func (s State) WithSearch(term string) State {
	s.SearchTerm = term
	return s
}

func (s State) WithSort(by SortBy) State {
	s.SortBy = by
	return s
}

func (s State) WithForm(f FormData) State {
	s.FormData = f
	return s
}

func (s State) FormShown() State {
	s.ShowFullForm = true
	return s
}

func (s State) FormFailed(msg string) State {
	s.FormError = msg
	return s
}

// Added appends the created task and resets the form.
func (s State) Added(t model.Task, now time.Time) State {
	s.Tasks = append(cloneTasks(s.Tasks), *t.Clone())
	return s.formReset(now)
}

// Replaced swaps the task with the same id and leaves edit mode.
func (s State) Replaced(t model.Task, now time.Time) State {
	tasks := cloneTasks(s.Tasks)
	for i := range tasks {
		if tasks[i].ID == t.ID {
			tasks[i] = *t.Clone()
		}
	}
	s.Tasks = tasks
	return s.formReset(now)
}

func (s State) Toggled(id int64) State {
	tasks := cloneTasks(s.Tasks)
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].IsCompleted = !tasks[i].IsCompleted
		}
	}
	s.Tasks = tasks
	return s
}

func (s State) Removed(id int64) State {
	s.Tasks = slices.DeleteFunc(cloneTasks(s.Tasks), func(t model.Task) bool { return t.ID == id })
	return s
}

func (s State) EditStarted(t model.Task) State {
	s.EditingTask = t.Clone()
	s.FormData = FormFromTask(t)
	s.ShowFullForm = true
	s.FormError = ""
	return s
}

func (s State) EditCancelled(now time.Time) State {
	return s.formReset(now)
}

func (s State) formReset(now time.Time) State {
	s.EditingTask = nil
	s.FormData = DefaultForm(now)
	s.ShowFullForm = false
	s.FormError = ""
	return s
}

// Find returns a copy of the task with id.
func (s State) Find(id int64) (model.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return *t.Clone(), true
		}
	}
	return model.Task{}, false
}

func cloneTasks(in []model.Task) []model.Task {
	out := make([]model.Task, len(in))
	for i := range in {
		out[i] = *in[i].Clone()
	}
	return out
}
