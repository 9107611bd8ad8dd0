package tasklist

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/grand-thief-cash/todolist/internal/model"
)

// Visible derives the displayed list: filter, then search, then a stable sort.
func (s State) Visible(tag language.Tag) []model.Task {
	term := strings.ToLower(s.SearchTerm)
	out := make([]model.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if !matchesFilter(t, s.Filter) || !matchesSearch(t, term) {
			continue
		}
		out = append(out, *t.Clone())
	}

	switch s.SortBy {
	case SortPriority:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return b.PriorityOf().Rank() - a.PriorityOf().Rank()
		})
	case SortTitle:
		col := collate.New(tag)
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return col.CompareString(a.Title, b.Title)
		})
	default:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return a.DueDate.Compare(b.DueDate)
		})
	}
	return out
}

// Counts returns how many tasks are completed out of the total, ignoring filter and search.
func (s State) Counts() (completed, total int) {
	for _, t := range s.Tasks {
		if t.IsCompleted {
			completed++
		}
	}
	return completed, len(s.Tasks)
}

func matchesFilter(t model.Task, f Filter) bool {
	switch f {
	case FilterCompleted:
		return t.IsCompleted
	case FilterIncomplete:
		return !t.IsCompleted
	}
	return true
}

func matchesSearch(t model.Task, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.DescriptionOf()), term)
}
