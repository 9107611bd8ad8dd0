package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/grand-thief-cash/todolist/internal/consts"
	"github.com/grand-thief-cash/todolist/internal/model"
)

const dueLayout = "02/01/2006 15:04"

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	todayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	laterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	titleDone    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("245"))

	priorityStyles = map[consts.Priority]lipgloss.Style{
		consts.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		consts.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		consts.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
)

type dueState int

const (
	dueLater dueState = iota
	dueToday
	dueOverdue
	dueDone
)

// classifyDue: completed wins, then past days, then today.
func classifyDue(t model.Task, now time.Time) dueState {
	if t.IsCompleted {
		return dueDone
	}
	due := t.DueDate.In(now.Location())
	if sameDay(due, now) {
		return dueToday
	}
	if due.Before(now) {
		return dueOverdue
	}
	return dueLater
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dueStyle(s dueState) lipgloss.Style {
	switch s {
	case dueDone:
		return doneStyle
	case dueOverdue:
		return overdueStyle
	case dueToday:
		return todayStyle
	}
	return laterStyle
}

func renderTasks(tasks []model.Task, done, total int, now time.Time) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%d of %d completed", done, total)))
	b.WriteByte('\n')
	if len(tasks) == 0 {
		b.WriteString("No tasks found.\n")
		return b.String()
	}

	idWidth := 0
	for _, t := range tasks {
		idWidth = max(idWidth, len(strconv.FormatInt(t.ID, 10))+1)
	}
	for _, t := range tasks {
		b.WriteString(renderTask(t, idWidth, now))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderTask(t model.Task, idWidth int, now time.Time) string {
	check := "[ ]"
	title := t.Title
	if t.IsCompleted {
		check = "[x]"
		title = titleDone.Render(title)
	}
	state := classifyDue(t, now)
	due := t.DueDate.In(now.Location()).Format(dueLayout)
	if state == dueOverdue {
		due += " overdue"
	}

	parts := []string{
		check,
		fmt.Sprintf("%-*s", idWidth, "#"+strconv.FormatInt(t.ID, 10)),
		dueStyle(state).Render(fmt.Sprintf("%-24s", due)),
		priorityMark(t.PriorityOf()),
		title,
	}
	line := strings.Join(parts, " ")
	if d := t.DescriptionOf(); d != "" {
		line += "\n" + strings.Repeat(" ", 4+idWidth+1) + laterStyle.Render(d)
	}
	return line
}

// priorityMark is a coloured star plus the padded priority name.
func priorityMark(p consts.Priority) string {
	style, ok := priorityStyles[p]
	if !ok {
		return laterStyle.Render(fmt.Sprintf("  %-6s", "-"))
	}
	return style.Render(fmt.Sprintf("★ %-6s", p))
}
