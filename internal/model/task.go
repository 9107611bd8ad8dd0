package model

import (
	"time"

	"github.com/grand-thief-cash/todolist/internal/consts"
)

type Task struct {
	ID          int64            `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string           `json:"title" gorm:"size:200;not null"`
	Description *string          `json:"description"`
	DueDate     time.Time        `json:"dueDate" gorm:"not null"`
	IsCompleted bool             `json:"isCompleted" gorm:"not null;default:false"`
	Priority    *consts.Priority `json:"priority" gorm:"size:16"`
	OwnerID     int64            `json:"-" gorm:"index;not null"`
}

func (Task) TableName() string { return "tasks" }

// Clone returns a deep copy so stored rows are never aliased by callers.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	cp := *t
	if t.Description != nil {
		d := *t.Description
		cp.Description = &d
	}
	if t.Priority != nil {
		p := *t.Priority
		cp.Priority = &p
	}
	return &cp
}

// PriorityOf returns the priority value or "" when absent.
func (t *Task) PriorityOf() consts.Priority {
	if t.Priority == nil {
		return ""
	}
	return *t.Priority
}

// DescriptionOf returns the description or "" when absent.
func (t *Task) DescriptionOf() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}
