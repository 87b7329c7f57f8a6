// Package task holds the task domain: the entity, its enumerations, the
// filter used to query tasks and the pure query/stats logic over them.
package task

import (
	"fmt"
	"time"
)

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// DefaultPriority is assigned when a task is created without one.
const DefaultPriority = PriorityMedium

// ParsePriority converts s to a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank orders priorities from low (0) to urgent (3). Unknown values rank -1.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityUrgent:
		return 3
	}
	return -1
}

// Status is the workflow state of a task. It is tracked independently of
// Task.Completed.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// DefaultStatus is assigned when a task is created without one.
const DefaultStatus = StatusTodo

// ParseStatus converts s to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Task is a personal to-do item owned by a single user.
type Task struct {
	ID          string     `gorm:"primarykey;size:36" json:"id"`
	UserID      string     `gorm:"size:64;not null;index" json:"user_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description *string    `gorm:"size:1000" json:"description,omitempty"`
	Completed   bool       `gorm:"not null;default:false;index" json:"completed"`
	Priority    Priority   `gorm:"size:16;not null;default:medium" json:"priority"`
	Status      Status     `gorm:"size:16;not null;default:todo" json:"status"`
	DueDate     *time.Time `gorm:"index" json:"due_date,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime:false;not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime:false;not null" json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
