package model

import (
	"strings"
	"time"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses returns the allowed status values in display order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// StatusList returns the allowed values joined for error messages,
// e.g. "todo, in_progress, done".
func StatusList() string {
	vals := Statuses()
	strs := make([]string, len(vals))
	for i, s := range vals {
		strs[i] = string(s)
	}
	return strings.Join(strs, ", ")
}

func (s Status) IsValid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// Next cycles through the statuses in order, wrapping around.
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusTodo
	}
}

// Label returns the human-readable form, e.g. "In Progress".
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

type Task struct {
	ID          string     `json:"id" dynamodbav:"id"`
	Title       string     `json:"title" dynamodbav:"title"`
	Description string     `json:"description" dynamodbav:"description"`
	Status      Status     `json:"status" dynamodbav:"status"`
	DueAt       *time.Time `json:"due_at,omitempty" dynamodbav:"due_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" dynamodbav:"updated_at"`
}

// TaskDraft is the caller-supplied portion of a new task. The store assigns
// the id and both timestamps on insert.
type TaskDraft struct {
	Title       string
	Description string
	Status      Status
	Due         DueTime
}

// TaskPatch is a partial update. Nil fields are left untouched; a non-nil
// Due carrying neither an instant nor the server-now sentinel clears the
// due date to an explicit null.
type TaskPatch struct {
	Description *string
	Due         *DueTime
}
