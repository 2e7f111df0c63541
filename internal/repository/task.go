package repository

import (
	"context"
	"errors"

	"github.com/jaekwang-park/taskdeck/internal/model"
)

// ErrNotFound is returned when an operation targets an id the store does
// not hold.
var ErrNotFound = errors.New("task not found")

// TaskRepository adapts the external document store. Implementations assign
// the id and both timestamps on Insert, refresh UpdatedAt on every mutation,
// and resolve DueTime tags against their own clock.
type TaskRepository interface {
	Insert(ctx context.Context, draft model.TaskDraft) (model.Task, error)
	GetByID(ctx context.Context, id string) (model.Task, error)
	// ListAll returns every task ordered ascending by CreatedAt.
	ListAll(ctx context.Context) ([]model.Task, error)
	UpdateStatus(ctx context.Context, id string, status model.Status) (model.Task, error)
	Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
	// Delete removes the task. Deleting an id the store does not hold is
	// not an error.
	Delete(ctx context.Context, id string) error
}
