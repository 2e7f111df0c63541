package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jaekwang-park/taskdeck/internal/model"
	"github.com/jaekwang-park/taskdeck/internal/repository"
)

// parseDue parses a due-date string: RFC3339, or the local-datetime form
// produced by form inputs.
func parseDue(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(model.DueInputLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid dueDate format", ErrInvalidInput)
	}
	return t, nil
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      model.Status
	DueAt       *string // nil means "assign the store's current time"
}

// UpdateTaskInput is the partial-update contract. Nil fields are left
// untouched; a non-nil empty DueAt clears the due date to an explicit null.
type UpdateTaskInput struct {
	Description *string
	DueAt       *string
}

// TaskService is the persistence gateway: it validates input before any
// store call, logs store failures at the boundary, and propagates them
// unchanged in meaning. It adds no retries, timeouts, or backoff.
type TaskService struct {
	repo   repository.TaskRepository
	logger *slog.Logger
}

func NewTaskService(repo repository.TaskRepository, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{repo: repo, logger: logger}
}

func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !input.Status.IsValid() {
		return model.Task{}, fmt.Errorf("%w: status must be one of %s", ErrInvalidInput, model.StatusList())
	}

	due := model.DueServerNow()
	if input.DueAt != nil {
		t, err := parseDue(*input.DueAt)
		if err != nil {
			return model.Task{}, err
		}
		due = model.DueAt(t)
	}

	created, err := s.repo.Insert(ctx, model.TaskDraft{
		Title:       title,
		Description: input.Description,
		Status:      input.Status,
		Due:         due,
	})
	if err != nil {
		s.logger.Error("create task failed", "error", err)
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

// GetByID returns nil without error when the id is unknown.
func (s *TaskService) GetByID(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("get task failed", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// List returns every task ordered ascending by creation time.
func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("list tasks failed", "error", err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) UpdateStatus(ctx context.Context, id string, status model.Status) (model.Task, error) {
	if !status.IsValid() {
		return model.Task{}, fmt.Errorf("%w: status must be one of %s", ErrInvalidInput, model.StatusList())
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Task{}, ErrNotFound
		}
		s.logger.Error("update task status failed", "id", id, "error", err)
		return model.Task{}, fmt.Errorf("failed to update task status: %w", err)
	}
	return updated, nil
}

// Update applies a partial update. Title and status are not re-validated
// here; only the dedicated operations do that.
func (s *TaskService) Update(ctx context.Context, id string, input UpdateTaskInput) (model.Task, error) {
	patch := model.TaskPatch{Description: input.Description}
	if input.DueAt != nil {
		due := model.DueNone()
		if *input.DueAt != "" {
			t, err := parseDue(*input.DueAt)
			if err != nil {
				return model.Task{}, err
			}
			due = model.DueAt(t)
		}
		patch.Due = &due
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Task{}, ErrNotFound
		}
		s.logger.Error("update task failed", "id", id, "error", err)
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete task failed", "id", id, "error", err)
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
