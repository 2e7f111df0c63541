package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jaekwang-park/taskdeck/internal/model"
)

// MemoryTaskRepository is an in-process store for local runs and tests.
type MemoryTaskRepository struct {
	mu    sync.Mutex
	tasks map[string]model.Task
	now   func() time.Time
}

func NewMemoryTask() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		tasks: make(map[string]model.Task),
		now:   time.Now,
	}
}

// NewMemoryTaskWithClock pins the store clock, for tests.
func NewMemoryTaskWithClock(now func() time.Time) *MemoryTaskRepository {
	r := NewMemoryTask()
	r.now = now
	return r
}

func (r *MemoryTaskRepository) Insert(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	task := model.Task{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		DueAt:       draft.Due.Resolve(now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.tasks[task.ID] = task
	return task, nil
}

func (r *MemoryTaskRepository) GetByID(ctx context.Context, id string) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return task, nil
}

func (r *MemoryTaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := make([]model.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *MemoryTaskRepository) UpdateStatus(ctx context.Context, id string, status model.Status) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	task.Status = status
	task.UpdatedAt = r.now().UTC()
	r.tasks[id] = task
	return task, nil
}

func (r *MemoryTaskRepository) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	now := r.now().UTC()
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Due != nil {
		task.DueAt = patch.Due.Resolve(now)
	}
	task.UpdatedAt = now
	r.tasks[id] = task
	return task, nil
}

func (r *MemoryTaskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tasks, id)
	return nil
}

// ensure compile-time interface compliance
var _ TaskRepository = (*MemoryTaskRepository)(nil)
