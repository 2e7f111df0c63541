package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jaekwang-park/taskdeck/internal/model"
)

type PostgresTaskRepository struct {
	db *sql.DB
}

func NewPostgresTask(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) Insert(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	// now() resolves the server-now due sentinel and both timestamps on the
	// database side, in a single statement.
	query := `
		INSERT INTO tasks (title, description, status, due_at)
		VALUES ($1, $2, $3, COALESCE($4, CASE WHEN $5 THEN now() END))
		RETURNING id, title, description, status, due_at, created_at, updated_at`

	var explicitDue any
	if t, ok := draft.Due.Instant(); ok {
		explicitDue = t
	}

	row := r.db.QueryRowContext(ctx, query,
		draft.Title, draft.Description, draft.Status, explicitDue, draft.Due.IsServerNow(),
	)
	return scanTask(row)
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, id string) (model.Task, error) {
	query := `
		SELECT id, title, description, status, due_at, created_at, updated_at
		FROM tasks
		WHERE id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, err
	}
	return task, nil
}

func (r *PostgresTaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	query := `
		SELECT id, title, description, status, due_at, created_at, updated_at
		FROM tasks
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTaskFromRows(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) UpdateStatus(ctx context.Context, id string, status model.Status) (model.Task, error) {
	query := `
		UPDATE tasks
		SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING id, title, description, status, due_at, created_at, updated_at`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, err
	}
	return task, nil
}

func (r *PostgresTaskRepository) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	query := `
		UPDATE tasks
		SET description = COALESCE($1, description),
		    due_at = CASE WHEN $2 THEN due_at
		                  WHEN $3 THEN now()
		                  ELSE $4 END,
		    updated_at = now()
		WHERE id = $5
		RETURNING id, title, description, status, due_at, created_at, updated_at`

	keepDue := patch.Due == nil
	serverNowDue := patch.Due != nil && patch.Due.IsServerNow()
	var explicitDue any
	if patch.Due != nil {
		if t, ok := patch.Due.Instant(); ok {
			explicitDue = t
		}
	}

	task, err := scanTask(r.db.QueryRowContext(ctx, query,
		patch.Description, keepDue, serverNowDue, explicitDue, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, err
	}
	return task, nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTask(row scannable) (model.Task, error) {
	var t model.Task
	var dueAt sql.NullTime
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status,
		&dueAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, err
		}
		return model.Task{}, fmt.Errorf("failed to scan task: %w", err)
	}
	if dueAt.Valid {
		t.DueAt = &dueAt.Time
	}
	return t, nil
}

func scanTaskFromRows(rows *sql.Rows) (model.Task, error) {
	var t model.Task
	var dueAt sql.NullTime
	err := rows.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status,
		&dueAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to scan task row: %w", err)
	}
	if dueAt.Valid {
		t.DueAt = &dueAt.Time
	}
	return t, nil
}

// ensure compile-time interface compliance
var _ TaskRepository = (*PostgresTaskRepository)(nil)
