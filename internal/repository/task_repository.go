package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"tasks-be/internal/apperr"
	"tasks-be/internal/entities"
)

var errTaskNotFound = fmt.Errorf("%w: Task not found", apperr.ErrNotFound)

type taskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new PostgreSQL task repository
func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create inserts a new task
func (r *taskRepository) Create(ctx context.Context, task *entities.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	query := `
		INSERT INTO tasks (id, title, description, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, task.UserID, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// ListByOwner returns all tasks of ownerID in creation order
func (r *taskRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Task, error) {
	tasks := []*entities.Task{}
	if _, err := uuid.Parse(ownerID); err != nil {
		return tasks, nil
	}

	query := `
		SELECT id, title, description, user_id, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at ASC, seq ASC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var task entities.Task
		if err := scanTask(rows, &task); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

// FindOwned finds a task by id, only if ownerID owns it
func (r *taskRepository) FindOwned(ctx context.Context, id, ownerID string) (*entities.Task, error) {
	if !validIDs(id, ownerID) {
		return nil, errTaskNotFound
	}

	query := `
		SELECT id, title, description, user_id, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`
	var task entities.Task
	err := scanTask(r.db.QueryRowContext(ctx, query, id, ownerID), &task)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// Update writes the mutable fields of task; the owner filter is applied again
func (r *taskRepository) Update(ctx context.Context, task *entities.Task) error {
	if !validIDs(task.ID, task.UserID) {
		return errTaskNotFound
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.UpdatedAt, task.ID, task.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireAffected(result)
}

// Delete permanently removes a task owned by ownerID
func (r *taskRepository) Delete(ctx context.Context, id, ownerID string) error {
	if !validIDs(id, ownerID) {
		return errTaskNotFound
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner, task *entities.Task) error {
	return row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.UserID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
}

func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errTaskNotFound
	}
	return nil
}

func validIDs(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}
