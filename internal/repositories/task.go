package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nlisitsyn/tasklist/internal/logger"
	"github.com/nlisitsyn/tasklist/internal/models"
)

// TaskReadRepository provides read access to task records.
type TaskReadRepository struct {
	db *sqlx.DB
}

func NewTaskReadRepository(db *sqlx.DB) *TaskReadRepository {
	return &TaskReadRepository{db: db}
}

// ListByOwner returns the owner's tasks in insertion order. The position
// column is a serial assigned at insert, so the order is stable even for
// rows created in the same transaction.
func (r *TaskReadRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.TaskDB, error) {
	const query = `
		SELECT id, title, description, created_at, owner_id
		FROM tasks
		WHERE owner_id = $1
		ORDER BY position
	`

	tasks := make([]models.TaskDB, 0)
	err := sqlx.SelectContext(ctx, ext(ctx, r.db), &tasks, query, ownerID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{ownerID},
		"result", len(tasks),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// TaskWriteRepository provides write access to task records. Every mutation
// is guarded by the owning identity id: a task of another owner is
// indistinguishable from a missing one.
type TaskWriteRepository struct {
	db *sqlx.DB
}

func NewTaskWriteRepository(db *sqlx.DB) *TaskWriteRepository {
	return &TaskWriteRepository{db: db}
}

// Save inserts a new task for the owner and returns the created row.
func (r *TaskWriteRepository) Save(ctx context.Context, ownerID uuid.UUID, title, description string) (*models.TaskDB, error) {
	const query = `
		INSERT INTO tasks (title, description, created_at, owner_id)
		VALUES ($1, $2, NOW(), $3)
		RETURNING id, title, description, created_at, owner_id
	`

	var task models.TaskDB
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &task, query, title, description, ownerID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{title, description, ownerID},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &task, nil
}

// Update mutates title and description of the owner's task. Returns
// (nil, nil) when no row matched the id and owner pair.
func (r *TaskWriteRepository) Update(ctx context.Context, ownerID, taskID uuid.UUID, title, description string) (*models.TaskDB, error) {
	const query = `
		UPDATE tasks
		SET title = $1, description = $2
		WHERE id = $3 AND owner_id = $4
		RETURNING id, title, description, created_at, owner_id
	`

	var task models.TaskDB
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &task, query, title, description, taskID, ownerID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{title, description, taskID, ownerID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// Delete removes the owner's task. Returns false when no row matched.
func (r *TaskWriteRepository) Delete(ctx context.Context, ownerID, taskID uuid.UUID) (bool, error) {
	const query = `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`

	res, err := ext(ctx, r.db).ExecContext(ctx, query, taskID, ownerID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", query,
		"args", []any{taskID, ownerID},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
