package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nlisitsyn/tasklist/internal/logger"
	"github.com/nlisitsyn/tasklist/internal/middlewares"
	"github.com/nlisitsyn/tasklist/internal/models"
)

// IdentityReadRepository provides read access to identity records.
type IdentityReadRepository struct {
	db *sqlx.DB
}

func NewIdentityReadRepository(db *sqlx.DB) *IdentityReadRepository {
	return &IdentityReadRepository{db: db}
}

// GetByUsernameOrEmail looks up a single identity filtered by the non-nil
// arguments. Returns (nil, nil) when no row matches.
func (r *IdentityReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.IdentityDB, error) {
	const query = `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM identities
		WHERE ($1::VARCHAR IS NULL OR username = $1)
		  AND ($2::VARCHAR IS NULL OR email = $2)
		LIMIT 1
	`

	var identity models.IdentityDB
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &identity, query, username, email)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &identity, nil
}

// IdentityWriteRepository provides write access to identity records.
type IdentityWriteRepository struct {
	db *sqlx.DB
}

func NewIdentityWriteRepository(db *sqlx.DB) *IdentityWriteRepository {
	return &IdentityWriteRepository{db: db}
}

// Save inserts a new identity and returns the created row. The password
// hash is never logged.
func (r *IdentityWriteRepository) Save(ctx context.Context, username, email, passwordHash string) (*models.IdentityDB, error) {
	const query = `
		INSERT INTO identities (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, username, email, password_hash, created_at, updated_at
	`

	var identity models.IdentityDB
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &identity, query, username, email, passwordHash)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &identity, nil
}

// Delete removes an identity row. Owned tasks go with it via the schema's
// ON DELETE CASCADE rule.
func (r *IdentityWriteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM identities WHERE id = $1`

	res, err := ext(ctx, r.db).ExecContext(ctx, query, id)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", query,
		"args", []any{id},
		"result", rowsAffected,
		"error", err,
	)

	return err
}

// ext returns the request transaction when the tx middleware installed one,
// otherwise the shared pool.
func ext(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx := middlewares.GetTxFromContext(ctx); tx != nil {
		return tx
	}
	return db
}
