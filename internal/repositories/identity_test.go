package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nlisitsyn/tasklist/internal/migrations"
)

func setupPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}

	container, err := tc.GenericContainer(context.Background(), tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)

	host, _ := container.Host(context.Background())
	port, _ := container.MappedPort(context.Background(), "5432")

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	assert.NoError(t, err)

	err = migrations.Up(context.Background(), db.DB)
	assert.NoError(t, err)

	teardown := func() {
		db.Close()
		container.Terminate(context.Background())
	}

	return db, teardown
}

func TestIdentityWriteRepository_Save(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	repo := NewIdentityWriteRepository(db)
	ctx := context.Background()

	identity, err := repo.Save(ctx, "alice", "alice@example.com", "hashed-secret")
	assert.NoError(t, err)
	assert.NotNil(t, identity)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.Equal(t, "hashed-secret", identity.PasswordHash)
	assert.False(t, identity.CreatedAt.IsZero())

	t.Run("DuplicateUsername", func(t *testing.T) {
		dup, err := repo.Save(ctx, "alice", "other@example.com", "hashed-secret")
		assert.Error(t, err)
		assert.Nil(t, dup)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		dup, err := repo.Save(ctx, "bob", "alice@example.com", "hashed-secret")
		assert.Error(t, err)
		assert.Nil(t, dup)
	})
}

func TestIdentityReadRepository_GetByUsernameOrEmail(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	writeRepo := NewIdentityWriteRepository(db)
	readRepo := NewIdentityReadRepository(db)
	ctx := context.Background()

	_, err := writeRepo.Save(ctx, "charlie", "charlie@example.com", "secret")
	assert.NoError(t, err)
	_, err = writeRepo.Save(ctx, "dave", "dave@example.com", "secret2")
	assert.NoError(t, err)

	t.Run("ByUsername", func(t *testing.T) {
		username := "charlie"
		identity, err := readRepo.GetByUsernameOrEmail(ctx, &username, nil)
		assert.NoError(t, err)
		assert.NotNil(t, identity)
		assert.Equal(t, "charlie", identity.Username)
	})

	t.Run("ByEmail", func(t *testing.T) {
		email := "dave@example.com"
		identity, err := readRepo.GetByUsernameOrEmail(ctx, nil, &email)
		assert.NoError(t, err)
		assert.NotNil(t, identity)
		assert.Equal(t, "dave", identity.Username)
	})

	t.Run("ByUsernameAndEmail", func(t *testing.T) {
		username := "charlie"
		email := "charlie@example.com"
		identity, err := readRepo.GetByUsernameOrEmail(ctx, &username, &email)
		assert.NoError(t, err)
		assert.NotNil(t, identity)
		assert.Equal(t, "charlie", identity.Username)
	})

	t.Run("NotFound", func(t *testing.T) {
		username := "nonexistent"
		identity, err := readRepo.GetByUsernameOrEmail(ctx, &username, nil)
		assert.NoError(t, err)
		assert.Nil(t, identity)
	})
}

func TestIdentityWriteRepository_Delete_CascadesToTasks(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	identityRepo := NewIdentityWriteRepository(db)
	taskRepo := NewTaskWriteRepository(db)
	ctx := context.Background()

	owner, err := identityRepo.Save(ctx, "erin", "erin@example.com", "secret")
	assert.NoError(t, err)
	other, err := identityRepo.Save(ctx, "frank", "frank@example.com", "secret")
	assert.NoError(t, err)

	_, err = taskRepo.Save(ctx, owner.ID, "Buy milk", "whole")
	assert.NoError(t, err)
	kept, err := taskRepo.Save(ctx, other.ID, "Walk dog", "around the block")
	assert.NoError(t, err)

	err = identityRepo.Delete(ctx, owner.ID)
	assert.NoError(t, err)

	var count int
	err = db.Get(&count, "SELECT COUNT(*) FROM tasks WHERE owner_id=$1", owner.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)

	err = db.Get(&count, "SELECT COUNT(*) FROM tasks WHERE id=$1", kept.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}
