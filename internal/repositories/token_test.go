package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestTokenCacheRepository(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7.0-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)
	defer redisC.Terminate(ctx)

	host, err := redisC.Host(ctx)
	assert.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	assert.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
	defer rdb.Close()

	err = rdb.Ping(ctx).Err()
	assert.NoError(t, err)

	repo := NewTokenCacheRepository(rdb)

	t.Run("Revoke then IsRevoked", func(t *testing.T) {
		err := repo.Revoke(ctx, "token-one", time.Minute)
		assert.NoError(t, err)

		revoked, err := repo.IsRevoked(ctx, "token-one")
		assert.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("Unknown token is not revoked", func(t *testing.T) {
		revoked, err := repo.IsRevoked(ctx, "never-seen")
		assert.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("Entry expires with the token", func(t *testing.T) {
		err := repo.Revoke(ctx, "token-two", 2*time.Second)
		assert.NoError(t, err)

		revoked, err := repo.IsRevoked(ctx, "token-two")
		assert.NoError(t, err)
		assert.True(t, revoked)

		time.Sleep(3 * time.Second)

		revoked, err = repo.IsRevoked(ctx, "token-two")
		assert.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("Expired token needs no entry", func(t *testing.T) {
		err := repo.Revoke(ctx, "token-three", -time.Second)
		assert.NoError(t, err)

		revoked, err := repo.IsRevoked(ctx, "token-three")
		assert.NoError(t, err)
		assert.False(t, revoked)
	})
}
