package repositories

import (
	"context"
	"time"

	"github.com/nlisitsyn/tasklist/internal/logger"
	"github.com/redis/go-redis/v9"
)

const revokedTokenKeyPrefix = "revoked_token:"

// TokenCacheRepository stores revoked session tokens in Redis until their
// natural expiry, so logout invalidates a token before it runs out.
type TokenCacheRepository struct {
	client *redis.Client
}

// NewTokenCacheRepository creates a new repository instance.
func NewTokenCacheRepository(client *redis.Client) *TokenCacheRepository {
	return &TokenCacheRepository{client: client}
}

// Revoke marks a token as revoked for its remaining lifetime. A token that
// has already expired needs no entry.
func (r *TokenCacheRepository) Revoke(ctx context.Context, tokenString string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	key := revokedTokenKeyPrefix + tokenString
	err := r.client.Set(ctx, key, "1", ttl).Err()

	logger.Log.Infow(
		"key", key,
		"ttl", ttl,
		"error", err,
	)

	return err
}

// IsRevoked reports whether a token has been revoked.
func (r *TokenCacheRepository) IsRevoked(ctx context.Context, tokenString string) (bool, error) {
	key := revokedTokenKeyPrefix + tokenString

	_, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Log.Errorw("revocation lookup failed", "key", key, "error", err)
		return false, err
	}

	return true, nil
}
