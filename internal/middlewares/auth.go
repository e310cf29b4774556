package middlewares

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/nlisitsyn/tasklist/internal/jwt"
	"github.com/nlisitsyn/tasklist/internal/logger"
)

// Tokener defines the minimal token operations needed by the middleware.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// RevocationChecker reports whether a token has been revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenString string) (bool, error)
}

type userIDContextKey struct{}

type tokenContextKey struct{}

// SetUserIDToContext stores the authenticated identity id in the context.
func SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDContextKey{}, userID)
}

// SetTokenToContext stores the raw session token in the context.
func SetTokenToContext(ctx context.Context, tokenString string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, tokenString)
}

// GetUserIDFromContext returns the authenticated identity id stored by
// AuthMiddleware, or uuid.Nil when the request is unauthenticated.
func GetUserIDFromContext(ctx context.Context) uuid.UUID {
	userID, _ := ctx.Value(userIDContextKey{}).(uuid.UUID)
	return userID
}

// GetTokenFromContext returns the raw session token stored by AuthMiddleware.
func GetTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey{}).(string)
	return token
}

// AuthMiddleware resolves the current identity for the request: it extracts
// the session token, verifies it, checks it against the revocation store and
// puts the identity id and raw token into the request context. Requests
// without a valid, unrevoked token never reach the wrapped handler.
func AuthMiddleware(tokener Tokener, revocations RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			claims, err := tokener.GetClaims(ctx, tokenString)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			revoked, err := revocations.IsRevoked(ctx, tokenString)
			if err != nil {
				logger.Log.Errorw("revocation check failed", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			if revoked {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			ctx = SetUserIDToContext(ctx, claims.UserID)
			ctx = SetTokenToContext(ctx, tokenString)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
