package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nlisitsyn/tasklist/internal/jwt"
	"github.com/nlisitsyn/tasklist/internal/logger"
	"github.com/nlisitsyn/tasklist/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Error variables
var (
	ErrValidation         = errors.New("missing required field")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// dummyPasswordHash is compared against when the username is unknown, so
// that path costs the same as a real password check.
var dummyPasswordHash = func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("tasklist-timing-pad"), bcrypt.DefaultCost)
	return h
}()

// IdentityReader defines read-only operations for identities.
type IdentityReader interface {
	GetByUsernameOrEmail(ctx context.Context, username *string, email *string) (*models.IdentityDB, error)
}

// IdentityWriter defines write operations for identities.
type IdentityWriter interface {
	Save(ctx context.Context, username, email, passwordHash string) (*models.IdentityDB, error)
}

// JWTGenerator defines the token operations the service needs.
type JWTGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// TokenRevoker marks session tokens as revoked until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenString string, ttl time.Duration) error
}

// AuthService handles registration, login and logout.
type AuthService struct {
	reader  IdentityReader
	writer  IdentityWriter
	jwt     JWTGenerator
	revoker TokenRevoker
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader IdentityReader, writer IdentityWriter, jwt JWTGenerator, revoker TokenRevoker) *AuthService {
	return &AuthService{
		reader:  reader,
		writer:  writer,
		jwt:     jwt,
		revoker: revoker,
	}
}

// Register creates a new identity. Username and email must be unique;
// duplicate username and duplicate email are reported as distinct errors.
// The plaintext password is hashed with bcrypt and not retained.
func (svc *AuthService) Register(ctx context.Context, username, email, password string) (*models.IdentityDB, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, fmt.Errorf("%w: username", ErrValidation)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email", ErrValidation)
	}
	if strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: password", ErrValidation)
	}

	existing, err := svc.reader.GetByUsernameOrEmail(ctx, &username, nil)
	if err != nil {
		logger.Log.Errorw("failed to check username", "err", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = svc.reader.GetByUsernameOrEmail(ctx, nil, &email)
	if err != nil {
		logger.Log.Errorw("failed to check email", "err", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	identity, err := svc.writer.Save(ctx, username, email, string(hashedPassword))
	if err != nil {
		logger.Log.Errorw("failed to save identity", "err", err)
		return nil, err
	}

	return identity, nil
}

// Login verifies credentials and returns a session token. Unknown username
// and wrong password are indistinguishable to the caller.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)

	if username == "" {
		return "", fmt.Errorf("%w: username", ErrValidation)
	}
	if password == "" {
		return "", fmt.Errorf("%w: password", ErrValidation)
	}

	identity, err := svc.reader.GetByUsernameOrEmail(ctx, &username, nil)
	if err != nil {
		logger.Log.Errorw("failed to get identity", "err", err)
		return "", err
	}
	if identity == nil {
		bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, identity.ID)
	if err != nil {
		logger.Log.Errorw("failed to generate session token", "err", err)
		return "", err
	}

	return token, nil
}

// Logout revokes the session token for its remaining lifetime.
func (svc *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := svc.jwt.GetClaims(ctx, tokenString)
	if err != nil {
		logger.Log.Errorw("failed to parse token on logout", "err", err)
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := svc.revoker.Revoke(ctx, tokenString, ttl); err != nil {
		logger.Log.Errorw("failed to revoke token", "err", err)
		return err
	}

	return nil
}
