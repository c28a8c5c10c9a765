package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-forum-api/app/observability/metrics"
	"github.com/FACorreiaa/go-forum-api/internal/api"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	// Register creates a new user with a hashed password.
	Register(ctx context.Context, username, email, password string) error

	// Login verifies credentials and returns a signed bearer token.
	Login(ctx context.Context, usernameOrEmail, password string) (string, error)
}

// AuthServiceImpl implements the AuthService interface.
type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	hasher *Hasher
	tokens *TokenService
}

func NewAuthService(repo AuthRepo, hasher *Hasher, tokens *TokenService, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register hashes the password and stores the new user. A username or
// email collision surfaces as api.ErrConflict, soft-deleted rows included.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) error {
	l := s.logger.With(slog.String("method", "Register"), slog.String("username", username))

	passwordHash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	userID, err := s.repo.CreateUser(ctx, username, email, passwordHash)
	if err != nil {
		metrics.Get().RegisterRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "failure")))
		return err
	}

	metrics.Get().RegisterRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "success")))
	l.InfoContext(ctx, "User registered", slog.String("userID", userID))
	return nil
}

// Login resolves the user by username or email among visible rows,
// verifies the password and issues an access token. A missing user and a
// wrong password both collapse into api.ErrUnauthenticated so callers
// cannot enumerate accounts.
func (s *AuthServiceImpl) Login(ctx context.Context, usernameOrEmail, password string) (string, error) {
	l := s.logger.With(slog.String("method", "Login"))

	user, err := s.repo.GetUserByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			metrics.Get().LoginRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "failure")))
			return "", fmt.Errorf("login: %w", api.ErrUnauthenticated)
		}
		return "", fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(ctx, user.Password, password) {
		metrics.Get().LoginRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "failure")))
		return "", fmt.Errorf("login: %w", api.ErrUnauthenticated)
	}

	token, err := s.tokens.Issue(user.ID.String(), user.Username, user.Email)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	metrics.Get().LoginRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "success")))
	l.InfoContext(ctx, "User logged in", slog.String("userID", user.ID.String()))
	return token, nil
}
