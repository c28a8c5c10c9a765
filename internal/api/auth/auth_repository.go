package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/go-forum-api/internal/api"
	"github.com/FACorreiaa/go-forum-api/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo defines the contract for user credential persistence.
type AuthRepo interface {
	// CreateUser inserts a new user and returns the generated id.
	// Returns api.ErrConflict when username or email is already taken,
	// soft-deleted rows included.
	CreateUser(ctx context.Context, username, email, passwordHash string) (string, error)

	// GetUserByUsernameOrEmail resolves a visible user whose username or
	// email equals the identifier. Returns api.ErrNotFound otherwise;
	// soft-deleted users never resolve here.
	GetUserByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*types.UserAuth, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	db     api.Querier
}

func NewPostgresAuthRepo(db api.Querier, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		db:     db,
	}
}

// pgUniqueViolation is the Postgres error code for unique_violation.
const pgUniqueViolation = "23505"

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, username, email, passwordHash string) (string, error) {
	var userID string
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash)
         VALUES ($1, $2, $3)
         RETURNING id`,
		username, email, passwordHash).Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return "", fmt.Errorf("create user: %w", api.ErrConflict)
		}
		return "", fmt.Errorf("create user: db insert failed: %w", err)
	}
	return userID, nil
}

func (r *PostgresAuthRepo) GetUserByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*types.UserAuth, error) {
	var user types.UserAuth
	err := r.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at
         FROM users
         WHERE (username = $1 OR email = $1) AND is_deleted = FALSE`,
		usernameOrEmail).Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user lookup: %w", api.ErrNotFound)
		}
		return nil, fmt.Errorf("user lookup: query failed: %w", err)
	}
	return &user, nil
}
