package post

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-forum-api/app/observability/metrics"
	"github.com/FACorreiaa/go-forum-api/internal/api"
)

var _ PostRepo = (*PostgresPostRepo)(nil)

// PostRepo is the visible resource store for posts. Every read and every
// mutation target is filtered to is_deleted = FALSE by construction; the
// single unfiltered accessor is GetPostIncludingDeleted, named so a new
// query path must opt IN to seeing tombstoned rows.
type PostRepo interface {
	// CreatePost inserts a new active post and returns it with its
	// generated id.
	CreatePost(ctx context.Context, title, content string, authorID uuid.UUID, now time.Time) (*Post, error)

	// GetPost resolves a visible post. Absent and soft-deleted are both
	// api.ErrNotFound.
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)

	// ListPosts returns all visible posts.
	ListPosts(ctx context.Context) ([]Post, error)

	// UpdatePost replaces title and content and refreshes updated_at in
	// one atomic statement. A row that is absent or tombstoned (possibly
	// by a racing delete) is api.ErrNotFound.
	UpdatePost(ctx context.Context, id uuid.UUID, title, content string, now time.Time) (*Post, error)

	// SoftDeletePost flips the tombstone flag and refreshes updated_at.
	// The transition is terminal; repeating it is api.ErrNotFound.
	SoftDeletePost(ctx context.Context, id uuid.UUID, now time.Time) error

	// GetPostIncludingDeleted bypasses the visibility filter. Reserved
	// for maintenance tooling and tests, never wired to an API path.
	GetPostIncludingDeleted(ctx context.Context, id uuid.UUID) (*Post, error)
}

type PostgresPostRepo struct {
	logger *slog.Logger
	db     api.Querier
}

func NewPostgresPostRepo(db api.Querier, logger *slog.Logger) *PostgresPostRepo {
	return &PostgresPostRepo{
		logger: logger,
		db:     db,
	}
}

// observe records query duration and errors on the shared instruments.
func observe(ctx context.Context, op string, start time.Time, err error) {
	m := metrics.Get()
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("db.operation", op)))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		m.DbQueryErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("db.operation", op)))
	}
}

func (r *PostgresPostRepo) CreatePost(ctx context.Context, title, content string, authorID uuid.UUID, now time.Time) (*Post, error) {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "CreatePost", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()
	start := time.Now()

	post := &Post{
		Title:     title,
		Content:   content,
		AuthorID:  &authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO posts (title, content, author_id, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $4)
         RETURNING id`,
		title, content, authorID, now).Scan(&post.ID)
	observe(ctx, "INSERT", start, err)
	if err != nil {
		return nil, fmt.Errorf("create post: db insert failed: %w", err)
	}
	return post, nil
}

func (r *PostgresPostRepo) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "GetPost", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()
	start := time.Now()

	var post Post
	err := r.db.QueryRow(ctx,
		`SELECT id, title, content, author_id, is_deleted, created_at, updated_at
         FROM posts
         WHERE id = $1 AND is_deleted = FALSE`,
		id).Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.IsDeleted, &post.CreatedAt, &post.UpdatedAt)
	observe(ctx, "SELECT", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get post: %w", api.ErrNotFound)
		}
		return nil, fmt.Errorf("get post: query failed: %w", err)
	}
	return &post, nil
}

func (r *PostgresPostRepo) ListPosts(ctx context.Context) ([]Post, error) {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "ListPosts", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()
	start := time.Now()

	rows, err := r.db.Query(ctx,
		`SELECT id, title, content, author_id, is_deleted, created_at, updated_at
         FROM posts
         WHERE is_deleted = FALSE
         ORDER BY created_at`)
	observe(ctx, "SELECT", start, err)
	if err != nil {
		return nil, fmt.Errorf("list posts: query failed: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.IsDeleted, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list posts: scan failed: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: rows failed: %w", err)
	}
	return posts, nil
}

func (r *PostgresPostRepo) UpdatePost(ctx context.Context, id uuid.UUID, title, content string, now time.Time) (*Post, error) {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "UpdatePost", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()
	start := time.Now()

	// Single atomic read-modify-write; a racing delete makes this miss
	// and report not-found.
	var post Post
	err := r.db.QueryRow(ctx,
		`UPDATE posts
         SET title = $1, content = $2, updated_at = $3
         WHERE id = $4 AND is_deleted = FALSE
         RETURNING id, title, content, author_id, is_deleted, created_at, updated_at`,
		title, content, now, id).Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.IsDeleted, &post.CreatedAt, &post.UpdatedAt)
	observe(ctx, "UPDATE", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("update post: %w", api.ErrNotFound)
		}
		return nil, fmt.Errorf("update post: db update failed: %w", err)
	}
	return &post, nil
}

func (r *PostgresPostRepo) SoftDeletePost(ctx context.Context, id uuid.UUID, now time.Time) error {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "SoftDeletePost", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()
	start := time.Now()

	tag, err := r.db.Exec(ctx,
		`UPDATE posts
         SET is_deleted = TRUE, updated_at = $1
         WHERE id = $2 AND is_deleted = FALSE`,
		now, id)
	observe(ctx, "UPDATE", start, err)
	if err != nil {
		return fmt.Errorf("delete post: db update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete post: %w", api.ErrNotFound)
	}
	return nil
}

func (r *PostgresPostRepo) GetPostIncludingDeleted(ctx context.Context, id uuid.UUID) (*Post, error) {
	var post Post
	err := r.db.QueryRow(ctx,
		`SELECT id, title, content, author_id, is_deleted, created_at, updated_at
         FROM posts
         WHERE id = $1`,
		id).Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.IsDeleted, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get post including deleted: %w", api.ErrNotFound)
		}
		return nil, fmt.Errorf("get post including deleted: query failed: %w", err)
	}
	return &post, nil
}
