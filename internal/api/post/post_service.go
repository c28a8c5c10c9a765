package post

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-forum-api/app/observability/metrics"
	"github.com/FACorreiaa/go-forum-api/internal/api"
	"github.com/FACorreiaa/go-forum-api/internal/types"
)

var _ PostService = (*PostServiceImpl)(nil)

// PostService is the post lifecycle manager. Posts move between two
// states, Active and Deleted; Deleted is terminal. The caller's identity
// is always an explicit argument, never ambient state.
type PostService interface {
	// CreatePost stores a new active post owned by the caller.
	CreatePost(ctx context.Context, identity types.Identity, title, content string) (*Post, error)

	// GetPost returns a visible post. No authentication required.
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)

	// ListPosts returns all visible posts. No authentication required.
	ListPosts(ctx context.Context) ([]Post, error)

	// UpdatePost replaces the mutable fields of the caller's own post.
	// Owner and created_at are immutable after creation.
	UpdatePost(ctx context.Context, identity types.Identity, id uuid.UUID, title, content string) (*Post, error)

	// DeletePost soft-deletes the caller's own post.
	DeletePost(ctx context.Context, identity types.Identity, id uuid.UUID) error
}

// PostServiceImpl implements the PostService interface.
type PostServiceImpl struct {
	logger *slog.Logger
	repo   PostRepo
	now    func() time.Time
}

func NewPostService(repo PostRepo, logger *slog.Logger) *PostServiceImpl {
	return &PostServiceImpl{
		logger: logger,
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// authorizeOwner is the ownership guard: mutation is allowed iff the
// caller is the post's author. Posts without an author are immutable
// through this path. Only called once the post has resolved under the
// visibility filter, so "forbidden" can never leak the existence of a
// deleted or absent post.
func authorizeOwner(identity types.Identity, p *Post) error {
	if p.AuthorID == nil || *p.AuthorID != identity.UserID {
		return fmt.Errorf("post %s: %w", p.ID, api.ErrForbidden)
	}
	return nil
}

func (s *PostServiceImpl) CreatePost(ctx context.Context, identity types.Identity, title, content string) (*Post, error) {
	post, err := s.repo.CreatePost(ctx, title, content, identity.UserID, s.now())
	if err != nil {
		return nil, err
	}

	metrics.Get().PostMutationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "create")))
	s.logger.InfoContext(ctx, "Post created",
		slog.String("postID", post.ID.String()),
		slog.String("authorID", identity.UserID.String()),
	)
	return post, nil
}

func (s *PostServiceImpl) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.repo.GetPost(ctx, id)
}

func (s *PostServiceImpl) ListPosts(ctx context.Context) ([]Post, error) {
	return s.repo.ListPosts(ctx)
}

func (s *PostServiceImpl) UpdatePost(ctx context.Context, identity types.Identity, id uuid.UUID, title, content string) (*Post, error) {
	// Existence under the visibility filter resolves strictly before
	// ownership.
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(identity, post); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdatePost(ctx, id, title, content, s.now())
	if err != nil {
		return nil, err
	}

	metrics.Get().PostMutationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "update")))
	s.logger.InfoContext(ctx, "Post updated", slog.String("postID", id.String()))
	return updated, nil
}

func (s *PostServiceImpl) DeletePost(ctx context.Context, identity types.Identity, id uuid.UUID) error {
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(identity, post); err != nil {
		return err
	}

	if err := s.repo.SoftDeletePost(ctx, id, s.now()); err != nil {
		return err
	}

	metrics.Get().PostMutationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "delete")))
	s.logger.InfoContext(ctx, "Post soft-deleted", slog.String("postID", id.String()))
	return nil
}
