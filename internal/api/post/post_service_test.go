package post

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-forum-api/internal/api"
	"github.com/FACorreiaa/go-forum-api/internal/types"
)

// MockPostRepo is a mock implementation of the PostRepo interface
type MockPostRepo struct {
	mock.Mock
}

func (m *MockPostRepo) CreatePost(ctx context.Context, title, content string, authorID uuid.UUID, now time.Time) (*Post, error) {
	args := m.Called(ctx, title, content, authorID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockPostRepo) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockPostRepo) ListPosts(ctx context.Context) ([]Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Post), args.Error(1)
}

func (m *MockPostRepo) UpdatePost(ctx context.Context, id uuid.UUID, title, content string, now time.Time) (*Post, error) {
	args := m.Called(ctx, id, title, content, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockPostRepo) SoftDeletePost(ctx context.Context, id uuid.UUID, now time.Time) error {
	args := m.Called(ctx, id, now)
	return args.Error(0)
}

func (m *MockPostRepo) GetPostIncludingDeleted(ctx context.Context, id uuid.UUID) (*Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestPostService(repo PostRepo) *PostServiceImpl {
	service := NewPostService(repo, slog.Default())
	service.now = func() time.Time { return fixedNow }
	return service
}

func identityFor(userID uuid.UUID) types.Identity {
	return types.Identity{UserID: userID, Username: "alice", Email: "a@x.com"}
}

func TestCreatePost(t *testing.T) {
	mockRepo := new(MockPostRepo)
	service := newTestPostService(mockRepo)
	ctx := context.Background()

	userID := uuid.New()
	postID := uuid.New()
	created := &Post{
		ID:        postID,
		Title:     "Hello",
		Content:   "First post",
		AuthorID:  &userID,
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}

	// The caller becomes the owner and both timestamps are stamped with
	// the same instant.
	mockRepo.On("CreatePost", ctx, "Hello", "First post", userID, fixedNow).Return(created, nil).Once()

	post, err := service.CreatePost(ctx, identityFor(userID), "Hello", "First post")

	require.NoError(t, err)
	require.NotNil(t, post.AuthorID)
	assert.Equal(t, userID, *post.AuthorID)
	assert.Equal(t, fixedNow, post.CreatedAt)
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)
	mockRepo.AssertExpectations(t)
}

func TestUpdatePost(t *testing.T) {
	t.Run("OwnerCanUpdate", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := newTestPostService(mockRepo)
		ctx := context.Background()

		userID := uuid.New()
		postID := uuid.New()
		existing := &Post{ID: postID, Title: "Old", Content: "Old body", AuthorID: &userID}
		updated := &Post{ID: postID, Title: "New", Content: "New body", AuthorID: &userID, UpdatedAt: fixedNow}

		mockRepo.On("GetPost", ctx, postID).Return(existing, nil).Once()
		mockRepo.On("UpdatePost", ctx, postID, "New", "New body", fixedNow).Return(updated, nil).Once()

		post, err := service.UpdatePost(ctx, identityFor(userID), postID, "New", "New body")

		require.NoError(t, err)
		assert.Equal(t, "New", post.Title)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NotFoundBeforeForbidden", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := newTestPostService(mockRepo)
		ctx := context.Background()

		postID := uuid.New()
		mockRepo.On("GetPost", ctx, postID).Return(nil, api.ErrNotFound).Once()

		// Someone else's missing post: not-found must win so callers
		// cannot probe for the existence of hidden posts.
		_, err := service.UpdatePost(ctx, identityFor(uuid.New()), postID, "New", "New body")

		assert.ErrorIs(t, err, api.ErrNotFound)
		assert.NotErrorIs(t, err, api.ErrForbidden)
		mockRepo.AssertNotCalled(t, "UpdatePost")
		mockRepo.AssertExpectations(t)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := newTestPostService(mockRepo)
		ctx := context.Background()

		ownerID := uuid.New()
		postID := uuid.New()
		existing := &Post{ID: postID, Title: "Old", Content: "Old body", AuthorID: &ownerID}
		mockRepo.On("GetPost", ctx, postID).Return(existing, nil).Once()

		_, err := service.UpdatePost(ctx, identityFor(uuid.New()), postID, "New", "New body")

		assert.ErrorIs(t, err, api.ErrForbidden)
		mockRepo.AssertNotCalled(t, "UpdatePost")
		mockRepo.AssertExpectations(t)
	})

	t.Run("OwnerlessPostForbidden", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := newTestPostService(mockRepo)
		ctx := context.Background()

		postID := uuid.New()
		existing := &Post{ID: postID, Title: "Legacy", Content: "No author", AuthorID: nil}
		mockRepo.On("GetPost", ctx, postID).Return(existing, nil).Once()

		_, err := service.UpdatePost(ctx, identityFor(uuid.New()), postID, "New", "New body")

		assert.ErrorIs(t, err, api.ErrForbidden)
		mockRepo.AssertNotCalled(t, "UpdatePost")
	})

	t.Run("RacingDeleteSurfacesNotFound", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := newTestPostService(mockRepo)
		ctx := context.Background()

		userID := uuid.New()
		postID := uuid.New()
		existing := &Post{ID: postID, Title: "Old", Content: "Old body", AuthorID: &userID}

		// The post vanishes between the ownership check and the write.
		mockRepo.On("GetPost", ctx, postID).Return(existing, nil).Once()
		mockRepo.On("UpdatePost", ctx, postID, "New", "New body", fixedNow).
			Return(nil, api.ErrNotFound).Once()

		_, err := service.UpdatePost(ctx, identityFor(userID), postID, "New", "New body")

		assert.ErrorIs(t, err, api.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestDeletePost(t *testing.T) {
	t.Run("OwnerCanDelete", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := newTestPostService(mockRepo)
		ctx := context.Background()

		userID := uuid.New()
		postID := uuid.New()
		existing := &Post{ID: postID, Title: "Hello", Content: "Body", AuthorID: &userID}

		mockRepo.On("GetPost", ctx, postID).Return(existing, nil).Once()
		mockRepo.On("SoftDeletePost", ctx, postID, fixedNow).Return(nil).Once()

		err := service.DeletePost(ctx, identityFor(userID), postID)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("AlreadyDeletedIsNotFound", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := newTestPostService(mockRepo)
		ctx := context.Background()

		postID := uuid.New()
		mockRepo.On("GetPost", ctx, postID).Return(nil, api.ErrNotFound).Once()

		err := service.DeletePost(ctx, identityFor(uuid.New()), postID)

		assert.ErrorIs(t, err, api.ErrNotFound)
		mockRepo.AssertNotCalled(t, "SoftDeletePost")
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := newTestPostService(mockRepo)
		ctx := context.Background()

		ownerID := uuid.New()
		postID := uuid.New()
		existing := &Post{ID: postID, Title: "Hello", Content: "Body", AuthorID: &ownerID}
		mockRepo.On("GetPost", ctx, postID).Return(existing, nil).Once()

		err := service.DeletePost(ctx, identityFor(uuid.New()), postID)

		assert.ErrorIs(t, err, api.ErrForbidden)
		mockRepo.AssertNotCalled(t, "SoftDeletePost")
	})
}
