package post

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appconfig "github.com/FACorreiaa/go-forum-api/config"
	"github.com/FACorreiaa/go-forum-api/internal/api"
	"github.com/FACorreiaa/go-forum-api/internal/api/auth"
	"github.com/FACorreiaa/go-forum-api/internal/types"
)

// MockPostService is a mock implementation of the PostService interface
type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) CreatePost(ctx context.Context, identity types.Identity, title, content string) (*Post, error) {
	args := m.Called(ctx, identity, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockPostService) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockPostService) ListPosts(ctx context.Context) ([]Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Post), args.Error(1)
}

func (m *MockPostService) UpdatePost(ctx context.Context, identity types.Identity, id uuid.UUID, title, content string) (*Post, error) {
	args := m.Called(ctx, identity, id, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockPostService) DeletePost(ctx context.Context, identity types.Identity, id uuid.UUID) error {
	args := m.Called(ctx, identity, id)
	return args.Error(0)
}

// newTestRouter mounts the post routes the way the application router
// does: reads public, mutations behind the bearer-token middleware.
func newTestRouter(service PostService, tokens *auth.TokenService) chi.Router {
	handler := NewPostHandler(service, slog.Default())

	r := chi.NewRouter()
	r.Get("/posts", handler.ListPosts)
	r.Get("/posts/{postID}", handler.GetPost)
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(slog.Default(), tokens))
		r.Put("/posts", handler.CreatePost)
		r.Patch("/posts/{postID}", handler.UpdatePost)
		r.Delete("/posts/{postID}", handler.DeletePost)
	})
	return r
}

func testTokenService() *auth.TokenService {
	return auth.NewTokenService(appconfig.JWTConfig{
		SecretKey:      "test-access-secret",
		Issuer:         "test-issuer",
		Audience:       "test-audience",
		AccessTokenTTL: 15 * time.Minute,
	})
}

func bearerFor(t *testing.T, tokens *auth.TokenService, userID uuid.UUID, username string) string {
	t.Helper()
	tokenString, err := tokens.Issue(userID.String(), username, username+"@x.com")
	require.NoError(t, err)
	return "Bearer " + tokenString
}

func TestPostRoutes(t *testing.T) {
	tokens := testTokenService()
	aliceID := uuid.New()
	bobID := uuid.New()
	postID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	alicePost := &Post{
		ID:        postID,
		Title:     "Hello",
		Content:   "First post",
		AuthorID:  &aliceID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.Run("CreateRequiresAuthentication", func(t *testing.T) {
		mockService := new(MockPostService)
		router := newTestRouter(mockService, tokens)

		req := httptest.NewRequest(http.MethodPut, "/posts",
			strings.NewReader(`{"title":"Hello","content":"First post"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		mockService.AssertNotCalled(t, "CreatePost")
	})

	t.Run("AuthorCreatesPost", func(t *testing.T) {
		mockService := new(MockPostService)
		router := newTestRouter(mockService, tokens)

		mockService.On("CreatePost", mock.Anything,
			mock.MatchedBy(func(id types.Identity) bool { return id.UserID == aliceID }),
			"Hello", "First post").Return(alicePost, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/posts",
			strings.NewReader(`{"title":"Hello","content":"First post"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", bearerFor(t, tokens, aliceID, "alice"))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp PostResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, postID, resp.ID)
		require.NotNil(t, resp.AuthorID)
		assert.Equal(t, aliceID, *resp.AuthorID)
		mockService.AssertExpectations(t)
	})

	t.Run("AnonymousCanRead", func(t *testing.T) {
		mockService := new(MockPostService)
		router := newTestRouter(mockService, tokens)

		mockService.On("GetPost", mock.Anything, postID).Return(alicePost, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts/"+postID.String(), nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("NonOwnerUpdateIsForbidden", func(t *testing.T) {
		mockService := new(MockPostService)
		router := newTestRouter(mockService, tokens)

		mockService.On("UpdatePost", mock.Anything,
			mock.MatchedBy(func(id types.Identity) bool { return id.UserID == bobID }),
			postID, "Hijacked", "Mine now").Return(nil, api.ErrForbidden).Once()

		req := httptest.NewRequest(http.MethodPatch, "/posts/"+postID.String(),
			strings.NewReader(`{"title":"Hijacked","content":"Mine now"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", bearerFor(t, tokens, bobID, "bob"))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("OwnerDeletesPost", func(t *testing.T) {
		mockService := new(MockPostService)
		router := newTestRouter(mockService, tokens)

		mockService.On("DeletePost", mock.Anything,
			mock.MatchedBy(func(id types.Identity) bool { return id.UserID == aliceID }),
			postID).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/posts/"+postID.String(), nil)
		req.Header.Set("Authorization", bearerFor(t, tokens, aliceID, "alice"))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ReadAfterDeleteIsNotFound", func(t *testing.T) {
		mockService := new(MockPostService)
		router := newTestRouter(mockService, tokens)

		mockService.On("GetPost", mock.Anything, postID).Return(nil, api.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts/"+postID.String(), nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ListVisiblePosts", func(t *testing.T) {
		mockService := new(MockPostService)
		router := newTestRouter(mockService, tokens)

		mockService.On("ListPosts", mock.Anything).Return([]Post{*alicePost}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp []PostResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "Hello", resp[0].Title)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidPostIDIsBadRequest", func(t *testing.T) {
		mockService := new(MockPostService)
		router := newTestRouter(mockService, tokens)

		req := httptest.NewRequest(http.MethodGet, "/posts/not-a-uuid", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "GetPost")
	})

	t.Run("CreateValidationFailure", func(t *testing.T) {
		mockService := new(MockPostService)
		router := newTestRouter(mockService, tokens)

		req := httptest.NewRequest(http.MethodPut, "/posts",
			strings.NewReader(`{"title":"","content":"Body"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", bearerFor(t, tokens, aliceID, "alice"))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreatePost")
	})
}
