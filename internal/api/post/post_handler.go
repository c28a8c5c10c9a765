package post

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-forum-api/internal/api"
	"github.com/FACorreiaa/go-forum-api/internal/api/auth"
)

type PostHandler struct {
	service PostService
	logger  *slog.Logger
}

func NewPostHandler(service PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		logger:  logger,
		service: service,
	}
}

func (h *PostHandler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := api.StatusForError(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Post operation failed", slog.Any("error", err))
		api.ErrorResponse(w, r, status, "internal server error")
		return
	}
	switch status {
	case http.StatusNotFound:
		api.ErrorResponse(w, r, status, api.ErrNotFound.Error())
	case http.StatusForbidden:
		api.ErrorResponse(w, r, status, api.ErrForbidden.Error())
	default:
		api.ErrorResponse(w, r, status, err.Error())
	}
}

func postIDFromRequest(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "postID"))
}

// ListPosts handles GET /posts. Public; tombstoned posts never appear.
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	responses := make([]PostResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, posts[i].Response())
	}
	api.WriteJSONResponse(w, r, http.StatusOK, responses)
}

// GetPost handles GET /posts/{postID}.
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := postIDFromRequest(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, post.Response())
}

// CreatePost handles PUT /posts. Requires an authenticated identity; the
// caller becomes the post's owner.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, api.ErrUnauthenticated.Error())
		return
	}

	var req CreatePostRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ValidationErrorResponse(w, r, err)
		return
	}

	post, err := h.service.CreatePost(r.Context(), identity, req.Title, req.Content)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, post.Response())
}

// UpdatePost handles PATCH /posts/{postID}. Not-found (absent or
// tombstoned) resolves before forbidden (wrong owner).
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, api.ErrUnauthenticated.Error())
		return
	}

	id, err := postIDFromRequest(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid post id")
		return
	}

	var req UpdatePostRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ValidationErrorResponse(w, r, err)
		return
	}

	post, err := h.service.UpdatePost(r.Context(), identity, id, req.Title, req.Content)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, post.Response())
}

// DeletePost handles DELETE /posts/{postID}.
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, api.ErrUnauthenticated.Error())
		return
	}

	id, err := postIDFromRequest(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := h.service.DeletePost(r.Context(), identity, id); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
