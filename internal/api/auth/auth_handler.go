package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-forum-api/internal/api"
)

type AuthHandler struct {
	service AuthService
	logger  *slog.Logger
}

func NewAuthHandler(service AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		service: service,
	}
}

// Register handles POST /auth/register. Success carries no body.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ValidationErrorResponse(w, r, err)
		return
	}

	err := h.service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, api.ErrConflict) {
			api.ErrorResponse(w, r, http.StatusBadRequest, api.ErrConflict.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "Registration failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "could not register user")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// Login handles POST /auth/login. Failed lookups and failed password
// checks produce the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ValidationErrorResponse(w, r, err)
		return
	}

	token, err := h.service.Login(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, api.ErrUnauthenticated.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "could not log in")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, LoginResponse{Token: token})
}
