package api

import (
	"errors"
	"net/http"
)

// Error taxonomy for the whole API. Every user-visible failure is one of
// these sentinels, wrapped with context at the point of failure and
// unwrapped with errors.Is at the handler edge. None are retried.
var (
	// ErrValidation covers malformed or out-of-range input, rejected
	// before the store is touched.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is a username/email collision at registration.
	// Soft-deleted users still occupy the uniqueness space.
	ErrConflict = errors.New("username or email already exists")

	// ErrUnauthenticated covers missing/invalid/expired tokens and
	// failed credential matches. Callers never learn which check failed.
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")

	// ErrNotFound means the resource is absent or filtered-invisible.
	// The two cases are indistinguishable to the caller.
	ErrNotFound = errors.New("requested item not found")

	// ErrForbidden means the resource is visible but owned by someone
	// else. Only reachable after the not-found check has passed.
	ErrForbidden = errors.New("action forbidden")
)

// StatusForError maps a domain error to its HTTP status code.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
