package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserAuth represents the core user entity in the domain.
type UserAuth struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`   // Unique, case-sensitive as stored.
	Email     string    `json:"email"`      // Unique email address.
	Password  string    `json:"-"`          // Hashed password (never exposed).
	IsDeleted bool      `json:"-"`          // Soft-delete flag; deleted users keep their uniqueness slot.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is the authenticated caller, extracted from a validated token
// and passed explicitly through every call chain. Never ambient state.
type Identity struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// Claims is the JWT payload. Validity is determined entirely by signature
// and the registered claims; there is no server-side revocation list.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}
