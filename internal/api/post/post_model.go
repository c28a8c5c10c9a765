package post

import (
	"time"

	"github.com/google/uuid"
)

// Post is the forum post entity. AuthorID is nil for legacy rows created
// before posts carried an owner; those rows are immutable through the
// normal path.
type Post struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	AuthorID  *uuid.UUID `json:"author_id,omitempty"`
	IsDeleted bool       `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PostResponse is the read shape exposed over HTTP.
type PostResponse struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	AuthorID  *uuid.UUID `json:"author_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Response maps a Post to its HTTP shape.
func (p *Post) Response() PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// CreatePostRequest represents the create request body.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdatePostRequest represents the update request body. Both mutable
// fields are replaced on update.
type UpdatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
