package models

import "time"

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type MediaItem struct {
	URL  string    `json:"url" validate:"required,url"`
	Type MediaType `json:"type" validate:"required,oneof=image video"`
}

// Post represents a feed entry. Comments are owned by the post.
type Post struct {
	ID                    string      `json:"id"`
	AuthorID              string      `json:"author_id"`
	ClanID                string      `json:"clan_id,omitempty"`
	Content               string      `json:"content"`
	Media                 []MediaItem `json:"media"`
	LikedBy               []string    `json:"liked_by"`
	Comments              []Comment   `json:"comments"`
	CreatedAt             time.Time   `json:"created_at"`
	EditedAt              *time.Time  `json:"edited_at,omitempty"`
	ExternalAttestationID string      `json:"external_attestation_id,omitempty"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string      `json:"content" validate:"max=2000"`
	Media   []MediaItem `json:"media,omitempty" validate:"omitempty,max=10,dive"`
	ClanID  string      `json:"clan_id,omitempty"`
}

// UpdatePostRequest defines the request body for editing a post
type UpdatePostRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
