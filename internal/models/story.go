package models

import "time"

type StoryKind string

const (
	StoryText  StoryKind = "text"
	StoryMedia StoryKind = "media"
)

// StoryLifetime is how long a story stays active after creation
const StoryLifetime = 24 * time.Hour

// Story is an ephemeral post. Pinned stories remain queryable as highlights after expiry.
type Story struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	Kind      StoryKind `json:"kind"`
	MediaType MediaType `json:"media_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Pinned    bool      `json:"pinned"`
	ViewerIDs []string  `json:"viewer_ids"`
}

// Active reports whether the story is still visible at now
func (s Story) Active(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// CreateStoryRequest defines the request body for creating a story
type CreateStoryRequest struct {
	Content   string    `json:"content" validate:"required"`
	Kind      StoryKind `json:"kind" validate:"required,oneof=text media"`
	MediaType MediaType `json:"media_type,omitempty" validate:"omitempty,oneof=image video"`
}
