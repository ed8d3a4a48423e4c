package repositories

import (
	"time"

	"github.com/anonto42/nexus-social/backend/internal/models"
)

// StoryRepository holds the stories collection
type StoryRepository struct {
	Collection[models.Story]
}

func (r StoryRepository) GetStoryByID(id string) (models.Story, bool) {
	return r.Find(func(s models.Story) bool { return s.ID == id })
}

// GetActiveStories returns stories that have not expired at now
func (r StoryRepository) GetActiveStories(now time.Time) []models.Story {
	return r.Filter(func(s models.Story) bool { return s.Active(now) })
}

// GetStoriesByUserIDs returns active stories of the given authors
func (r StoryRepository) GetStoriesByUserIDs(userIDs []string, now time.Time) []models.Story {
	return r.Filter(func(s models.Story) bool {
		return s.Active(now) && models.ContainsID(userIDs, s.AuthorID)
	})
}

// GetHighlights returns the author's pinned stories, expired or not
func (r StoryRepository) GetHighlights(authorID string) []models.Story {
	return r.Filter(func(s models.Story) bool { return s.Pinned && s.AuthorID == authorID })
}

func normalizeStory(s models.Story) models.Story {
	if s.ViewerIDs == nil {
		s.ViewerIDs = []string{}
	}
	if s.ExpiresAt.IsZero() && !s.CreatedAt.IsZero() {
		s.ExpiresAt = s.CreatedAt.Add(models.StoryLifetime)
	}
	return s
}
