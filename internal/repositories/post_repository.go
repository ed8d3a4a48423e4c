package repositories

import (
	"github.com/anonto42/nexus-social/backend/internal/models"
)

// PostRepository holds the posts collection, newest first
type PostRepository struct {
	Collection[models.Post]
}

func (r PostRepository) GetPostByID(id string) (models.Post, bool) {
	return r.Find(func(p models.Post) bool { return p.ID == id })
}

func (r PostRepository) GetPostsByUserID(userID string) []models.Post {
	return r.Filter(func(p models.Post) bool { return p.AuthorID == userID })
}

func (r PostRepository) GetPostsByClanID(clanID string) []models.Post {
	return r.Filter(func(p models.Post) bool { return p.ClanID == clanID })
}

// GetFeed returns non-clan posts by the viewer and the users they follow,
// paginated. limit <= 0 returns everything from skip on.
func (r PostRepository) GetFeed(viewer models.User, skip, limit int) []models.Post {
	posts := r.Filter(func(p models.Post) bool {
		return p.ClanID == "" && (p.AuthorID == viewer.ID || viewer.Follows(p.AuthorID))
	})
	return page(posts, skip, limit)
}

// GetAllPosts returns every non-clan post, paginated
func (r PostRepository) GetAllPosts(skip, limit int) []models.Post {
	return page(r.Filter(func(p models.Post) bool { return p.ClanID == "" }), skip, limit)
}

func page[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func normalizePost(p models.Post) models.Post {
	if p.Media == nil {
		p.Media = []models.MediaItem{}
	}
	if p.LikedBy == nil {
		p.LikedBy = []string{}
	}
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	}
	return p
}
