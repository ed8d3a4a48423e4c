package repositories

import (
	"github.com/anonto42/nexus-social/backend/internal/models"
)

// FriendshipRepository holds streak records keyed by unordered user pair
type FriendshipRepository struct {
	Collection[models.Friendship]
}

// GetFriendship returns the record for (a, b) in either order
func (r FriendshipRepository) GetFriendship(a, b string) (models.Friendship, bool) {
	return r.Find(func(f models.Friendship) bool { return f.Involves(a, b) })
}

// GetUserFriendships returns every record userID takes part in
func (r FriendshipRepository) GetUserFriendships(userID string) []models.Friendship {
	return r.Filter(func(f models.Friendship) bool { return f.UserA == userID || f.UserB == userID })
}
