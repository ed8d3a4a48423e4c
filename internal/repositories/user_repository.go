package repositories

import (
	"strings"

	"github.com/anonto42/nexus-social/backend/internal/models"
)

// UserRepository holds the users collection
type UserRepository struct {
	Collection[models.User]
}

func (r UserRepository) GetUserByID(id string) (models.User, bool) {
	return r.Find(func(u models.User) bool { return u.ID == id })
}

// GetUserByEmail matches case-insensitively
func (r UserRepository) GetUserByEmail(email string) (models.User, bool) {
	return r.Find(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

// GetUserByHandle matches case-insensitively, with or without the leading @
func (r UserRepository) GetUserByHandle(handle string) (models.User, bool) {
	want := NormalizeHandle(handle)
	return r.Find(func(u models.User) bool { return strings.EqualFold(u.Handle, want) })
}

func (r UserRepository) GetUserByFirebaseUID(uid string) (models.User, bool) {
	if uid == "" {
		return models.User{}, false
	}
	return r.Find(func(u models.User) bool { return u.FirebaseUID == uid })
}

// GetUsersByIDs returns the users in ids, skipping unknown ones
func (r UserRepository) GetUsersByIDs(ids []string) []models.User {
	return r.Filter(func(u models.User) bool { return models.ContainsID(ids, u.ID) })
}

// GetBellSubscribers returns users who opted into new-post notifications from authorID
func (r UserRepository) GetBellSubscribers(authorID string) []models.User {
	return r.Filter(func(u models.User) bool { return models.ContainsID(u.BelledUserIDs, authorID) })
}

// SearchUsers matches name or handle by case-insensitive substring. Banned users are hidden.
func (r UserRepository) SearchUsers(query string) []models.User {
	q := strings.ToLower(strings.TrimSpace(query))
	return r.Filter(func(u models.User) bool {
		if u.IsBanned {
			return false
		}
		if q == "" {
			return true
		}
		return strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Handle), q)
	})
}

// NormalizeHandle trims the handle and ensures the leading @
func NormalizeHandle(handle string) string {
	h := strings.TrimSpace(handle)
	if h == "" || strings.HasPrefix(h, "@") {
		return h
	}
	return "@" + h
}

func normalizeUser(u models.User) models.User {
	if u.FollowingIDs == nil {
		u.FollowingIDs = []string{}
	}
	if u.BelledUserIDs == nil {
		u.BelledUserIDs = []string{}
	}
	if u.Preferences == (models.Preferences{}) {
		u.Preferences = models.DefaultPreferences()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.Handle = NormalizeHandle(u.Handle)
	return u
}
