package social

import (
	"context"

	"github.com/anonto42/nexus-social/backend/internal/models"
)

// Follow toggles target in the actor's following set. Following increments
// both counts and notifies target; unfollowing decrements them, floored at 0.
// It returns whether the actor now follows target.
func (e *Engine) Follow(ctx context.Context, s *Session, targetID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok || actor.ID == targetID {
		e.ignored("follow", "no session or self", "target", targetID)
		return false, nil
	}

	users := e.repos.Users.All()
	ai := indexOf(users, func(u models.User) bool { return u.ID == actor.ID })
	ti := indexOf(users, func(u models.User) bool { return u.ID == targetID })
	if ti < 0 {
		e.ignored("follow", "target not found", "target", targetID)
		return false, nil
	}

	following, added := models.ToggleID(users[ai].FollowingIDs, targetID)
	users[ai].FollowingIDs = following
	if added {
		users[ai].FollowingCount++
		users[ti].FollowerCount++
	} else {
		users[ai].FollowingCount = max(0, users[ai].FollowingCount-1)
		users[ti].FollowerCount = max(0, users[ti].FollowerCount-1)
	}

	errUsers := e.repos.Users.Put(ctx, users)
	e.refresh(s)

	var errNotes error
	if added {
		errNotes = e.notify(ctx, notice{recipient: targetID, actor: actor.ID, kind: models.NotificationFollow})
	}
	return added, persist(errUsers, errNotes)
}

// ToggleBell toggles NEW_POST notifications from target for the actor.
// It returns whether the bell is now on.
func (e *Engine) ToggleBell(ctx context.Context, s *Session, targetID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok || actor.ID == targetID {
		e.ignored("toggle bell", "no session or self", "target", targetID)
		return false, nil
	}
	if _, ok := e.repos.Users.GetUserByID(targetID); !ok {
		e.ignored("toggle bell", "target not found", "target", targetID)
		return false, nil
	}

	var on bool
	_, err := e.updateUser(ctx, actor.ID, func(u *models.User) {
		u.BelledUserIDs, on = models.ToggleID(u.BelledUserIDs, targetID)
	})
	e.refresh(s)
	return on, err
}

// Friends returns the users that userID follows and that follow userID back
func (e *Engine) Friends(userID string) []models.User {
	u, ok := e.repos.Users.GetUserByID(userID)
	if !ok {
		return nil
	}
	return e.repos.Users.Filter(func(other models.User) bool {
		return u.Follows(other.ID) && other.Follows(u.ID)
	})
}

// Friendship returns the streak record of the unordered pair (a, b)
func (e *Engine) Friendship(a, b string) (models.Friendship, bool) {
	return e.repos.Friendships.GetFriendship(a, b)
}
