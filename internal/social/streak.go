package social

import (
	"time"

	"github.com/anonto42/nexus-social/backend/internal/models"
)

// advanceStreak applies one interaction at `at` to the pair record. prev is
// nil for a pair that never interacted. Calendar days are taken in loc.
func advanceStreak(prev *models.Friendship, a, b string, at time.Time, loc *time.Location) models.Friendship {
	if prev == nil {
		x, y := models.PairKey(a, b)
		return models.Friendship{UserA: x, UserB: y, StreakCount: 1, LastInteractionAt: at}
	}

	next := *prev
	switch gap := calendarDaysBetween(prev.LastInteractionAt, at, loc); {
	case gap <= 0: // same day
	case gap == 1:
		next.StreakCount++
	default:
		next.StreakCount = 1
	}
	if next.StreakCount < 1 {
		next.StreakCount = 1
	}
	next.LastInteractionAt = at
	return next
}

// calendarDaysBetween counts day boundaries crossed from `from` to `to` in loc
func calendarDaysBetween(from, to time.Time, loc *time.Location) int {
	f := from.In(loc)
	t := to.In(loc)
	fd := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC)
	td := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(td.Sub(fd).Hours() / 24)
}

// touchFriendship returns friendships with the pair's streak advanced
func (e *Engine) touchFriendship(friendships []models.Friendship, a, b string, at time.Time) []models.Friendship {
	i := indexOf(friendships, func(f models.Friendship) bool { return f.Involves(a, b) })
	if i < 0 {
		return append(friendships, advanceStreak(nil, a, b, at, e.loc))
	}
	friendships[i] = advanceStreak(&friendships[i], a, b, at, e.loc)
	return friendships
}
