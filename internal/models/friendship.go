package models

import "time"

// Friendship tracks the direct-message streak of an unordered user pair.
// UserA is always the lexically smaller id.
type Friendship struct {
	UserA             string    `json:"user_a"`
	UserB             string    `json:"user_b"`
	StreakCount       int       `json:"streak_count"`
	LastInteractionAt time.Time `json:"last_interaction_at"`
}

// PairKey orders two user ids so that (a, b) and (b, a) map to the same record
func PairKey(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// Involves reports whether f belongs to the pair (a, b) in either order
func (f Friendship) Involves(a, b string) bool {
	x, y := PairKey(a, b)
	return f.UserA == x && f.UserB == y
}
