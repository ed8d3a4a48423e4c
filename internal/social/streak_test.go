package social

import (
	"testing"
	"time"

	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d, hour int) time.Time {
	return time.Date(2024, 1, d, hour, 0, 0, 0, time.UTC)
}

func TestAdvanceStreak(t *testing.T) {
	cases := []struct {
		name  string
		prev  int
		last  time.Time
		at    time.Time
		wants int
	}{
		{"same day", 3, day(1, 9), day(1, 22), 3},
		{"next day", 3, day(1, 23), day(2, 1), 4},
		{"gap of two days", 3, day(1, 12), day(3, 12), 1},
		{"gap of a week", 7, day(1, 12), day(8, 12), 1},
		{"clock went backwards", 2, day(5, 12), day(4, 12), 2},
		{"corrupt count", 0, day(1, 12), day(1, 13), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prev := &models.Friendship{UserA: "a", UserB: "b", StreakCount: tc.prev, LastInteractionAt: tc.last}
			next := advanceStreak(prev, "a", "b", tc.at, time.UTC)
			assert.Equal(t, tc.wants, next.StreakCount)
			assert.Equal(t, tc.at, next.LastInteractionAt)
		})
	}
}

func TestAdvanceStreakStartsNewPair(t *testing.T) {
	next := advanceStreak(nil, "zed", "amy", day(1, 8), time.UTC)

	assert.Equal(t, "amy", next.UserA)
	assert.Equal(t, "zed", next.UserB)
	assert.Equal(t, 1, next.StreakCount)
}

func TestStreakScenario(t *testing.T) {
	f := newFixture(t)
	a := f.addUser("alice")
	f.addUser("bob")

	send := func(at time.Time) models.Friendship {
		t.Helper()
		f.now = at
		_, err := f.engine.SendDirectMessage(f.ctx, a, "bob", MessageInput{Content: "hey"})
		require.NoError(t, err)
		fr, ok := f.engine.Friendship("bob", "alice")
		require.True(t, ok)
		return fr
	}

	assert.Equal(t, 1, send(day(1, 10)).StreakCount)
	assert.Equal(t, 2, send(day(2, 10)).StreakCount)
	assert.Equal(t, 2, send(day(2, 18)).StreakCount)
	assert.Equal(t, 1, send(day(10, 10)).StreakCount)
	assert.Len(t, f.repos.Friendships.All(), 1)
}

func TestStreakUsesLocalCalendarDays(t *testing.T) {
	f := newFixture(t)
	f.engine.loc = time.FixedZone("UTC+9", 9*60*60)
	a := f.addUser("alice")
	f.addUser("bob")

	// 23:00 and 01:00 local are one UTC day but two local days
	f.now = time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC)
	_, err := f.engine.SendDirectMessage(f.ctx, a, "bob", MessageInput{Content: "late"})
	require.NoError(t, err)
	f.now = time.Date(2024, 1, 1, 16, 0, 0, 0, time.UTC)
	_, err = f.engine.SendDirectMessage(f.ctx, a, "bob", MessageInput{Content: "early"})
	require.NoError(t, err)

	fr, ok := f.engine.Friendship("alice", "bob")
	require.True(t, ok)
	assert.Equal(t, 2, fr.StreakCount)
}

func TestFriendshipSurvivesUnfollow(t *testing.T) {
	f := newFixture(t)
	a := f.addUser("alice")
	f.addUser("bob")

	_, err := f.engine.Follow(f.ctx, a, "bob")
	require.NoError(t, err)
	_, err = f.engine.SendDirectMessage(f.ctx, a, "bob", MessageInput{Content: "hi"})
	require.NoError(t, err)
	_, err = f.engine.Follow(f.ctx, a, "bob")
	require.NoError(t, err)

	_, ok := f.engine.Friendship("alice", "bob")
	assert.True(t, ok)
}
