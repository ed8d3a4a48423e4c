package social

import (
	"testing"

	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowThenUnfollow(t *testing.T) {
	f := newFixture(t)
	a := f.addUser("alice")
	f.addUser("bob")

	followed, err := f.engine.Follow(f.ctx, a, "bob")
	require.NoError(t, err)
	assert.True(t, followed)

	assert.Equal(t, 1, f.user("alice").FollowingCount)
	assert.Contains(t, f.user("alice").FollowingIDs, "bob")
	assert.Equal(t, 1, f.user("bob").FollowerCount)
	assert.Len(t, f.notificationsFor("bob", models.NotificationFollow), 1)

	followed, err = f.engine.Follow(f.ctx, a, "bob")
	require.NoError(t, err)
	assert.False(t, followed)

	assert.Equal(t, 0, f.user("alice").FollowingCount)
	assert.NotContains(t, f.user("alice").FollowingIDs, "bob")
	assert.Equal(t, 0, f.user("bob").FollowerCount)
	assert.Len(t, f.notificationsFor("bob", models.NotificationFollow), 1, "unfollow does not notify")
}

func TestFollowRefreshesSession(t *testing.T) {
	f := newFixture(t)
	a := f.addUser("alice")
	f.addUser("bob")

	_, err := f.engine.Follow(f.ctx, a, "bob")
	require.NoError(t, err)

	assert.Equal(t, []string{"bob"}, a.User.FollowingIDs)
	assert.Equal(t, 1, a.User.FollowingCount)
}

func TestFollowSelfOrUnknownIsNoop(t *testing.T) {
	f := newFixture(t)
	a := f.addUser("alice")

	_, err := f.engine.Follow(f.ctx, a, "alice")
	require.NoError(t, err)
	_, err = f.engine.Follow(f.ctx, a, "ghost")
	require.NoError(t, err)

	assert.Equal(t, 0, f.user("alice").FollowingCount)
	assert.Empty(t, f.repos.Notifications.All())
}

func TestUnfollowFloorsDriftedCounts(t *testing.T) {
	f := newFixture(t)
	a := f.addUser("alice", func(u *models.User) { u.FollowingIDs = []string{"bob"} })
	f.addUser("bob")

	_, err := f.engine.Follow(f.ctx, a, "bob")
	require.NoError(t, err)

	assert.Equal(t, 0, f.user("alice").FollowingCount)
	assert.Equal(t, 0, f.user("bob").FollowerCount)
}

func TestBannedActorCannotFollow(t *testing.T) {
	f := newFixture(t)
	a := f.addUser("alice", func(u *models.User) { u.IsBanned = true })
	f.addUser("bob")

	_, err := f.engine.Follow(f.ctx, a, "bob")
	require.NoError(t, err)

	assert.Equal(t, 0, f.user("bob").FollowerCount)
}

func TestToggleBell(t *testing.T) {
	f := newFixture(t)
	a := f.addUser("alice")
	f.addUser("bob")

	on, err := f.engine.ToggleBell(f.ctx, a, "bob")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []string{"bob"}, a.User.BelledUserIDs)

	on, err = f.engine.ToggleBell(f.ctx, a, "bob")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, f.user("alice").BelledUserIDs)
}

func TestFriendsRequireMutualFollow(t *testing.T) {
	f := newFixture(t)
	a := f.addUser("alice")
	b := f.addUser("bob")
	f.addUser("carol")

	_, err := f.engine.Follow(f.ctx, a, "bob")
	require.NoError(t, err)
	_, err = f.engine.Follow(f.ctx, a, "carol")
	require.NoError(t, err)
	_, err = f.engine.Follow(f.ctx, b, "alice")
	require.NoError(t, err)

	friends := f.engine.Friends("alice")
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].ID)
}
