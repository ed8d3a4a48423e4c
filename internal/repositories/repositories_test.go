package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/nexus-social/backend/internal/broadcast"
	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestHydrateUsesSeedWhenAbsent(t *testing.T) {
	st := store.New(store.NewMemorySubstrate(0), "a")
	seed := Seed{Users: []models.User{{ID: "u1", Handle: "ada"}}}
	repos := New(st, seed, clock)

	repos.Hydrate(context.Background())

	u, ok := repos.Users.GetUserByID("u1")
	require.True(t, ok)
	assert.Equal(t, "@ada", u.Handle)
	assert.Equal(t, models.DefaultPreferences(), u.Preferences)
	assert.Equal(t, models.ThemeLight, repos.Settings.Theme.Get())
}

func TestHydrateDefaultsLegacyRecords(t *testing.T) {
	sub := store.NewMemorySubstrate(0)
	sub.Put(store.KeyUsers, []byte(`[{"id":"u1","name":"Ada","handle":"@ada"}]`))
	sub.Put(store.KeyClans, []byte(`[{"id":"c1","owner_id":"u1","member_ids":["u1"],"experience":2500}]`))
	sub.Put(store.KeyLanguage, []byte(`"xx"`))
	repos := New(store.New(sub, "a"), Seed{}, clock)

	repos.Hydrate(context.Background())

	u, _ := repos.Users.GetUserByID("u1")
	assert.NotNil(t, u.FollowingIDs)
	assert.NotNil(t, u.BelledUserIDs)
	assert.Equal(t, models.RoleUser, u.Role)

	c, _ := repos.Clans.GetClanByID("c1")
	assert.Equal(t, 3, c.Level)
	assert.Equal(t, fixedNow, c.CreatedAt)
	assert.NotNil(t, c.RoleAssignments)
	assert.NotNil(t, c.InvitedIDs)

	assert.Equal(t, models.LanguageEnglish, repos.Settings.Language.Get())
}

func TestPutWritesThroughAndUpdatesSnapshot(t *testing.T) {
	ctx := context.Background()
	sub := store.NewMemorySubstrate(0)
	repos := New(store.New(sub, "a"), Seed{}, clock)
	repos.Hydrate(ctx)

	require.NoError(t, repos.Posts.Put(ctx, []models.Post{{ID: "p1", AuthorID: "u1"}}))

	_, ok := repos.Posts.GetPostByID("p1")
	assert.True(t, ok)
	raw, err := sub.Get(ctx, store.KeyPosts)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"p1"`)
}

// readingPublisher reads the posts collection while its write is being published
type readingPublisher struct {
	repos *Set
	seen  []int
}

func (p *readingPublisher) Publish(_ context.Context, topic string) error {
	if topic == store.KeyPosts {
		p.seen = append(p.seen, len(p.repos.Posts.All()))
	}
	return nil
}

func TestCollectionReadableWhilePublishing(t *testing.T) {
	ctx := context.Background()
	pub := &readingPublisher{}
	repos := New(store.New(store.NewMemorySubstrate(0), "a", store.WithPublisher(pub)), Seed{}, clock)
	pub.repos = repos
	repos.Hydrate(ctx)

	require.NoError(t, repos.Posts.Put(ctx, []models.Post{{ID: "p1"}, {ID: "p2"}}))

	assert.Equal(t, []int{2}, pub.seen)
}

func TestPutKeepsSnapshotWhenWriteFails(t *testing.T) {
	ctx := context.Background()
	st := store.New(store.NewMemorySubstrate(0), "a", store.WithMaxValueBytes(4))
	repos := New(st, Seed{}, clock)

	err := repos.Posts.Put(ctx, []models.Post{{ID: "p1"}})

	assert.ErrorIs(t, err, store.ErrQuotaExceeded)
	_, ok := repos.Posts.GetPostByID("p1")
	assert.True(t, ok)
}

func TestBroadcastReloadsOtherContext(t *testing.T) {
	ctx := context.Background()
	sub := store.NewMemorySubstrate(0)
	hub := broadcast.NewHub()
	busA, busB := hub.Join("a"), hub.Join("b")

	a := New(store.New(sub, "a", store.WithPublisher(busA)), Seed{}, clock)
	b := New(store.New(sub, "b", store.WithPublisher(busB)), Seed{}, clock)
	a.Hydrate(ctx)
	b.Hydrate(ctx)
	b.Bind(busB)

	var changed []string
	b.OnChange(func(key string) { changed = append(changed, key) })

	require.NoError(t, a.Stories.Put(ctx, []models.Story{{ID: "s1"}}))

	_, ok := b.Stories.GetStoryByID("s1")
	assert.True(t, ok)
	assert.Equal(t, []string{store.KeyStories}, changed)
}

func TestReloadIgnoresUnknownTopic(t *testing.T) {
	repos := New(store.New(store.NewMemorySubstrate(0), "a"), Seed{}, clock)

	assert.False(t, repos.Reload(context.Background(), "nope"))
	assert.True(t, repos.Reload(context.Background(), store.KeyFriendships))
}

func TestGroupedNotifications(t *testing.T) {
	ctx := context.Background()
	repos := New(store.New(store.NewMemorySubstrate(0), "a"), Seed{}, clock)
	at := func(d time.Duration) time.Time { return fixedNow.Add(-d) }
	require.NoError(t, repos.Notifications.Put(ctx, []models.Notification{
		{ID: "n1", RecipientID: "u1", CreatedAt: at(time.Hour)},
		{ID: "n2", RecipientID: "u1", CreatedAt: at(20 * time.Hour), Read: true},
		{ID: "n3", RecipientID: "u1", CreatedAt: at(72 * time.Hour)},
		{ID: "n4", RecipientID: "u1", CreatedAt: at(30 * 24 * time.Hour)},
		{ID: "n5", RecipientID: "u2", CreatedAt: at(time.Hour)},
	}))

	g := repos.Notifications.GetGrouped("u1", fixedNow)

	assert.Len(t, g.Today, 1)
	assert.Len(t, g.Yesterday, 1)
	assert.Len(t, g.ThisWeek, 1)
	assert.Len(t, g.Older, 1)
	assert.Equal(t, 3, repos.Notifications.GetUnreadCount("u1"))
}

func TestFeedPagination(t *testing.T) {
	ctx := context.Background()
	repos := New(store.New(store.NewMemorySubstrate(0), "a"), Seed{}, clock)
	require.NoError(t, repos.Posts.Put(ctx, []models.Post{
		{ID: "p1", AuthorID: "u2"},
		{ID: "p2", AuthorID: "u3"},
		{ID: "p3", AuthorID: "u1"},
		{ID: "p4", AuthorID: "u2", ClanID: "c1"},
	}))
	viewer := models.User{ID: "u1", FollowingIDs: []string{"u2"}}

	all := repos.Posts.GetFeed(viewer, 0, 0)
	require.Len(t, all, 2)
	assert.Equal(t, "p1", all[0].ID)
	assert.Equal(t, "p3", all[1].ID)

	assert.Len(t, repos.Posts.GetFeed(viewer, 1, 1), 1)
	assert.Empty(t, repos.Posts.GetFeed(viewer, 5, 1))
}
