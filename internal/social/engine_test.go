package social

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/anonto42/nexus-social/backend/internal/broadcast"
	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/repositories"
	"github.com/anonto42/nexus-social/backend/internal/store"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t      *testing.T
	ctx    context.Context
	sub    *store.MemorySubstrate
	hub    *broadcast.Hub
	now    time.Time
	engine *Engine
	repos  *repositories.Set
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:   t,
		ctx: context.Background(),
		sub: store.NewMemorySubstrate(0),
		hub: broadcast.NewHub(),
		now: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	}
	f.engine, f.repos = f.newContext("a", true)
	return f
}

// newContext starts another engine on the shared substrate. bind controls
// whether it reloads on broadcasts.
func (f *fixture) newContext(origin string, bind bool) (*Engine, *repositories.Set) {
	bus := f.hub.Join(origin)
	st := store.New(f.sub, origin, store.WithPublisher(bus))
	repos := repositories.New(st, repositories.Seed{}, f.clock)
	repos.Hydrate(f.ctx)
	if bind {
		repos.Bind(bus)
	}
	seq := 0
	e := New(repos,
		WithClock(f.clock),
		WithLocation(time.UTC),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("%s-%d", origin, seq)
		}),
	)
	return e, repos
}

func (f *fixture) clock() time.Time {
	return f.now
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// addUser stores a user without going through registration
func (f *fixture) addUser(id string, mutate ...func(*models.User)) *Session {
	f.t.Helper()
	u := models.User{
		ID:            id,
		Name:          id,
		Handle:        "@" + id,
		Email:         id + "@example.com",
		Role:          models.RoleUser,
		FollowingIDs:  []string{},
		BelledUserIDs: []string{},
		Preferences:   models.DefaultPreferences(),
	}
	for _, m := range mutate {
		m(&u)
	}
	require.NoError(f.t, f.repos.Users.Put(f.ctx, append(f.repos.Users.All(), u)))
	return &Session{User: u}
}

func (f *fixture) user(id string) models.User {
	f.t.Helper()
	u, ok := f.repos.Users.GetUserByID(id)
	require.True(f.t, ok, "user %s", id)
	return u
}

func (f *fixture) notificationsFor(id string, kind models.NotificationType) []models.Notification {
	return f.repos.Notifications.Filter(func(n models.Notification) bool {
		return n.RecipientID == id && n.Type == kind
	})
}

func (f *fixture) clan(id string) models.Clan {
	f.t.Helper()
	c, ok := f.repos.Clans.GetClanByID(id)
	require.True(f.t, ok, "clan %s", id)
	return c
}

func (f *fixture) newClan(owner *Session) models.Clan {
	f.t.Helper()
	c, err := f.engine.CreateClan(f.ctx, owner, "Night Owls", "", "")
	require.NoError(f.t, err)
	require.NotNil(f.t, c)
	return *c
}

func asAdmin(u *models.User) { u.Role = models.RoleAdmin }
