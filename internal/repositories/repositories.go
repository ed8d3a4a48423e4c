package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/anonto42/nexus-social/backend/internal/broadcast"
	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/store"
)

// Seed holds the values used when a collection has never been written
type Seed struct {
	Users []models.User
	Posts []models.Post
	Clans []models.Clan
}

// Set is every repository of one context. Repositories are independent:
// a mutation touching two of them performs two write-throughs.
type Set struct {
	Users          UserRepository
	Posts          PostRepository
	Clans          ClanRepository
	ClanMessages   ClanMessageRepository
	Stories        StoryRepository
	Notifications  NotificationRepository
	DirectMessages DirectMessageRepository
	Friendships    FriendshipRepository
	Settings       SettingsRepository

	hydrators map[string]func(context.Context)
	changes   *changeFeed
}

// New builds the repositories over st. now stamps legacy records missing a creation time.
func New(st *store.Store, seed Seed, now func() time.Time) *Set {
	changes := &changeFeed{}
	s := &Set{
		Users:          UserRepository{newCollection(store.KeyUsers, st, changes, seed.Users, normalizeUser)},
		Posts:          PostRepository{newCollection(store.KeyPosts, st, changes, seed.Posts, normalizePost)},
		Clans:          ClanRepository{newCollection(store.KeyClans, st, changes, seed.Clans, clanNormalizer(now))},
		ClanMessages:   ClanMessageRepository{newCollection[models.ClanMessage](store.KeyClanMessages, st, changes, nil, nil)},
		Stories:        StoryRepository{newCollection(store.KeyStories, st, changes, nil, normalizeStory)},
		Notifications:  NotificationRepository{newCollection[models.Notification](store.KeyNotifications, st, changes, nil, nil)},
		DirectMessages: DirectMessageRepository{newCollection(store.KeyDirectMessages, st, changes, nil, normalizeDirectMessage)},
		Friendships:    FriendshipRepository{newCollection[models.Friendship](store.KeyFriendships, st, changes, nil, nil)},
		Settings:       newSettingsRepository(st, changes),
		changes:        changes,
	}

	s.hydrators = map[string]func(context.Context){
		store.KeyUsers:          s.Users.Hydrate,
		store.KeyPosts:          s.Posts.Hydrate,
		store.KeyClans:          s.Clans.Hydrate,
		store.KeyClanMessages:   s.ClanMessages.Hydrate,
		store.KeyStories:        s.Stories.Hydrate,
		store.KeyNotifications:  s.Notifications.Hydrate,
		store.KeyDirectMessages: s.DirectMessages.Hydrate,
		store.KeyFriendships:    s.Friendships.Hydrate,
	}
	for key, hydrate := range s.Settings.hydrators() {
		s.hydrators[key] = hydrate
	}
	return s
}

// Hydrate loads every repository from the store
func (s *Set) Hydrate(ctx context.Context) {
	for _, hydrate := range s.hydrators {
		hydrate(ctx)
	}
}

// Reload replaces the repository stored under topic. Unknown topics are ignored.
func (s *Set) Reload(ctx context.Context, topic string) bool {
	hydrate, ok := s.hydrators[topic]
	if !ok {
		slog.Debug("repositories: ignoring unknown topic", "topic", topic)
		return false
	}
	hydrate(ctx)
	return true
}

type subscribable interface {
	Subscribe(h broadcast.Handler) func()
}

// Bind reloads repositories whenever one of the sources signals a change.
// The returned func detaches every binding.
func (s *Set) Bind(sources ...subscribable) func() {
	unsubs := make([]func(), 0, len(sources))
	for _, src := range sources {
		unsubs = append(unsubs, src.Subscribe(func(ctx context.Context, topic string) {
			s.Reload(ctx, topic)
		}))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// OnChange registers fn to run after any repository is written locally or reloaded
func (s *Set) OnChange(fn func(key string)) func() {
	return s.changes.subscribe(fn)
}
