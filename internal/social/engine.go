// Package social owns every mutation of the social data set. Each operation
// reads the current repository snapshots, computes the next ones and writes
// them through. Unknown entities and unauthorized actors make an operation a
// silent no-op; validation failures are returned before anything changes;
// persistence failures are returned after the in-memory state was updated.
package social

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/repositories"
	"github.com/anonto42/nexus-social/backend/internal/store"
	"github.com/google/uuid"
)

var (
	ErrEmptyContent       = errors.New("content or media is required")
	ErrEmptyMessage       = errors.New("message needs content or a shared item")
	ErrMissingField       = errors.New("required field is missing")
	ErrEmailTaken         = errors.New("this email is already registered")
	ErrHandleTaken        = errors.New("this username is already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBanned             = errors.New("this account has been banned")
)

// IsPersistenceFailure reports whether err is (or joins) a failed durable
// write. The mutation itself took effect in memory.
func IsPersistenceFailure(err error) bool {
	return store.IsSaveError(err)
}

// Engine applies mutations for one context. Mutations are serialized.
type Engine struct {
	repos  *repositories.Set
	mu     sync.Mutex
	now    func() time.Time
	loc    *time.Location
	newID  func() string
	attest func() string
	log    *slog.Logger
}

type Option func(*Engine)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the time zone that defines calendar days for streaks
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithIDGenerator replaces the random identifier source
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func New(repos *repositories.Set, opts ...Option) *Engine {
	e := &Engine{
		repos:  repos,
		now:    time.Now,
		loc:    time.Local,
		newID:  uuid.NewString,
		attest: attestationID,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Repositories exposes the snapshots for read paths
func (e *Engine) Repositories() *repositories.Set {
	return e.repos
}

// Now is the engine clock in the engine's location
func (e *Engine) Now() time.Time {
	return e.now().In(e.loc)
}

// actor returns the live record of the session user. Unknown and banned
// users cannot act.
func (e *Engine) actor(s *Session) (models.User, bool) {
	if s == nil {
		return models.User{}, false
	}
	u, ok := e.repos.Users.GetUserByID(s.User.ID)
	if !ok || u.IsBanned {
		return models.User{}, false
	}
	return u, true
}

func (e *Engine) ignored(op, reason string, args ...any) {
	e.log.Debug("social: "+op+" ignored", append([]any{"reason", reason}, args...)...)
}

// persist joins the outcome of independent write-throughs
func persist(writes ...error) error {
	return errors.Join(writes...)
}

func indexOf[T any](items []T, pred func(T) bool) int {
	for i, it := range items {
		if pred(it) {
			return i
		}
	}
	return -1
}

func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

func attestationID() string {
	b := make([]byte, 20)
	_, _ = rand.Read(b)
	return "0x" + hex.EncodeToString(b)
}
