package social

import (
	"context"

	"github.com/anonto42/nexus-social/backend/internal/models"
)

// Session is the acting user. Mutations that change the user's own profile
// refresh User from the users repository before returning.
type Session struct {
	User models.User
}

func (s *Session) UserID() string {
	if s == nil {
		return ""
	}
	return s.User.ID
}

// Resolve builds a session for userID. Unknown and banned users get none.
func (e *Engine) Resolve(userID string) *Session {
	if userID == "" {
		return nil
	}
	u, ok := e.repos.Users.GetUserByID(userID)
	if !ok || u.IsBanned {
		return nil
	}
	return &Session{User: u}
}

// Restore resolves the persisted current-user id, as on a cold start
func (e *Engine) Restore() *Session {
	return e.Resolve(e.repos.Settings.CurrentUserID.Get())
}

// Refresh reloads s from the users repository. It returns nil when the user
// is gone or banned, which callers treat as logged out.
func (e *Engine) Refresh(s *Session) *Session {
	if s == nil {
		return nil
	}
	return e.Resolve(s.User.ID)
}

// Logout forgets the persisted current-user id if it belongs to s
func (e *Engine) Logout(ctx context.Context, s *Session) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clearCurrentUser(ctx, s.UserID())
}

func (e *Engine) establish(ctx context.Context, u models.User) (*Session, error) {
	s := &Session{User: u}
	err := e.repos.Settings.CurrentUserID.Put(ctx, u.ID)
	return s, persist(err, e.applyPreferences(ctx, u.Preferences))
}

func (e *Engine) clearCurrentUser(ctx context.Context, userID string) error {
	if userID == "" || e.repos.Settings.CurrentUserID.Get() != userID {
		return nil
	}
	return e.repos.Settings.CurrentUserID.Put(ctx, "")
}

// refresh updates s in place after a write to the users repository
func (e *Engine) refresh(s *Session) {
	if s == nil {
		return
	}
	if u, ok := e.repos.Users.GetUserByID(s.User.ID); ok {
		s.User = u
	}
}

func (e *Engine) applyPreferences(ctx context.Context, p models.Preferences) error {
	settings := e.repos.Settings
	var errs []error
	if p.Theme != "" && settings.Theme.Get() != p.Theme {
		errs = append(errs, settings.Theme.Put(ctx, p.Theme))
	}
	if p.Language.Valid() && settings.Language.Get() != p.Language {
		errs = append(errs, settings.Language.Put(ctx, p.Language))
	}
	if settings.Breathing.Get() != p.BreathingEnabled {
		errs = append(errs, settings.Breathing.Put(ctx, p.BreathingEnabled))
	}
	return persist(errs...)
}
