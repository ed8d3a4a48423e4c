package social

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// Registration is the input of Register
type Registration struct {
	Name     string
	Handle   string
	Email    string
	Password string
	Avatar   string
}

// ProfilePatch changes the non-nil fields of a profile
type ProfilePatch struct {
	Name       *string
	Bio        *string
	Location   *string
	Avatar     *string
	CoverImage *string
}

// PreferencesPatch changes the non-nil preferences
type PreferencesPatch struct {
	Theme            *models.Theme
	Language         *models.Language
	BreathingEnabled *bool
}

// NewUser builds a fully defaulted user with a hashed password. It does not
// store anything; it is used for registration and for seeding.
func NewUser(id, name, handle, email, password string, role models.Role) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	handle = repositories.NormalizeHandle(handle)
	return models.User{
		ID:            id,
		Name:          strings.TrimSpace(name),
		Handle:        handle,
		Email:         strings.TrimSpace(email),
		Password:      string(hash),
		Role:          role,
		Avatar:        "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(name),
		CoverImage:    "#0284c7",
		Bio:           "New member of Nexus.",
		Status:        &models.Status{Text: "New here!", Emoji: "✨"},
		FollowingIDs:  []string{},
		BelledUserIDs: []string{},
		Preferences:   models.DefaultPreferences(),
	}, nil
}

// Register creates an account and establishes its session
func (e *Engine) Register(ctx context.Context, r Registration) (*Session, error) {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Handle) == "" ||
		strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return nil, ErrMissingField
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.repos.Users.GetUserByEmail(strings.TrimSpace(r.Email)); ok {
		return nil, ErrEmailTaken
	}
	if _, ok := e.repos.Users.GetUserByHandle(r.Handle); ok {
		return nil, ErrHandleTaken
	}

	u, err := NewUser(e.newID(), r.Name, r.Handle, r.Email, r.Password, models.RoleUser)
	if err != nil {
		return nil, err
	}
	if r.Avatar != "" {
		u.Avatar = r.Avatar
	}
	u.JoinedAt = e.Now()

	users := append(e.repos.Users.All(), u)
	putErr := e.repos.Users.Put(ctx, users)
	s, sessErr := e.establish(ctx, u)
	return s, persist(putErr, sessErr)
}

// Login matches identifier against email or handle (with or without @),
// case-insensitively, and establishes the session.
func (e *Engine) Login(ctx context.Context, identifier, password string) (*Session, error) {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return nil, ErrMissingField
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.repos.Users.GetUserByEmail(id)
	if !ok {
		u, ok = e.repos.Users.GetUserByHandle(id)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if u.IsBanned {
		return nil, ErrBanned
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return e.establish(ctx, u)
}

// LoginFederated signs in a user verified by an external identity provider.
// The user is matched by provider uid, then by email, and created when absent.
func (e *Engine) LoginFederated(ctx context.Context, uid, email, name string) (*Session, error) {
	if uid == "" || strings.TrimSpace(email) == "" {
		return nil, ErrMissingField
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	users := e.repos.Users.All()
	i := indexOf(users, func(u models.User) bool { return u.FirebaseUID == uid })
	if i < 0 {
		i = indexOf(users, func(u models.User) bool { return strings.EqualFold(u.Email, email) })
	}

	if i < 0 {
		if name == "" {
			name, _, _ = strings.Cut(email, "@")
		}
		u, err := NewUser(e.newID(), name, e.freeHandle(users, name), email, e.newID(), models.RoleUser)
		if err != nil {
			return nil, err
		}
		u.FirebaseUID = uid
		u.JoinedAt = e.Now()
		users = append(users, u)
		i = len(users) - 1
	} else {
		if users[i].IsBanned {
			return nil, ErrBanned
		}
		users[i].FirebaseUID = uid
		if name != "" {
			users[i].Name = name
		}
	}

	putErr := e.repos.Users.Put(ctx, users)
	s, sessErr := e.establish(ctx, users[i])
	return s, persist(putErr, sessErr)
}

func (e *Engine) freeHandle(users []models.User, name string) string {
	base := strings.ToLower(strings.Join(strings.Fields(name), ""))
	if base == "" {
		base = "member"
	}
	handle := "@" + base
	for n := 2; indexOf(users, func(u models.User) bool { return strings.EqualFold(u.Handle, handle) }) >= 0; n++ {
		handle = fmt.Sprintf("@%s%d", base, n)
	}
	return handle
}

func (e *Engine) updateUser(ctx context.Context, id string, fn func(*models.User)) (bool, error) {
	users := e.repos.Users.All()
	i := indexOf(users, func(u models.User) bool { return u.ID == id })
	if i < 0 {
		return false, nil
	}
	fn(&users[i])
	return true, e.repos.Users.Put(ctx, users)
}

// UpdateProfile applies patch to the session user
func (e *Engine) UpdateProfile(ctx context.Context, s *Session, patch ProfilePatch) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("update profile", "no session")
		return nil
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return ErrMissingField
	}

	_, err := e.updateUser(ctx, actor.ID, func(u *models.User) {
		if patch.Name != nil {
			u.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Bio != nil {
			u.Bio = *patch.Bio
		}
		if patch.Location != nil {
			u.Location = *patch.Location
		}
		if patch.Avatar != nil {
			u.Avatar = *patch.Avatar
		}
		if patch.CoverImage != nil {
			u.CoverImage = *patch.CoverImage
		}
	})
	e.refresh(s)
	return err
}

// UpdateStatus sets the status line. An empty text clears it.
func (e *Engine) UpdateStatus(ctx context.Context, s *Session, text, emoji string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("update status", "no session")
		return nil
	}
	_, err := e.updateUser(ctx, actor.ID, func(u *models.User) {
		if strings.TrimSpace(text) == "" && emoji == "" {
			u.Status = nil
			return
		}
		u.Status = &models.Status{Text: text, Emoji: emoji}
	})
	e.refresh(s)
	return err
}

// TogglePrivacy flips the private flag of the session user
func (e *Engine) TogglePrivacy(ctx context.Context, s *Session) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("toggle privacy", "no session")
		return nil
	}
	_, err := e.updateUser(ctx, actor.ID, func(u *models.User) { u.IsPrivate = !u.IsPrivate })
	e.refresh(s)
	return err
}

// ChangePassword replaces the password when current matches
func (e *Engine) ChangePassword(ctx context.Context, s *Session, current, next string) error {
	if next == "" {
		return ErrMissingField
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("change password", "no session")
		return nil
	}
	if bcrypt.CompareHashAndPassword([]byte(actor.Password), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = e.updateUser(ctx, actor.ID, func(u *models.User) { u.Password = string(hash) })
	e.refresh(s)
	return err
}

// SetPreferences updates the user's preferences and mirrors them into the
// scalar preference keys
func (e *Engine) SetPreferences(ctx context.Context, s *Session, patch PreferencesPatch) error {
	if patch.Language != nil && !patch.Language.Valid() {
		return fmt.Errorf("unsupported language %q: %w", *patch.Language, ErrMissingField)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("set preferences", "no session")
		return nil
	}
	prefs := actor.Preferences
	if patch.Theme != nil {
		prefs.Theme = *patch.Theme
	}
	if patch.Language != nil {
		prefs.Language = *patch.Language
	}
	if patch.BreathingEnabled != nil {
		prefs.BreathingEnabled = *patch.BreathingEnabled
	}

	_, err := e.updateUser(ctx, actor.ID, func(u *models.User) { u.Preferences = prefs })
	e.refresh(s)
	return persist(err, e.applyPreferences(ctx, prefs))
}

// SetBaseConnected toggles external attestation of new posts for this context
func (e *Engine) SetBaseConnected(ctx context.Context, connected bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repos.Settings.BaseConnected.Put(ctx, connected)
}

// BanUser bans target. Only admins may ban, and admins cannot be banned.
// Banning the user of the current context clears its session.
func (e *Engine) BanUser(ctx context.Context, s *Session, targetID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok || actor.Role != models.RoleAdmin {
		e.ignored("ban user", "not an admin", "target", targetID)
		return nil
	}
	target, ok := e.repos.Users.GetUserByID(targetID)
	if !ok || target.Role == models.RoleAdmin || target.IsBanned {
		e.ignored("ban user", "target missing, admin or already banned", "target", targetID)
		return nil
	}

	_, err := e.updateUser(ctx, targetID, func(u *models.User) { u.IsBanned = true })
	return persist(err, e.clearCurrentUser(ctx, targetID))
}
