package social

import (
	"context"
	"maps"
	"net/url"
	"strings"

	"github.com/anonto42/nexus-social/backend/internal/models"
)

// loadClan returns the clans snapshot and the index of clanID, -1 when absent
func (e *Engine) loadClan(clanID string) ([]models.Clan, int) {
	clans := e.repos.Clans.All()
	return clans, indexOf(clans, func(c models.Clan) bool { return c.ID == clanID })
}

// CreateClan creates a clan owned by the actor, who is its only member
func (e *Engine) CreateClan(ctx context.Context, s *Session, name, description, banner string) (*models.Clan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingField
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("create clan", "no session")
		return nil, nil
	}
	if banner == "" {
		banner = "https://picsum.photos/seed/" + url.PathEscape(name) + "/800/200"
	}
	clan := models.Clan{
		ID:              e.newID(),
		Name:            name,
		Description:     description,
		Banner:          banner,
		OwnerID:         actor.ID,
		ModeratorIDs:    []string{},
		MemberIDs:       []string{actor.ID},
		InvitedIDs:      []string{},
		MemberCount:     1,
		Level:           models.LevelForExperience(0),
		CustomRoles:     []models.ClanRole{},
		RoleAssignments: map[string][]string{},
		CreatedAt:       e.Now(),
	}
	return &clan, e.repos.Clans.Put(ctx, append(e.repos.Clans.All(), clan))
}

// JoinClan adds the actor to the clan if absent and awards join experience.
// Experience is awarded on every call.
func (e *Engine) JoinClan(ctx context.Context, s *Session, clanID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("join clan", "no session")
		return nil
	}
	clans, i := e.loadClan(clanID)
	if i < 0 {
		e.ignored("join clan", "clan not found", "clan", clanID)
		return nil
	}
	if !clans[i].IsMember(actor.ID) {
		clans[i].MemberIDs = models.AddID(clans[i].MemberIDs, actor.ID)
		clans[i].MemberCount++
	}
	clans[i] = gainExperience(clans[i], XPJoin)
	return e.repos.Clans.Put(ctx, clans)
}

// InviteToClan invites target on behalf of a clan member. Members and
// already invited users are skipped.
func (e *Engine) InviteToClan(ctx context.Context, s *Session, clanID, targetID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("invite to clan", "no session")
		return nil
	}
	clans, i := e.loadClan(clanID)
	if i < 0 || !clans[i].IsMember(actor.ID) {
		e.ignored("invite to clan", "clan not found or actor not a member", "clan", clanID)
		return nil
	}
	if _, ok := e.repos.Users.GetUserByID(targetID); !ok {
		e.ignored("invite to clan", "target not found", "target", targetID)
		return nil
	}
	if clans[i].IsMember(targetID) || models.ContainsID(clans[i].InvitedIDs, targetID) {
		return nil
	}

	clans[i].InvitedIDs = models.AddID(clans[i].InvitedIDs, targetID)
	errClans := e.repos.Clans.Put(ctx, clans)
	errNotes := e.notify(ctx, notice{recipient: targetID, actor: actor.ID, kind: models.NotificationClanInvite, clanID: clanID})
	return persist(errClans, errNotes)
}

// RespondToClanInvite always withdraws the actor's invitation. Accepting
// also adds the actor as a member and awards join experience.
func (e *Engine) RespondToClanInvite(ctx context.Context, s *Session, clanID string, accept bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("respond to invite", "no session")
		return nil
	}
	clans, i := e.loadClan(clanID)
	if i < 0 {
		e.ignored("respond to invite", "clan not found", "clan", clanID)
		return nil
	}

	clans[i].InvitedIDs = models.RemoveID(clans[i].InvitedIDs, actor.ID)
	if accept && !clans[i].IsMember(actor.ID) {
		clans[i].MemberIDs = models.AddID(clans[i].MemberIDs, actor.ID)
		clans[i].MemberCount++
		clans[i] = gainExperience(clans[i], XPJoin)
	}
	return e.repos.Clans.Put(ctx, clans)
}

// PromoteModerator makes a member a moderator. Owner only.
func (e *Engine) PromoteModerator(ctx context.Context, s *Session, clanID, memberID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("promote", "no session")
		return nil
	}
	clans, i := e.loadClan(clanID)
	if i < 0 || clans[i].OwnerID != actor.ID {
		e.ignored("promote", "clan not found or not the owner", "clan", clanID)
		return nil
	}
	c := clans[i]
	if memberID == c.OwnerID || !c.IsMember(memberID) || c.IsModerator(memberID) {
		return nil
	}
	clans[i].ModeratorIDs = models.AddID(c.ModeratorIDs, memberID)
	return e.repos.Clans.Put(ctx, clans)
}

// DemoteModerator removes moderator status. Owner only.
func (e *Engine) DemoteModerator(ctx context.Context, s *Session, clanID, memberID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("demote", "no session")
		return nil
	}
	clans, i := e.loadClan(clanID)
	if i < 0 || clans[i].OwnerID != actor.ID {
		e.ignored("demote", "clan not found or not the owner", "clan", clanID)
		return nil
	}
	if !clans[i].IsModerator(memberID) {
		return nil
	}
	clans[i].ModeratorIDs = models.RemoveID(clans[i].ModeratorIDs, memberID)
	return e.repos.Clans.Put(ctx, clans)
}

// KickMember removes a member together with their moderator status and role
// assignments. The owner may kick anyone but themselves; a moderator may kick
// plain members only.
func (e *Engine) KickMember(ctx context.Context, s *Session, clanID, memberID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("kick", "no session")
		return nil
	}
	clans, i := e.loadClan(clanID)
	if i < 0 || !clans[i].IsMember(memberID) {
		e.ignored("kick", "clan or member not found", "clan", clanID, "member", memberID)
		return nil
	}
	c := clans[i]
	byOwner := c.OwnerID == actor.ID && memberID != actor.ID
	byModerator := c.IsModerator(actor.ID) && !c.IsModerator(memberID) && memberID != c.OwnerID
	if !byOwner && !byModerator {
		e.ignored("kick", "not allowed", "clan", clanID, "member", memberID)
		return nil
	}

	roles := maps.Clone(c.RoleAssignments)
	delete(roles, memberID)
	clans[i].MemberIDs = models.RemoveID(c.MemberIDs, memberID)
	clans[i].ModeratorIDs = models.RemoveID(c.ModeratorIDs, memberID)
	clans[i].MemberCount = len(clans[i].MemberIDs)
	clans[i].RoleAssignments = roles
	return e.repos.Clans.Put(ctx, clans)
}

// UpdateClanBanner replaces the banner. Owner or moderator.
func (e *Engine) UpdateClanBanner(ctx context.Context, s *Session, clanID, banner string) error {
	if strings.TrimSpace(banner) == "" {
		return ErrMissingField
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("update banner", "no session")
		return nil
	}
	clans, i := e.loadClan(clanID)
	if i < 0 || (clans[i].OwnerID != actor.ID && !clans[i].IsModerator(actor.ID)) {
		e.ignored("update banner", "clan not found or not allowed", "clan", clanID)
		return nil
	}
	clans[i].Banner = banner
	return e.repos.Clans.Put(ctx, clans)
}

// AddClanRole defines a custom role. Owner only.
func (e *Engine) AddClanRole(ctx context.Context, s *Session, clanID, name, color string) (*models.ClanRole, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingField
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("add clan role", "no session")
		return nil, nil
	}
	clans, i := e.loadClan(clanID)
	if i < 0 || clans[i].OwnerID != actor.ID {
		e.ignored("add clan role", "clan not found or not the owner", "clan", clanID)
		return nil, nil
	}

	role := models.ClanRole{ID: e.newID(), Name: strings.TrimSpace(name), Color: color}
	roles := make([]models.ClanRole, 0, len(clans[i].CustomRoles)+1)
	clans[i].CustomRoles = append(append(roles, clans[i].CustomRoles...), role)
	return &role, e.repos.Clans.Put(ctx, clans)
}

// AssignClanRole toggles roleID for a member. Owner or moderator. An empty
// roleID changes nothing.
func (e *Engine) AssignClanRole(ctx context.Context, s *Session, clanID, memberID, roleID string) error {
	if roleID == "" {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("assign clan role", "no session")
		return nil
	}
	clans, i := e.loadClan(clanID)
	if i < 0 || (clans[i].OwnerID != actor.ID && !clans[i].IsModerator(actor.ID)) {
		e.ignored("assign clan role", "clan not found or not allowed", "clan", clanID)
		return nil
	}
	if !clans[i].IsMember(memberID) || !clans[i].HasRole(roleID) {
		e.ignored("assign clan role", "member or role not found", "member", memberID, "role", roleID)
		return nil
	}

	assignments := maps.Clone(clans[i].RoleAssignments)
	if assignments == nil {
		assignments = map[string][]string{}
	}
	assignments[memberID], _ = models.ToggleID(assignments[memberID], roleID)
	clans[i].RoleAssignments = assignments
	return e.repos.Clans.Put(ctx, clans)
}

// SendClanMessage posts to the clan chat and awards chat experience. Members only.
func (e *Engine) SendClanMessage(ctx context.Context, s *Session, clanID, text string) (*models.ClanMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("send clan message", "no session")
		return nil, nil
	}
	clan, ok := e.repos.Clans.GetClanByID(clanID)
	if !ok || !clan.IsMember(actor.ID) {
		e.ignored("send clan message", "clan not found or not a member", "clan", clanID)
		return nil, nil
	}

	msg := models.ClanMessage{ID: e.newID(), ClanID: clanID, UserID: actor.ID, Text: text, CreatedAt: e.Now()}
	errMessages := e.repos.ClanMessages.Put(ctx, append(e.repos.ClanMessages.All(), msg))
	errClans := e.awardClanXP(ctx, clanID, XPChatMessage)
	return &msg, persist(errMessages, errClans)
}
