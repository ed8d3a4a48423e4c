package social

import (
	"context"

	"github.com/anonto42/nexus-social/backend/internal/models"
)

type notice struct {
	recipient string
	actor     string
	kind      models.NotificationType
	postID    string
	clanID    string
}

// notify prepends one notification per notice, skipping self-targeted ones,
// and writes the collection once.
func (e *Engine) notify(ctx context.Context, notices ...notice) error {
	var fresh []models.Notification
	for _, n := range notices {
		if n.recipient == "" || n.recipient == n.actor {
			continue
		}
		fresh = append(fresh, models.Notification{
			ID:          e.newID(),
			RecipientID: n.recipient,
			ActorID:     n.actor,
			Type:        n.kind,
			PostID:      n.postID,
			ClanID:      n.clanID,
			CreatedAt:   e.Now(),
		})
	}
	if len(fresh) == 0 {
		return nil
	}
	return e.repos.Notifications.Put(ctx, append(fresh, e.repos.Notifications.All()...))
}

// MarkNotificationsAsRead marks every notification of the session user as read
func (e *Engine) MarkNotificationsAsRead(ctx context.Context, s *Session) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("mark notifications read", "no session")
		return nil
	}

	notes := e.repos.Notifications.All()
	changed := false
	for i := range notes {
		if notes[i].RecipientID == actor.ID && !notes[i].Read {
			notes[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return e.repos.Notifications.Put(ctx, notes)
}

// InviteStatus derives the state of a CLAN_INVITE notification from the live
// clan. A missing clan makes the invite expired.
func (e *Engine) InviteStatus(n models.Notification) models.InviteStatus {
	clan, ok := e.repos.Clans.GetClanByID(n.ClanID)
	switch {
	case !ok:
		return models.InviteExpired
	case clan.IsMember(n.RecipientID):
		return models.InviteAccepted
	case models.ContainsID(clan.InvitedIDs, n.RecipientID):
		return models.InvitePending
	default:
		return models.InviteExpired
	}
}
