package social

import (
	"context"
	"maps"
	"strings"

	"github.com/anonto42/nexus-social/backend/internal/models"
)

// MessageInput is the input of SendDirectMessage
type MessageInput struct {
	Type          models.MessageType
	Content       string
	SharedPostID  string
	SharedStoryID string
}

// SendDirectMessage stores an unread message, advances the pair's streak and
// notifies the receiver
func (e *Engine) SendDirectMessage(ctx context.Context, s *Session, receiverID string, in MessageInput) (*models.DirectMessage, error) {
	if strings.TrimSpace(in.Content) == "" && in.SharedPostID == "" && in.SharedStoryID == "" {
		return nil, ErrEmptyMessage
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok || actor.ID == receiverID {
		e.ignored("send message", "no session or self", "receiver", receiverID)
		return nil, nil
	}
	if _, ok := e.repos.Users.GetUserByID(receiverID); !ok {
		e.ignored("send message", "receiver not found", "receiver", receiverID)
		return nil, nil
	}

	kind := in.Type
	if kind == "" {
		kind = models.MessageText
	}
	now := e.Now()
	msg := models.DirectMessage{
		ID:            e.newID(),
		SenderID:      actor.ID,
		ReceiverID:    receiverID,
		Type:          kind,
		Content:       in.Content,
		SharedPostID:  in.SharedPostID,
		SharedStoryID: in.SharedStoryID,
		Reactions:     map[string]string{},
		CreatedAt:     now,
	}

	errMessages := e.repos.DirectMessages.Put(ctx, append(e.repos.DirectMessages.All(), msg))
	errFriendships := e.repos.Friendships.Put(ctx, e.touchFriendship(e.repos.Friendships.All(), actor.ID, receiverID, now))
	errNotes := e.notify(ctx, notice{recipient: receiverID, actor: actor.ID, kind: models.NotificationMessage})
	return &msg, persist(errMessages, errFriendships, errNotes)
}

// EditDirectMessage replaces the content of a message sent by the actor
func (e *Engine) EditDirectMessage(ctx context.Context, s *Session, messageID, content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyMessage
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("edit message", "no session")
		return nil
	}
	msgs := e.repos.DirectMessages.All()
	i := indexOf(msgs, func(m models.DirectMessage) bool { return m.ID == messageID })
	if i < 0 || msgs[i].SenderID != actor.ID {
		e.ignored("edit message", "not found or not the sender", "message", messageID)
		return nil
	}
	now := e.Now()
	msgs[i].Content = content
	msgs[i].EditedAt = &now
	return e.repos.DirectMessages.Put(ctx, msgs)
}

// DeleteDirectMessage removes a message sent by the actor
func (e *Engine) DeleteDirectMessage(ctx context.Context, s *Session, messageID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("delete message", "no session")
		return nil
	}
	msgs := e.repos.DirectMessages.All()
	i := indexOf(msgs, func(m models.DirectMessage) bool { return m.ID == messageID })
	if i < 0 || msgs[i].SenderID != actor.ID {
		e.ignored("delete message", "not found or not the sender", "message", messageID)
		return nil
	}
	return e.repos.DirectMessages.Put(ctx, removeAt(msgs, i))
}

// MarkDmAsRead marks every unread message from counterpartID to the actor as read
func (e *Engine) MarkDmAsRead(ctx context.Context, s *Session, counterpartID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("mark messages read", "no session")
		return nil
	}
	msgs := e.repos.DirectMessages.All()
	changed := false
	for i := range msgs {
		if msgs[i].ReceiverID == actor.ID && msgs[i].SenderID == counterpartID && !msgs[i].Read {
			msgs[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return e.repos.DirectMessages.Put(ctx, msgs)
}

// ReactToDirectMessage sets the actor's single reaction on a message they
// sent or received. Repeating the same emoji clears the reaction.
func (e *Engine) ReactToDirectMessage(ctx context.Context, s *Session, messageID, emoji string) error {
	if emoji == "" {
		return ErrMissingField
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("react to message", "no session")
		return nil
	}
	msgs := e.repos.DirectMessages.All()
	i := indexOf(msgs, func(m models.DirectMessage) bool { return m.ID == messageID })
	if i < 0 || (msgs[i].SenderID != actor.ID && msgs[i].ReceiverID != actor.ID) {
		e.ignored("react to message", "not found or not a participant", "message", messageID)
		return nil
	}

	reactions := maps.Clone(msgs[i].Reactions)
	if reactions == nil {
		reactions = map[string]string{}
	}
	if reactions[actor.ID] == emoji {
		delete(reactions, actor.ID)
	} else {
		reactions[actor.ID] = emoji
	}
	msgs[i].Reactions = reactions
	return e.repos.DirectMessages.Put(ctx, msgs)
}
