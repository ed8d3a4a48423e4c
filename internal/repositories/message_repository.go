package repositories

import (
	"github.com/anonto42/nexus-social/backend/internal/models"
)

// DirectMessageRepository holds direct messages, oldest first
type DirectMessageRepository struct {
	Collection[models.DirectMessage]
}

func (r DirectMessageRepository) GetMessageByID(id string) (models.DirectMessage, bool) {
	return r.Find(func(m models.DirectMessage) bool { return m.ID == id })
}

// GetConversation returns the messages exchanged by a and b
func (r DirectMessageRepository) GetConversation(a, b string) []models.DirectMessage {
	return r.Filter(func(m models.DirectMessage) bool { return m.Between(a, b) })
}

// GetUnreadCount counts unread messages addressed to receiverID
func (r DirectMessageRepository) GetUnreadCount(receiverID string) int {
	count := 0
	for _, m := range r.Get() {
		if m.ReceiverID == receiverID && !m.Read {
			count++
		}
	}
	return count
}

func normalizeDirectMessage(m models.DirectMessage) models.DirectMessage {
	if m.Reactions == nil {
		m.Reactions = map[string]string{}
	}
	if m.Type == "" {
		m.Type = models.MessageText
	}
	return m
}
