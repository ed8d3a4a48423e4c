package models

import "time"

type MessageType string

const (
	MessageText    MessageType = "text"
	MessageImage   MessageType = "image"
	MessageVideo   MessageType = "video"
	MessageAudio   MessageType = "audio"
	MessageSticker MessageType = "sticker"
	MessageGIF     MessageType = "gif"
)

// DirectMessage is a one-to-one message. Reactions hold one emoji per reacting user.
type DirectMessage struct {
	ID            string            `json:"id"`
	SenderID      string            `json:"sender_id"`
	ReceiverID    string            `json:"receiver_id"`
	Type          MessageType       `json:"type"`
	Content       string            `json:"content"`
	SharedPostID  string            `json:"shared_post_id,omitempty"`
	SharedStoryID string            `json:"shared_story_id,omitempty"`
	Read          bool              `json:"read"`
	Reactions     map[string]string `json:"reactions"`
	CreatedAt     time.Time         `json:"created_at"`
	EditedAt      *time.Time        `json:"edited_at,omitempty"`
}

// Between reports whether m was exchanged by a and b in either direction
func (m DirectMessage) Between(a, b string) bool {
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}

type SendMessageRequest struct {
	Type          MessageType `json:"type" validate:"omitempty,oneof=text image video audio sticker gif"`
	Content       string      `json:"content" validate:"max=4000"`
	SharedPostID  string      `json:"shared_post_id,omitempty"`
	SharedStoryID string      `json:"shared_story_id,omitempty"`
}

type EditMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

type ReactionRequest struct {
	Emoji string `json:"emoji" validate:"required,max=16"`
}
