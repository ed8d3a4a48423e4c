package models

import "time"

type NotificationType string

const (
	NotificationLike       NotificationType = "LIKE"
	NotificationComment    NotificationType = "COMMENT"
	NotificationFollow     NotificationType = "FOLLOW"
	NotificationClanInvite NotificationType = "CLAN_INVITE"
	NotificationNewPost    NotificationType = "NEW_POST"
	NotificationMessage    NotificationType = "MESSAGE"
)

// Notification is an advisory record derived from another user's action
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient_id"`
	ActorID     string           `json:"actor_id"`
	Type        NotificationType `json:"type"`
	PostID      string           `json:"post_id,omitempty"`
	ClanID      string           `json:"clan_id,omitempty"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}

// InviteStatus is derived from the live clan record, never stored
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteExpired  InviteStatus = "expired"
)
