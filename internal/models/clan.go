package models

import "time"

type ClanRole struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Clan is a community. The owner is always a member and moderators are a
// subset of members.
type Clan struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	Banner          string              `json:"banner"`
	OwnerID         string              `json:"owner_id"`
	ModeratorIDs    []string            `json:"moderator_ids"`
	MemberIDs       []string            `json:"member_ids"`
	InvitedIDs      []string            `json:"invited_ids"`
	MemberCount     int                 `json:"member_count"`
	PowerScore      int                 `json:"power_score"`
	Experience      int                 `json:"experience"`
	Level           int                 `json:"level"`
	CustomRoles     []ClanRole          `json:"custom_roles"`
	RoleAssignments map[string][]string `json:"role_assignments"`
	CreatedAt       time.Time           `json:"created_at"`
}

// IsMember reports whether userID belongs to the clan
func (c Clan) IsMember(userID string) bool {
	return ContainsID(c.MemberIDs, userID)
}

// IsModerator reports whether userID moderates the clan
func (c Clan) IsModerator(userID string) bool {
	return ContainsID(c.ModeratorIDs, userID)
}

// HasRole reports whether roleID is one of the clan's custom roles
func (c Clan) HasRole(roleID string) bool {
	for _, r := range c.CustomRoles {
		if r.ID == roleID {
			return true
		}
	}
	return false
}

// ClanMessage is a chat line posted in a clan
type ClanMessage struct {
	ID        string    `json:"id"`
	ClanID    string    `json:"clan_id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateClanRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=60"`
	Description string `json:"description" validate:"max=500"`
	Banner      string `json:"banner,omitempty" validate:"omitempty,url"`
}

type RespondInviteRequest struct {
	Accept bool `json:"accept"`
}

type UpdateBannerRequest struct {
	Banner string `json:"banner" validate:"required,url"`
}

type CreateClanRoleRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=30"`
	Color string `json:"color" validate:"required,hexcolor"`
}

type AssignClanRoleRequest struct {
	RoleID string `json:"role_id"`
}

type ClanMessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}

const (
	experiencePerLevel = 1000
	MaxClanLevel       = 100
)

// LevelForExperience maps clan experience to its level, capped at MaxClanLevel
func LevelForExperience(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return min(MaxClanLevel, xp/experiencePerLevel+1)
}
