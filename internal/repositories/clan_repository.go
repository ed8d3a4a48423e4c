package repositories

import (
	"time"

	"github.com/anonto42/nexus-social/backend/internal/models"
)

// ClanRepository holds the clans collection
type ClanRepository struct {
	Collection[models.Clan]
}

func (r ClanRepository) GetClanByID(id string) (models.Clan, bool) {
	return r.Find(func(c models.Clan) bool { return c.ID == id })
}

// GetClansByMember returns the clans userID belongs to
func (r ClanRepository) GetClansByMember(userID string) []models.Clan {
	return r.Filter(func(c models.Clan) bool { return c.IsMember(userID) })
}

// ClanMessageRepository holds clan chat, oldest first
type ClanMessageRepository struct {
	Collection[models.ClanMessage]
}

func (r ClanMessageRepository) GetByClanID(clanID string) []models.ClanMessage {
	return r.Filter(func(m models.ClanMessage) bool { return m.ClanID == clanID })
}

func clanNormalizer(now func() time.Time) func(models.Clan) models.Clan {
	return func(c models.Clan) models.Clan {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now()
		}
		if c.Experience < 0 {
			c.Experience = 0
		}
		c.Level = models.LevelForExperience(c.Experience)
		if c.ModeratorIDs == nil {
			c.ModeratorIDs = []string{}
		}
		if c.MemberIDs == nil {
			c.MemberIDs = []string{}
		}
		if c.InvitedIDs == nil {
			c.InvitedIDs = []string{}
		}
		if c.CustomRoles == nil {
			c.CustomRoles = []models.ClanRole{}
		}
		if c.RoleAssignments == nil {
			c.RoleAssignments = map[string][]string{}
		}
		return c
	}
}
