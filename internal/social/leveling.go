package social

import (
	"context"

	"github.com/anonto42/nexus-social/backend/internal/models"
)

// Experience awarded to a clan per activity
const (
	XPPost        = 50
	XPJoin        = 100
	XPChatMessage = 10
)

// gainExperience adds amount to the clan and re-derives its level.
// Experience never decreases.
func gainExperience(c models.Clan, amount int) models.Clan {
	if amount > 0 {
		c.Experience += amount
	}
	c.Level = models.LevelForExperience(c.Experience)
	return c
}

func (e *Engine) awardClanXP(ctx context.Context, clanID string, amount int) error {
	clans := e.repos.Clans.All()
	i := indexOf(clans, func(c models.Clan) bool { return c.ID == clanID })
	if i < 0 {
		return nil
	}
	before := clans[i].Level
	clans[i] = gainExperience(clans[i], amount)
	if clans[i].Level > before {
		e.log.Info("social: clan leveled up", "clan", clanID, "level", clans[i].Level)
	}
	return e.repos.Clans.Put(ctx, clans)
}
