package handlers

import (
	"net/http"

	"github.com/anonto42/nexus-social/backend/internal/social"
	"github.com/labstack/echo/v4"
)

// FriendshipHandler exposes the messaging streak between two users
type FriendshipHandler struct {
	engine *social.Engine
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(engine *social.Engine) *FriendshipHandler {
	return &FriendshipHandler{engine: engine}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.GET("/users/:id/friendship", h.GetFriendship)
}

// GetFriendship returns the streak record between the caller and :id. Pairs
// that never exchanged a message report a zero streak.
func (h *FriendshipHandler) GetFriendship(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	otherID := c.Param("id")
	f, ok := h.engine.Friendship(s.User.ID, otherID)
	if !ok {
		return respond(c, http.StatusOK, echo.Map{"user_id": otherID, "streak_count": 0}, nil)
	}
	return respond(c, http.StatusOK, echo.Map{
		"user_id":             otherID,
		"streak_count":        f.StreakCount,
		"last_interaction_at": f.LastInteractionAt,
	}, nil)
}
