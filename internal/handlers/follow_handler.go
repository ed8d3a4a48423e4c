package handlers

import (
	"net/http"

	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/social"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow and bell toggles
type FollowHandler struct {
	engine *social.Engine
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(engine *social.Engine) *FollowHandler {
	return &FollowHandler{engine: engine}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.ToggleFollow)
	g.POST("/users/:id/bell", h.ToggleBell)
	g.GET("/users/:id/friends", h.GetFriends)
}

// ToggleFollow follows the target, or unfollows when already following
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	targetID := c.Param("id")
	if targetID == s.User.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}
	if _, ok := h.engine.Repositories().Users.GetUserByID(targetID); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	following, err := h.engine.Follow(c.Request().Context(), s, targetID)
	return respond(c, http.StatusOK, echo.Map{"following": following}, err)
}

// ToggleBell subscribes to or unsubscribes from the target's new posts
func (h *FollowHandler) ToggleBell(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	belled, err := h.engine.ToggleBell(c.Request().Context(), s, c.Param("id"))
	return respond(c, http.StatusOK, echo.Map{"belled": belled}, err)
}

// GetFriends lists the users that follow each other with :id
func (h *FollowHandler) GetFriends(c echo.Context) error {
	friends := h.engine.Friends(c.Param("id"))
	compact := make([]models.UserCompact, len(friends))
	for i, u := range friends {
		compact[i] = u.ToCompact()
	}
	return respond(c, http.StatusOK, compact, nil)
}
