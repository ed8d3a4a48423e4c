package handlers

import (
	"net/http"

	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/social"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	engine *social.Engine
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(engine *social.Engine) *LikeHandler {
	return &LikeHandler{engine: engine}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
}

// ToggleLike likes the post, or removes the caller's like
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")
	if _, ok := h.engine.Repositories().Posts.GetPostByID(postID); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	liked, err := h.engine.LikePost(c.Request().Context(), s, postID)
	post, _ := h.engine.Repositories().Posts.GetPostByID(postID)
	return respond(c, http.StatusOK, echo.Map{
		"post_id":     postID,
		"has_liked":   liked,
		"likes_count": len(post.LikedBy),
		"liked_by":    likers(h.engine, post),
	}, err)
}

func likers(e *social.Engine, post models.Post) []models.UserCompact {
	users := e.Repositories().Users.GetUsersByIDs(post.LikedBy)
	out := make([]models.UserCompact, len(users))
	for i, u := range users {
		out[i] = u.ToCompact()
	}
	return out
}
