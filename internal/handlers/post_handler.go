package handlers

import (
	"net/http"

	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/social"
	"github.com/anonto42/nexus-social/backend/internal/textgen"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	engine    *social.Engine
	assistant textgen.Assistant
}

// NewPostHandler creates a new PostHandler. New content is screened by assistant.
func NewPostHandler(engine *social.Engine, assistant textgen.Assistant) *PostHandler {
	return &PostHandler{engine: engine, assistant: assistant}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost moderates the content and publishes the post
func (h *PostHandler) CreatePost(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if req.Content != "" {
		safe, err := h.assistant.Moderate(ctx, req.Content)
		if err == nil && !safe {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "Post flagged by moderation")
		}
	}

	post, err := h.engine.CreatePost(ctx, s, social.PostInput{
		Content: req.Content,
		Media:   req.Media,
		ClanID:  req.ClanID,
	})
	if err == nil && post == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Clan not found")
	}
	return respond(c, http.StatusCreated, post, err)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, ok := h.engine.Repositories().Posts.GetPostByID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return respond(c, http.StatusOK, post, nil)
}

// UpdatePost edits the caller's own post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	postID := c.Param("id")
	existing, ok := h.engine.Repositories().Posts.GetPostByID(postID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if existing.AuthorID != s.User.ID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this post")
	}

	err = h.engine.EditPost(c.Request().Context(), s, postID, req.Content)
	updated, _ := h.engine.Repositories().Posts.GetPostByID(postID)
	return respond(c, http.StatusOK, updated, err)
}

// DeletePost deletes a post owned by the caller, or any post for admins
func (h *PostHandler) DeletePost(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")
	existing, ok := h.engine.Repositories().Posts.GetPostByID(postID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if existing.AuthorID != s.User.ID && s.User.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	if err := h.engine.DeletePost(c.Request().Context(), s, postID); err != nil {
		return respond(c, http.StatusOK, echo.Map{"deleted": postID}, err)
	}
	return c.NoContent(http.StatusNoContent)
}
