package handlers

import (
	"net/http"

	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/social"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	engine *social.Engine
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(engine *social.Engine) *CommentHandler {
	return &CommentHandler{engine: engine}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetCommentsByPostID)
}

// CreateComment appends a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.engine.AddComment(c.Request().Context(), s, c.Param("id"), req.Text)
	if err == nil && comment == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return respond(c, http.StatusCreated, comment, err)
}

// CommentResponse is a comment with its author
type CommentResponse struct {
	models.Comment
	Author models.UserCompact `json:"author"`
}

// GetCommentsByPostID lists the comments of a post, oldest first
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	repos := h.engine.Repositories()
	post, ok := repos.Posts.GetPostByID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	out := make([]CommentResponse, len(post.Comments))
	for i, cm := range post.Comments {
		author, _ := repos.Users.GetUserByID(cm.AuthorID)
		out[i] = CommentResponse{Comment: cm, Author: author.ToCompact()}
	}
	return respond(c, http.StatusOK, out, nil)
}
