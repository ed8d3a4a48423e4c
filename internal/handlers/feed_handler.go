package handlers

import (
	"net/http"

	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/social"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	engine *social.Engine
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(engine *social.Engine) *FeedHandler {
	return &FeedHandler{engine: engine}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/users/:id/posts", h.GetUserPosts)
}

// EnrichedPost is a post with author info and caller-specific flags
type EnrichedPost struct {
	models.Post
	Author     models.UserCompact `json:"author"`
	IsLiked    bool               `json:"is_liked"`
	LikesCount int                `json:"likes_count"`
}

// GetFeed returns the caller's posts and those of followed users, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	p := paginationFrom(c, 10)
	posts := h.engine.Repositories().Posts
	total := len(posts.GetFeed(s.User, 0, 0))
	page := posts.GetFeed(s.User, p.skip(), p.limit)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": h.enrich(s.User.ID, page)},
		"meta":    p.meta(total),
	})
}

// GetUserPosts lists one user's non-clan posts
func (h *FeedHandler) GetUserPosts(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var own []models.Post
	for _, post := range h.engine.Repositories().Posts.GetPostsByUserID(c.Param("id")) {
		if post.ClanID == "" {
			own = append(own, post)
		}
	}
	p := paginationFrom(c, 10)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": h.enrich(s.User.ID, window(own, p))},
		"meta":    p.meta(len(own)),
	})
}

func (h *FeedHandler) enrich(viewerID string, posts []models.Post) []EnrichedPost {
	users := h.engine.Repositories().Users
	authors := make(map[string]models.UserCompact)
	out := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		author, ok := authors[p.AuthorID]
		if !ok {
			u, _ := users.GetUserByID(p.AuthorID)
			author = u.ToCompact()
			authors[p.AuthorID] = author
		}
		out[i] = EnrichedPost{
			Post:       p,
			Author:     author,
			IsLiked:    models.ContainsID(p.LikedBy, viewerID),
			LikesCount: len(p.LikedBy),
		}
	}
	return out
}
