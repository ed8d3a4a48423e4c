package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/social"
	"github.com/labstack/echo/v4"
)

// StoryHandler handles story-related HTTP requests
type StoryHandler struct {
	engine *social.Engine
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(engine *social.Engine) *StoryHandler {
	return &StoryHandler{engine: engine}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.GET("/stories", h.GetStories)
	g.POST("/stories", h.CreateStory)
	g.POST("/stories/:id/view", h.ViewStory)
	g.POST("/stories/:id/pin", h.PinStory)
	g.DELETE("/stories/:id", h.DeleteStory)
	g.GET("/users/:id/highlights", h.GetHighlights)
}

// StoryResponse is a story with its author and the caller's seen flag
type StoryResponse struct {
	models.Story
	Author      models.UserCompact `json:"author"`
	Seen        bool               `json:"seen"`
	ViewerCount int                `json:"viewer_count"`
}

// GetStories returns the active stories of the caller and the users they follow
func (h *StoryHandler) GetStories(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	ids := append([]string{s.User.ID}, s.User.FollowingIDs...)
	stories := h.engine.Repositories().Stories.GetStoriesByUserIDs(ids, h.engine.Now())
	return respond(c, http.StatusOK, h.enrich(s.User.ID, stories), nil)
}

// GetHighlights returns the pinned stories of :id, expired or not
func (h *StoryHandler) GetHighlights(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	stories := h.engine.Repositories().Stories.GetHighlights(c.Param("id"))
	return respond(c, http.StatusOK, h.enrich(s.User.ID, stories), nil)
}

func (h *StoryHandler) CreateStory(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req models.CreateStoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	story, err := h.engine.AddStory(c.Request().Context(), s, social.StoryInput{
		Content:   req.Content,
		Kind:      req.Kind,
		MediaType: req.MediaType,
	})
	return respond(c, http.StatusCreated, story, err)
}

func (h *StoryHandler) ViewStory(c echo.Context) error {
	return h.mutate(c, h.engine.ViewStory)
}

func (h *StoryHandler) PinStory(c echo.Context) error {
	return h.mutate(c, h.engine.PinStory)
}

func (h *StoryHandler) DeleteStory(c echo.Context) error {
	return h.mutate(c, h.engine.DeleteStory)
}

type storyOp func(ctx context.Context, s *social.Session, storyID string) error

func (h *StoryHandler) mutate(c echo.Context, op storyOp) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	storyID := c.Param("id")
	if _, ok := h.engine.Repositories().Stories.GetStoryByID(storyID); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}
	err = op(c.Request().Context(), s, storyID)
	story, ok := h.engine.Repositories().Stories.GetStoryByID(storyID)
	if !ok {
		return respond(c, http.StatusOK, echo.Map{"deleted": storyID}, err)
	}
	return respond(c, http.StatusOK, story, err)
}

func (h *StoryHandler) enrich(viewerID string, stories []models.Story) []StoryResponse {
	users := h.engine.Repositories().Users
	out := make([]StoryResponse, len(stories))
	for i, st := range stories {
		author, _ := users.GetUserByID(st.AuthorID)
		out[i] = StoryResponse{
			Story:       st,
			Author:      author.ToCompact(),
			Seen:        st.AuthorID == viewerID || models.ContainsID(st.ViewerIDs, viewerID),
			ViewerCount: len(st.ViewerIDs),
		}
	}
	return out
}
