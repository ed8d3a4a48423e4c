package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/social"
	"github.com/anonto42/nexus-social/backend/internal/textgen"
	"github.com/labstack/echo/v4"
)

// ClanHandler handles clan membership, moderation and chat
type ClanHandler struct {
	engine    *social.Engine
	assistant textgen.Assistant
}

// NewClanHandler creates a new ClanHandler. assistant drafts descriptions
// for clans created without one.
func NewClanHandler(engine *social.Engine, assistant textgen.Assistant) *ClanHandler {
	return &ClanHandler{engine: engine, assistant: assistant}
}

// RegisterClanRoutes registers clan routes
func (h *ClanHandler) RegisterClanRoutes(g *echo.Group) {
	g.GET("/clans", h.ListClans)
	g.POST("/clans", h.CreateClan)
	g.GET("/clans/:id", h.GetClan)
	g.POST("/clans/:id/join", h.JoinClan)
	g.POST("/clans/:id/invite/:userId", h.Invite)
	g.POST("/clans/:id/respond", h.RespondToInvite)
	g.POST("/clans/:id/members/:userId/promote", h.Promote)
	g.POST("/clans/:id/members/:userId/demote", h.Demote)
	g.POST("/clans/:id/members/:userId/kick", h.Kick)
	g.POST("/clans/:id/members/:userId/roles", h.AssignRole)
	g.PUT("/clans/:id/banner", h.UpdateBanner)
	g.POST("/clans/:id/roles", h.AddRole)
	g.GET("/clans/:id/messages", h.GetMessages)
	g.POST("/clans/:id/messages", h.SendMessage)
}

// ListClans returns every clan, or only the caller's with ?mine=true
func (h *ClanHandler) ListClans(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	clans := h.engine.Repositories().Clans
	if c.QueryParam("mine") == "true" {
		return respond(c, http.StatusOK, clans.GetClansByMember(s.User.ID), nil)
	}
	return respond(c, http.StatusOK, clans.All(), nil)
}

func (h *ClanHandler) CreateClan(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req models.CreateClanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if req.Description == "" {
		if desc, err := h.assistant.ClanDescription(ctx, req.Name); err == nil {
			req.Description = desc
		}
	}
	clan, err := h.engine.CreateClan(ctx, s, req.Name, req.Description, req.Banner)
	return respond(c, http.StatusCreated, clan, err)
}

// ClanDetail is a clan with its members and posts
type ClanDetail struct {
	models.Clan
	Members []models.UserCompact `json:"members"`
	Posts   []models.Post        `json:"posts"`
}

func (h *ClanHandler) GetClan(c echo.Context) error {
	repos := h.engine.Repositories()
	clan, ok := repos.Clans.GetClanByID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Clan not found")
	}
	users := repos.Users.GetUsersByIDs(clan.MemberIDs)
	members := make([]models.UserCompact, len(users))
	for i, u := range users {
		members[i] = u.ToCompact()
	}
	return respond(c, http.StatusOK, ClanDetail{Clan: clan, Members: members, Posts: repos.Posts.GetPostsByClanID(clan.ID)}, nil)
}

func (h *ClanHandler) JoinClan(c echo.Context) error {
	return h.mutate(c, func(ctx context.Context, s *social.Session, clanID string) error {
		return h.engine.JoinClan(ctx, s, clanID)
	})
}

func (h *ClanHandler) Invite(c echo.Context) error {
	return h.mutate(c, func(ctx context.Context, s *social.Session, clanID string) error {
		return h.engine.InviteToClan(ctx, s, clanID, c.Param("userId"))
	})
}

func (h *ClanHandler) RespondToInvite(c echo.Context) error {
	var req models.RespondInviteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.mutate(c, func(ctx context.Context, s *social.Session, clanID string) error {
		return h.engine.RespondToClanInvite(ctx, s, clanID, req.Accept)
	})
}

func (h *ClanHandler) Promote(c echo.Context) error {
	return h.mutate(c, func(ctx context.Context, s *social.Session, clanID string) error {
		return h.engine.PromoteModerator(ctx, s, clanID, c.Param("userId"))
	})
}

func (h *ClanHandler) Demote(c echo.Context) error {
	return h.mutate(c, func(ctx context.Context, s *social.Session, clanID string) error {
		return h.engine.DemoteModerator(ctx, s, clanID, c.Param("userId"))
	})
}

func (h *ClanHandler) Kick(c echo.Context) error {
	return h.mutate(c, func(ctx context.Context, s *social.Session, clanID string) error {
		return h.engine.KickMember(ctx, s, clanID, c.Param("userId"))
	})
}

func (h *ClanHandler) AssignRole(c echo.Context) error {
	var req models.AssignClanRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.mutate(c, func(ctx context.Context, s *social.Session, clanID string) error {
		return h.engine.AssignClanRole(ctx, s, clanID, c.Param("userId"), req.RoleID)
	})
}

func (h *ClanHandler) UpdateBanner(c echo.Context) error {
	var req models.UpdateBannerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.mutate(c, func(ctx context.Context, s *social.Session, clanID string) error {
		return h.engine.UpdateClanBanner(ctx, s, clanID, req.Banner)
	})
}

func (h *ClanHandler) AddRole(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req models.CreateClanRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	role, err := h.engine.AddClanRole(c.Request().Context(), s, c.Param("id"), req.Name, req.Color)
	if err == nil && role == nil {
		return echo.NewHTTPError(http.StatusForbidden, "Only the clan owner can add roles")
	}
	return respond(c, http.StatusCreated, role, err)
}

// ClanMessageResponse is a chat message with its author
type ClanMessageResponse struct {
	models.ClanMessage
	Author models.UserCompact `json:"author"`
}

func (h *ClanHandler) GetMessages(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	repos := h.engine.Repositories()
	clan, ok := repos.Clans.GetClanByID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Clan not found")
	}
	if !clan.IsMember(s.User.ID) {
		return echo.NewHTTPError(http.StatusForbidden, "Only members can read the clan chat")
	}

	msgs := repos.ClanMessages.GetByClanID(clan.ID)
	out := make([]ClanMessageResponse, len(msgs))
	for i, m := range msgs {
		author, _ := repos.Users.GetUserByID(m.UserID)
		out[i] = ClanMessageResponse{ClanMessage: m, Author: author.ToCompact()}
	}
	return respond(c, http.StatusOK, out, nil)
}

func (h *ClanHandler) SendMessage(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req models.ClanMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := h.engine.SendClanMessage(c.Request().Context(), s, c.Param("id"), req.Text)
	if err == nil && msg == nil {
		return echo.NewHTTPError(http.StatusForbidden, "Only members can post in the clan chat")
	}
	return respond(c, http.StatusCreated, msg, err)
}

// mutate runs op for the clan in :id and answers with the clan's new state
func (h *ClanHandler) mutate(c echo.Context, op func(ctx context.Context, s *social.Session, clanID string) error) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	clanID := c.Param("id")
	if _, ok := h.engine.Repositories().Clans.GetClanByID(clanID); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Clan not found")
	}
	err = op(c.Request().Context(), s, clanID)
	clan, _ := h.engine.Repositories().Clans.GetClanByID(clanID)
	return respond(c, http.StatusOK, clan, err)
}
