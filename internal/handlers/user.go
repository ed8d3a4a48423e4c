package handlers

import (
	"net/http"

	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/social"
	"github.com/labstack/echo/v4"
)

// UserHandler handles profile and account requests
type UserHandler struct {
	engine *social.Engine
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(engine *social.Engine) *UserHandler {
	return &UserHandler{engine: engine}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/me", h.GetProfile)
	g.PUT("/me", h.UpdateProfile)
	g.PUT("/me/status", h.UpdateStatus)
	g.PUT("/me/privacy", h.TogglePrivacy)
	g.PUT("/me/password", h.ChangePassword)
	g.PUT("/me/preferences", h.SetPreferences)
	g.PUT("/me/base-connection", h.SetBaseConnection)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUser)
	g.POST("/users/:id/ban", h.BanUser)
}

// GetProfile returns the caller's own profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, s.User.Public(), nil)
}

// GetUser returns another user's public profile
func (h *UserHandler) GetUser(c echo.Context) error {
	user, ok := h.engine.Repositories().Users.GetUserByID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
	}
	return respond(c, http.StatusOK, user.Public(), nil)
}

// UpdateProfile applies the non-empty fields of the request
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err = h.engine.UpdateProfile(c.Request().Context(), s, social.ProfilePatch{
		Name:       req.Name,
		Bio:        req.Bio,
		Location:   req.Location,
		Avatar:     req.Avatar,
		CoverImage: req.CoverImage,
	})
	return respond(c, http.StatusOK, s.User.Public(), err)
}

func (h *UserHandler) UpdateStatus(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req models.UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	err = h.engine.UpdateStatus(c.Request().Context(), s, req.Text, req.Emoji)
	return respond(c, http.StatusOK, s.User.Public(), err)
}

func (h *UserHandler) TogglePrivacy(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	err = h.engine.TogglePrivacy(c.Request().Context(), s)
	return respond(c, http.StatusOK, echo.Map{"is_private": s.User.IsPrivate}, err)
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req models.ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	err = h.engine.ChangePassword(c.Request().Context(), s, req.Current, req.Next)
	return respond(c, http.StatusOK, echo.Map{"changed": err == nil || social.IsPersistenceFailure(err)}, err)
}

func (h *UserHandler) SetPreferences(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req models.PreferencesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	err = h.engine.SetPreferences(c.Request().Context(), s, social.PreferencesPatch{
		Theme:            req.Theme,
		Language:         req.Language,
		BreathingEnabled: req.BreathingEnabled,
	})
	return respond(c, http.StatusOK, s.User.Preferences, err)
}

// SearchUsers matches the query against names and handles
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query 'q' is required")
	}

	users := h.engine.Repositories().Users.SearchUsers(query)
	compact := make([]models.UserCompact, len(users))
	for i, u := range users {
		compact[i] = u.ToCompact()
	}
	return respond(c, http.StatusOK, compact, nil)
}

// BanUser bans the target user. Non-admin callers change nothing.
func (h *UserHandler) BanUser(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	if s.User.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Only admins can ban users")
	}
	targetID := c.Param("id")
	err = h.engine.BanUser(c.Request().Context(), s, targetID)
	target, _ := h.engine.Repositories().Users.GetUserByID(targetID)
	return respond(c, http.StatusOK, echo.Map{"user_id": targetID, "is_banned": target.IsBanned}, err)
}

// SetBaseConnection turns attestation of new posts on or off
func (h *UserHandler) SetBaseConnection(c echo.Context) error {
	if _, err := sessionFrom(c); err != nil {
		return err
	}
	var req models.BaseConnectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	err := h.engine.SetBaseConnected(c.Request().Context(), *req.Connected)
	return respond(c, http.StatusOK, echo.Map{"base_connected": h.engine.Repositories().Settings.BaseConnected.Get()}, err)
}
