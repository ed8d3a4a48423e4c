package handlers

import (
	"net/http"

	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/social"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	engine *social.Engine
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(engine *social.Engine) *NotificationHandler {
	return &NotificationHandler{engine: engine}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/grouped", h.GetGroupedNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// EnrichedNotification includes actor info and, for clan invites, the
// invite status derived from the live clan
type EnrichedNotification struct {
	models.Notification
	Actor        models.UserCompact   `json:"actor"`
	InviteStatus *models.InviteStatus `json:"invite_status,omitempty"`
}

// GetNotifications returns paginated notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	p := paginationFrom(c, 20)
	all := h.engine.Repositories().Notifications.GetByRecipientID(s.User.ID)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"notifications": h.enrich(window(all, p))},
		"meta":    p.meta(len(all)),
	})
}

// GetGroupedNotifications returns notifications grouped by time period
func (h *NotificationHandler) GetGroupedNotifications(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	notes := h.engine.Repositories().Notifications
	g := notes.GetGrouped(s.User.ID, h.engine.Now())

	return respond(c, http.StatusOK, echo.Map{
		"notifications": echo.Map{
			"today":     h.enrich(g.Today),
			"yesterday": h.enrich(g.Yesterday),
			"thisWeek":  h.enrich(g.ThisWeek),
			"older":     h.enrich(g.Older),
		},
		"unreadCount": notes.GetUnreadCount(s.User.ID),
	}, nil)
}

// GetUnreadCount returns the unread notification and message counts
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	repos := h.engine.Repositories()
	return respond(c, http.StatusOK, echo.Map{
		"count":    repos.Notifications.GetUnreadCount(s.User.ID),
		"messages": repos.DirectMessages.GetUnreadCount(s.User.ID),
	}, nil)
}

// MarkAllAsRead marks every notification of the caller as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	err = h.engine.MarkNotificationsAsRead(c.Request().Context(), s)
	return respond(c, http.StatusOK, echo.Map{"count": 0}, err)
}

func (h *NotificationHandler) enrich(notes []models.Notification) []EnrichedNotification {
	users := h.engine.Repositories().Users
	out := make([]EnrichedNotification, len(notes))
	for i, n := range notes {
		actor, _ := users.GetUserByID(n.ActorID)
		out[i] = EnrichedNotification{Notification: n, Actor: actor.ToCompact()}
		if n.Type == models.NotificationClanInvite {
			status := h.engine.InviteStatus(n)
			out[i].InviteStatus = &status
		}
	}
	return out
}
