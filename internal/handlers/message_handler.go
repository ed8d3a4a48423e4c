package handlers

import (
	"net/http"

	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/social"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles direct messages
type MessageHandler struct {
	engine *social.Engine
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(engine *social.Engine) *MessageHandler {
	return &MessageHandler{engine: engine}
}

// RegisterMessageRoutes registers direct message routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/messages/:userId", h.GetConversation)
	g.POST("/messages/:userId", h.Send)
	g.POST("/messages/:userId/read", h.MarkRead)
	g.PUT("/messages/item/:id", h.Edit)
	g.DELETE("/messages/item/:id", h.Delete)
	g.POST("/messages/item/:id/reactions", h.React)
}

// GetConversation returns the messages between the caller and :userId, oldest first
func (h *MessageHandler) GetConversation(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	otherID := c.Param("userId")
	repos := h.engine.Repositories()
	other, ok := repos.Users.GetUserByID(otherID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	streak := 0
	if f, ok := h.engine.Friendship(s.User.ID, otherID); ok {
		streak = f.StreakCount
	}
	return respond(c, http.StatusOK, echo.Map{
		"with":         other.ToCompact(),
		"messages":     repos.DirectMessages.GetConversation(s.User.ID, otherID),
		"streak_count": streak,
	}, nil)
}

func (h *MessageHandler) Send(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	receiverID := c.Param("userId")
	if receiverID == s.User.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot message yourself")
	}
	if _, ok := h.engine.Repositories().Users.GetUserByID(receiverID); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	msg, err := h.engine.SendDirectMessage(c.Request().Context(), s, receiverID, social.MessageInput{
		Type:          req.Type,
		Content:       req.Content,
		SharedPostID:  req.SharedPostID,
		SharedStoryID: req.SharedStoryID,
	})
	return respond(c, http.StatusCreated, msg, err)
}

// MarkRead marks everything :userId sent to the caller as read
func (h *MessageHandler) MarkRead(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	err = h.engine.MarkDmAsRead(c.Request().Context(), s, c.Param("userId"))
	return respond(c, http.StatusOK, echo.Map{"unread": h.engine.Repositories().DirectMessages.GetUnreadCount(s.User.ID)}, err)
}

func (h *MessageHandler) Edit(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req models.EditMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msgID := c.Param("id")
	if err := h.ownMessage(s, msgID); err != nil {
		return err
	}
	err = h.engine.EditDirectMessage(c.Request().Context(), s, msgID, req.Content)
	msg, _ := h.engine.Repositories().DirectMessages.GetMessageByID(msgID)
	return respond(c, http.StatusOK, msg, err)
}

func (h *MessageHandler) Delete(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	msgID := c.Param("id")
	if err := h.ownMessage(s, msgID); err != nil {
		return err
	}
	if err := h.engine.DeleteDirectMessage(c.Request().Context(), s, msgID); err != nil {
		return respond(c, http.StatusOK, echo.Map{"deleted": msgID}, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MessageHandler) React(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req models.ReactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msgID := c.Param("id")
	msg, ok := h.engine.Repositories().DirectMessages.GetMessageByID(msgID)
	if !ok || (msg.SenderID != s.User.ID && msg.ReceiverID != s.User.ID) {
		return echo.NewHTTPError(http.StatusNotFound, "Message not found")
	}
	err = h.engine.ReactToDirectMessage(c.Request().Context(), s, msgID, req.Emoji)
	msg, _ = h.engine.Repositories().DirectMessages.GetMessageByID(msgID)
	return respond(c, http.StatusOK, msg, err)
}

func (h *MessageHandler) ownMessage(s *social.Session, msgID string) error {
	msg, ok := h.engine.Repositories().DirectMessages.GetMessageByID(msgID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Message not found")
	}
	if msg.SenderID != s.User.ID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the sender can change this message")
	}
	return nil
}
