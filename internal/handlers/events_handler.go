package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/anonto42/nexus-social/backend/internal/social"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	eventBuffer  = 32
	writeTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Event tells a client which repository changed so it can refetch
type Event struct {
	Topic string `json:"topic"`
}

// EventsHandler streams repository changes over a websocket
type EventsHandler struct {
	engine *social.Engine
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(engine *social.Engine) *EventsHandler {
	return &EventsHandler{engine: engine}
}

// RegisterEventRoutes registers the event stream route
func (h *EventsHandler) RegisterEventRoutes(g *echo.Group) {
	g.GET("/events", h.Stream)
}

// Stream upgrades the connection and pushes one Event per change until the
// client disconnects. Changes are dropped for clients that fall behind.
func (h *EventsHandler) Stream(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Warn("handlers: websocket upgrade failed", "error", err)
		return nil
	}
	defer conn.Close()

	events := make(chan Event, eventBuffer)
	unsubscribe := h.engine.Repositories().OnChange(func(key string) {
		select {
		case events <- Event{Topic: key}:
		default:
			slog.Debug("handlers: dropping event for slow client", "user", s.User.ID, "topic", key)
		}
	})
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	slog.Info("handlers: event stream opened", "user", s.User.ID)
	for {
		select {
		case <-closed:
			slog.Info("handlers: event stream closed", "user", s.User.ID)
			return nil
		case ev := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				slog.Warn("handlers: event write failed", "user", s.User.ID, "error", err)
				return nil
			}
		}
	}
}
