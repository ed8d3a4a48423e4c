package handlers

import (
	"net/http"

	"github.com/anonto42/nexus-social/backend/internal/textgen"
	"github.com/labstack/echo/v4"
)

// AssistHandler exposes the generative text helpers
type AssistHandler struct {
	assistant textgen.Assistant
}

// NewAssistHandler creates a new AssistHandler. assistant should never fail;
// wrap real services with textgen.NewFallback.
func NewAssistHandler(assistant textgen.Assistant) *AssistHandler {
	return &AssistHandler{assistant: assistant}
}

// RegisterAssistRoutes registers assist routes
func (h *AssistHandler) RegisterAssistRoutes(g *echo.Group) {
	g.POST("/assist/enhance", h.Enhance)
	g.POST("/assist/moderate", h.Moderate)
	g.POST("/assist/translate", h.Translate)
	g.POST("/assist/clan-description", h.ClanDescription)
}

type assistTextRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

type translateRequest struct {
	Text     string `json:"text" validate:"required,max=4000"`
	Language string `json:"language" validate:"required,oneof=en es fr de ja ru"`
}

type clanDescriptionRequest struct {
	Name string `json:"name" validate:"required,max=60"`
}

func (h *AssistHandler) Enhance(c echo.Context) error {
	var req assistTextRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := h.assistant.Enhance(c.Request().Context(), req.Text)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Text service unavailable")
	}
	return respond(c, http.StatusOK, echo.Map{"text": out}, nil)
}

func (h *AssistHandler) Moderate(c echo.Context) error {
	var req assistTextRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	safe, err := h.assistant.Moderate(c.Request().Context(), req.Text)
	if err != nil {
		safe = true
	}
	return respond(c, http.StatusOK, echo.Map{"safe": safe}, nil)
}

func (h *AssistHandler) Translate(c echo.Context) error {
	var req translateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := h.assistant.Translate(c.Request().Context(), req.Text, req.Language)
	if err != nil {
		out = req.Text
	}
	return respond(c, http.StatusOK, echo.Map{"text": out, "language": req.Language}, nil)
}

func (h *AssistHandler) ClanDescription(c echo.Context) error {
	var req clanDescriptionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := h.assistant.ClanDescription(c.Request().Context(), req.Name)
	if err != nil {
		out = ""
	}
	return respond(c, http.StatusOK, echo.Map{"description": out}, nil)
}
