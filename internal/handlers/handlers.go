package handlers

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/anonto42/nexus-social/backend/internal/social"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// SessionKey is the echo context key holding the *social.Session
const SessionKey = "session"

var validate = validator.New()

// sessionFrom returns the session set by the auth middleware
func sessionFrom(c echo.Context) (*social.Session, error) {
	s, ok := c.Get(SessionKey).(*social.Session)
	if !ok || s == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return s, nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// respond writes the standard envelope. A persistence failure still answers
// with the data and a warning, because the change already took effect.
func respond(c echo.Context, status int, data any, err error) error {
	if err != nil && !social.IsPersistenceFailure(err) {
		return httpError(err)
	}
	body := echo.Map{"success": true, "data": data}
	if err != nil {
		slog.Warn("handlers: change not persisted", "path", c.Path(), "error", err)
		body["warning"] = "Saved locally but could not be persisted"
	}
	return c.JSON(status, body)
}

func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, social.ErrEmptyContent),
		errors.Is(err, social.ErrEmptyMessage),
		errors.Is(err, social.ErrMissingField):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, social.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, social.ErrBanned):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, social.ErrEmailTaken), errors.Is(err, social.ErrHandleTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		slog.Error("handlers: unexpected error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}

type pagination struct {
	page  int
	limit int
}

func paginationFrom(c echo.Context, defaultLimit int) pagination {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = defaultLimit
	}
	return pagination{page: page, limit: limit}
}

func (p pagination) skip() int {
	return (p.page - 1) * p.limit
}

func (p pagination) meta(totalItems int) echo.Map {
	totalPages := int(math.Ceil(float64(totalItems) / float64(p.limit)))
	return echo.Map{
		"currentPage":     p.page,
		"totalPages":      totalPages,
		"totalItems":      totalItems,
		"itemsPerPage":    p.limit,
		"hasNextPage":     p.page < totalPages,
		"hasPreviousPage": p.page > 1,
	}
}

func window[T any](items []T, p pagination) []T {
	start := min(p.skip(), len(items))
	end := min(start+p.limit, len(items))
	return items[start:end]
}
