package handlers

import (
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/social"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// TokenLifetime is how long issued JWTs stay valid
const TokenLifetime = 72 * time.Hour

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	engine       *social.Engine
	firebaseAuth *auth.Client
	jwtSecret    string
}

// NewAuthHandler creates a new AuthHandler. firebaseAuthClient may be nil,
// which disables federated login.
func NewAuthHandler(engine *social.Engine, firebaseAuthClient *auth.Client, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		engine:       engine,
		firebaseAuth: firebaseAuthClient,
		jwtSecret:    jwtSecret,
	}
}

// RegisterAuthRoutes registers the public authentication routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Register creates a local account and returns a token for it
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	s, err := h.engine.Register(c.Request().Context(), social.Registration{
		Name:     req.Name,
		Handle:   req.Handle,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   req.Avatar,
	})
	if s == nil {
		return httpError(err)
	}
	return h.issue(c, http.StatusCreated, s, err)
}

// Login authenticates by email or handle
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	s, err := h.engine.Login(c.Request().Context(), req.Identifier, req.Password)
	if s == nil {
		return httpError(err)
	}
	return h.issue(c, http.StatusOK, s, err)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}
	var req FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}
	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)

	s, err := h.engine.LoginFederated(ctx, token.UID, email, name)
	if s == nil {
		return httpError(err)
	}
	return h.issue(c, http.StatusOK, s, err)
}

// Logout forgets the persisted session of the caller
func (h *AuthHandler) Logout(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"logged_out": true}, h.engine.Logout(c.Request().Context(), s))
}

func (h *AuthHandler) issue(c echo.Context, status int, s *social.Session, opErr error) error {
	token, err := GenerateJWT(s.User, h.jwtSecret, time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return respond(c, status, echo.Map{"token": token, "user": s.User.Public()}, opErr)
}

// GenerateJWT signs an HS256 token for user, valid for TokenLifetime from now
func GenerateJWT(user models.User, secret string, now time.Time) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
