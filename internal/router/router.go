package router

import (
	"log/slog"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nexus-social/backend/internal/handlers"
	"github.com/anonto42/nexus-social/backend/internal/middleware"
	"github.com/anonto42/nexus-social/backend/internal/social"
	"github.com/anonto42/nexus-social/backend/internal/textgen"
	"github.com/labstack/echo/v4"
)

const (
	AuthModeJWT      = "jwt"
	AuthModeFirebase = "firebase"
)

// Options selects how protected routes authenticate
type Options struct {
	AuthMode  string
	JWTSecret string
}

// SetupRoutes configures all application routes and injects dependencies.
// firebaseAuthClient may be nil; firebase mode then falls back to JWT.
func SetupRoutes(e *echo.Echo, engine *social.Engine, assistant textgen.Assistant, firebaseAuthClient *auth.Client, opts Options) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(engine, firebaseAuthClient, opts.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	slog.Info("router: auth routes configured")

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(sessionMiddleware(engine, firebaseAuthClient, opts))
	api.POST("/auth/logout", authHandler.Logout)

	userHandler := handlers.NewUserHandler(engine)
	userHandler.RegisterProfileRoutes(api)
	slog.Info("router: user profile routes configured")

	followHandler := handlers.NewFollowHandler(engine)
	followHandler.RegisterFollowRoutes(api)
	friendshipHandler := handlers.NewFriendshipHandler(engine)
	friendshipHandler.RegisterFriendshipRoutes(api)
	slog.Info("router: follow and friendship routes configured")

	postHandler := handlers.NewPostHandler(engine, assistant)
	postHandler.RegisterPostRoutes(api)
	commentHandler := handlers.NewCommentHandler(engine)
	commentHandler.RegisterCommentRoutes(api)
	likeHandler := handlers.NewLikeHandler(engine)
	likeHandler.RegisterLikeRoutes(api)
	feedHandler := handlers.NewFeedHandler(engine)
	feedHandler.RegisterFeedRoutes(api)
	slog.Info("router: post routes configured")

	storyHandler := handlers.NewStoryHandler(engine)
	storyHandler.RegisterStoryRoutes(api)
	slog.Info("router: story routes configured")

	clanHandler := handlers.NewClanHandler(engine, assistant)
	clanHandler.RegisterClanRoutes(api)
	slog.Info("router: clan routes configured")

	messageHandler := handlers.NewMessageHandler(engine)
	messageHandler.RegisterMessageRoutes(api)
	slog.Info("router: message routes configured")

	notificationHandler := handlers.NewNotificationHandler(engine)
	notificationHandler.RegisterNotificationRoutes(api)
	slog.Info("router: notification routes configured")

	assistHandler := handlers.NewAssistHandler(assistant)
	assistHandler.RegisterAssistRoutes(api)

	eventsHandler := handlers.NewEventsHandler(engine)
	eventsHandler.RegisterEventRoutes(api)
	slog.Info("router: all routes configured")
}

func sessionMiddleware(engine *social.Engine, firebaseAuthClient *auth.Client, opts Options) echo.MiddlewareFunc {
	if opts.AuthMode == AuthModeFirebase {
		if firebaseAuthClient != nil {
			slog.Info("router: firebase authentication applied to /api/v1")
			return middleware.FirebaseAuthMiddleware(firebaseAuthClient, engine)
		}
		slog.Warn("router: AUTH_MODE=firebase without credentials, using JWT")
	}
	slog.Info("router: JWT authentication applied to /api/v1")
	return middleware.JWTAuthMiddleware(opts.JWTSecret, engine)
}
