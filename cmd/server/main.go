package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/nexus-social/backend/internal/broadcast"
	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/repositories"
	"github.com/anonto42/nexus-social/backend/internal/router"
	"github.com/anonto42/nexus-social/backend/internal/social"
	"github.com/anonto42/nexus-social/backend/internal/store"
	"github.com/anonto42/nexus-social/backend/internal/textgen"
	"github.com/anonto42/nexus-social/backend/pkg/config"
	"github.com/anonto42/nexus-social/backend/pkg/firebase"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server: fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg := config.Load()
	initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := config.InitTracer(ctx, cfg)
	if err != nil {
		slog.Error("server: failed to init tracer", "error", err)
	} else if tp != nil {
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	// Durable substrate
	sub, err := config.OpenSubstrate(ctx, cfg)
	if err != nil {
		return err
	}
	defer sub.Close()

	// Each process is one context on the shared substrate
	origin := uuid.NewString()
	bus, err := openBroadcaster(ctx, cfg, origin)
	if err != nil {
		return err
	}
	defer bus.Close()

	st := store.New(sub, origin,
		store.WithPublisher(bus),
		store.WithMaxValueBytes(cfg.StoreMaxValueBytes),
	)

	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }
	seed, err := seedData(cfg)
	if err != nil {
		return err
	}
	repos := repositories.New(st, seed, now)
	repos.Hydrate(ctx)

	defer repos.Bind(bus)()
	if cfg.WatchInterval > 0 {
		watcher := broadcast.NewWatcher(sub, origin, cfg.WatchInterval)
		defer repos.Bind(watcher)()
		go watcher.Run(ctx)
	}

	engine := social.New(repos, social.WithLocation(loc))

	// Firebase is optional
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		return err
	}

	assistant := textgen.NewFallback(nil)
	if cfg.GeminiAPIKey != "" {
		gemini, err := textgen.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Warn("server: gemini unavailable, using fallbacks", "error", err)
		} else {
			assistant = textgen.NewFallback(gemini)
		}
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	config.SetupMiddleware(e)
	router.SetupRoutes(e, engine, assistant, firebaseApp.Auth(), router.Options{
		AuthMode:  cfg.AuthMode,
		JWTSecret: cfg.JWTSecret,
	})

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server: listening", "port", cfg.Port, "origin", origin, "store", cfg.StoreDriver, "broadcast", cfg.BroadcastDriver)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func initLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if cfg.Env == "local" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// openBroadcaster connects the change channel selected by BROADCAST_DRIVER.
// The local hub only reaches engines inside this process.
func openBroadcaster(ctx context.Context, cfg *config.Config, origin string) (broadcast.Broadcaster, error) {
	switch cfg.BroadcastDriver {
	case "nats":
		nc, err := nats.Connect(cfg.NatsURL, nats.Name("nexus-social"))
		if err != nil {
			return nil, err
		}
		slog.Info("server: connected to NATS", "url", cfg.NatsURL)
		b, err := broadcast.NewNATS(nc, origin)
		if err != nil {
			nc.Close()
			return nil, err
		}
		return b, nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisotel.InstrumentTracing(rdb); err != nil {
			slog.Warn("server: redis tracing disabled", "error", err)
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		slog.Info("server: connected to Redis", "addr", cfg.RedisAddr)
		b, err := broadcast.NewRedis(ctx, rdb, origin)
		if err != nil {
			_ = rdb.Close()
			return nil, err
		}
		return b, nil

	default:
		return broadcast.NewHub().Join(origin), nil
	}
}

// seedData provides the initial admin account for a fresh substrate
func seedData(cfg *config.Config) (repositories.Seed, error) {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return repositories.Seed{}, nil
	}
	admin, err := social.NewUser(uuid.NewString(), "Admin", "admin", cfg.SeedAdminEmail, cfg.SeedAdminPassword, models.RoleAdmin)
	if err != nil {
		return repositories.Seed{}, err
	}
	admin.JoinedAt = time.Now()
	return repositories.Seed{Users: []models.User{admin}}, nil
}
