package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anonto42/nexus-social/backend/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Substrate is the durable key-value store selected by STORE_DRIVER,
// together with the connections it holds
type Substrate struct {
	store.Substrate

	gorm  *gorm.DB
	mongo *mongo.Client
}

// OpenSubstrate connects to the configured substrate
func OpenSubstrate(ctx context.Context, cfg *Config) (*Substrate, error) {
	switch cfg.StoreDriver {
	case "memory":
		slog.Warn("config: using the in-memory substrate, nothing survives a restart")
		return &Substrate{Substrate: store.NewMemorySubstrate(cfg.StoreMaxValueBytes)}, nil

	case "sqlite":
		db, err := openGorm(sqlite.Open(cfg.SQLitePath))
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite at %s: %w", cfg.SQLitePath, err)
		}
		return gormSubstrate(db)

	case "postgres":
		if cfg.PostgresConnStr == "" {
			return nil, fmt.Errorf("POSTGRES_CONN_STR environment variable not set")
		}
		db, err := openGorm(postgres.Open(cfg.PostgresConnStr))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return gormSubstrate(db)

	case "mongo":
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGO_URI environment variable not set")
		}
		client, err := initMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		return &Substrate{
			Substrate: store.NewMongoSubstrate(client.Database(cfg.MongoDatabase)),
			mongo:     client,
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func gormSubstrate(db *gorm.DB) (*Substrate, error) {
	sub, err := store.NewGormSubstrate(db)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate kv_records: %w", err)
	}
	return &Substrate{Substrate: sub, gorm: db}, nil
}

// openGorm opens a GORM connection and pings it
func openGorm(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}

	slog.Info("config: connected to SQL substrate", "dialect", dialector.Name())
	return db, nil
}

// initMongo connects to MongoDB and pings the primary
func initMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	slog.Info("config: connected to MongoDB")
	return client, nil
}

// Close closes the connections held by the substrate
func (s *Substrate) Close() {
	if s.gorm != nil {
		sqlDB, err := s.gorm.DB()
		if err != nil {
			slog.Error("config: error getting SQL DB from GORM", "error", err)
		} else if err := sqlDB.Close(); err != nil {
			slog.Error("config: error closing SQL connection", "error", err)
		} else {
			slog.Info("config: SQL connection closed")
		}
	}

	if s.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.mongo.Disconnect(ctx); err != nil {
			slog.Error("config: error closing MongoDB connection", "error", err)
		} else {
			slog.Info("config: MongoDB connection closed")
		}
	}
}
