package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	StoreDriver             string
	SQLitePath              string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	StoreMaxValueBytes      int
	BroadcastDriver         string
	NatsURL                 string
	RedisAddr               string
	WatchInterval           time.Duration
	AuthMode                string
	JWTSecret               string
	FirebaseCredentialsPath string
	GeminiAPIKey            string
	GeminiModel             string
	OtelEndpoint            string
	TimeZone                string
	SeedAdminEmail          string
	SeedAdminPassword       string
}

// Load reads the configuration from the environment, after loading .env when present
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("config: no .env file found, using the environment")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		StoreDriver:             getEnv("STORE_DRIVER", "sqlite"),
		SQLitePath:              getEnv("SQLITE_PATH", "nexus.db"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "nexus"),
		StoreMaxValueBytes:      getEnvInt("STORE_MAX_VALUE_BYTES", 5<<20),
		BroadcastDriver:         getEnv("BROADCAST_DRIVER", "local"),
		NatsURL:                 getEnv("NATS_URL", "nats://localhost:4222"),
		RedisAddr:               getEnv("REDIS_ADDR", "localhost:6379"),
		WatchInterval:           getEnvDuration("WATCH_INTERVAL", 2*time.Second),
		AuthMode:                getEnv("AUTH_MODE", "jwt"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		GeminiAPIKey:            getEnv("GEMINI_API_KEY", ""),
		GeminiModel:             getEnv("GEMINI_MODEL", ""),
		OtelEndpoint:            getEnv("OTEL_ENDPOINT", ""),
		TimeZone:                getEnv("TIME_ZONE", "Local"),
		SeedAdminEmail:          getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword:       getEnv("SEED_ADMIN_PASSWORD", ""),
	}
}

// Location resolves TimeZone, falling back to the host zone when unknown
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		slog.Warn("config: unknown time zone, using local", "zone", c.TimeZone, "error", err)
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvDuration accepts Go durations ("2s") and bare seconds ("2")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	slog.Warn("config: invalid duration, using default", "key", key, "value", raw)
	return defaultValue
}
