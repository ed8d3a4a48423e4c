package config

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/nexus-social/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("WATCH_INTERVAL", "")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, 2*time.Second, cfg.WatchInterval)
	assert.Equal(t, 5<<20, cfg.StoreMaxValueBytes)
	assert.Equal(t, "supersecretjwtkey", cfg.JWTSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("STORE_MAX_VALUE_BYTES", "1024")
	t.Setenv("BROADCAST_DRIVER", "nats")
	t.Setenv("TIME_ZONE", "Asia/Tokyo")

	cfg := Load()
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 1024, cfg.StoreMaxValueBytes)
	assert.Equal(t, "nats", cfg.BroadcastDriver)
	assert.Equal(t, "Asia/Tokyo", cfg.Location().String())
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"", 2 * time.Second},
		{"500ms", 500 * time.Millisecond},
		{"5", 5 * time.Second},
		{"0", 0},
		{"soon", 2 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("WATCH_INTERVAL", tt.raw)
			assert.Equal(t, tt.want, getEnvDuration("WATCH_INTERVAL", 2*time.Second))
		})
	}
}

func TestLocationFallsBackToLocal(t *testing.T) {
	cfg := &Config{TimeZone: "Mars/Olympus"}
	assert.Equal(t, time.Local, cfg.Location())
}

func TestOpenSubstrate(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		sub, err := OpenSubstrate(ctx, &Config{StoreDriver: "memory"})
		require.NoError(t, err)
		defer sub.Close()
		assert.IsType(t, &store.MemorySubstrate{}, sub.Substrate)
	})

	t.Run("sqlite", func(t *testing.T) {
		sub, err := OpenSubstrate(ctx, &Config{StoreDriver: "sqlite", SQLitePath: t.TempDir() + "/nexus.db"})
		require.NoError(t, err)
		defer sub.Close()

		require.NoError(t, sub.Set(ctx, store.KeyPosts, []byte(`[]`), "a"))
		got, err := sub.Get(ctx, store.KeyPosts)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(got))
	})

	t.Run("postgres without connection string", func(t *testing.T) {
		_, err := OpenSubstrate(ctx, &Config{StoreDriver: "postgres"})
		assert.ErrorContains(t, err, "POSTGRES_CONN_STR")
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := OpenSubstrate(ctx, &Config{StoreDriver: "etcd"})
		assert.Error(t, err)
	})
}
