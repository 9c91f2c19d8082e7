package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "./cache", cfg.Cache.Dir)
	assert.Equal(t, 15*time.Minute, cfg.Cache.HotTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "telemetry_hub", cfg.Postgres.Database)
	assert.Equal(t, 2, cfg.Worker.Concurrency)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.False(t, cfg.Debug)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("CACHE_DIR", "/var/lib/telemetry")
	t.Setenv("HOT_CACHE_TTL", "1h")
	t.Setenv("WORKER_CONCURRENCY", "8")
	t.Setenv("DEBUG", "true")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "/var/lib/telemetry", cfg.Cache.Dir)
	assert.Equal(t, time.Hour, cfg.Cache.HotTTL)
	assert.Equal(t, 8, cfg.Worker.Concurrency)
	assert.True(t, cfg.Debug)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("WORKER_CONCURRENCY", "lots")
	t.Setenv("HOT_CACHE_TTL", "soon")
	t.Setenv("DEBUG", "yep")

	cfg := Load()

	assert.Equal(t, 2, cfg.Worker.Concurrency)
	assert.Equal(t, 15*time.Minute, cfg.Cache.HotTTL)
	assert.False(t, cfg.Debug)
}
