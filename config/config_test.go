package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "platefeed", cfg.DBName)
	assert.Equal(t, 6, cfg.PageSize)
	assert.Equal(t, "host=localhost port=5432 user=postgres password= dbname=platefeed sslmode=disable", cfg.DSN())
	// Redis is off unless a host is configured.
	assert.Equal(t, "", cfg.RedisAddr())
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("PAGE_SIZE", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "cache.internal:6379", cfg.RedisAddr())
	assert.Equal(t, 12, cfg.PageSize)
}
