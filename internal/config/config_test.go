package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("ABACATEPAY_API_KEY", "")
	t.Setenv("CATALOG_TIMEOUT", "")
	t.Setenv("FORMANCE_STACK_URL", "")
	t.Setenv("ABACATEPAY_TIMEOUT", "")
	t.Setenv("DB_BUSY_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "orders.db", cfg.Database.Path)
	assert.Equal(t, 10*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 15*time.Second, cfg.Database.BusyTimeout)
	assert.Equal(t, 5*time.Second, cfg.Catalog.Timeout)
	assert.Empty(t, cfg.Gateway.ApiKey)
	assert.Contains(t, cfg.Gateway.ReturnUrl, "{order_id}")
	assert.False(t, cfg.Formance.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/tmp/custom.db")
	t.Setenv("DB_MAX_OPEN_CONNS", "3")
	t.Setenv("CATALOG_TIMEOUT", "2s")
	t.Setenv("JWT_SECRET", "shh")
	t.Setenv("FORMANCE_STACK_URL", "http://localhost:3068")
	t.Setenv("FORMANCE_CLIENT_ID", "id")
	t.Setenv("FORMANCE_CLIENT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.Database.Path)
	assert.Equal(t, 3, cfg.Database.MaxOpenConns)
	assert.Equal(t, 2*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, "shh", cfg.Auth.JwtSecret)
	assert.True(t, cfg.Formance.Enabled())
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_READ_TIMEOUT")
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("DB_MAX_IDLE_CONNS", "many")
	assert.Equal(t, 5, getEnvInt("DB_MAX_IDLE_CONNS", 5))
}

func TestBusyTimeoutOutlastsGatewayCall(t *testing.T) {
	t.Setenv("ABACATEPAY_TIMEOUT", "10s")
	t.Setenv("DB_BUSY_TIMEOUT", "5s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_BUSY_TIMEOUT")

	t.Setenv("ABACATEPAY_TIMEOUT", "2s")
	t.Setenv("DB_BUSY_TIMEOUT", "8s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8*time.Second, cfg.Database.BusyTimeout)

	t.Setenv("DB_BUSY_TIMEOUT", "")

	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, cfg.Database.BusyTimeout)
}
