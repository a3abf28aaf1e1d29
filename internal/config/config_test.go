package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArtfulStore/internal/storage"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load(ServiceCatalog, "")
	require.NoError(t, err)

	assert.Equal(t, "8082", cfg.Port)
	assert.Equal(t, ":8082", cfg.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, storage.DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 1500*time.Millisecond, cfg.Checkout.Delay)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_SECRET", secret)
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_PATH", "/tmp/carts")
	t.Setenv("CHECKOUT_DELAY", "250ms")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(ServiceStorefront, "")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, secret, cfg.Session.Secret)
	assert.Equal(t, storage.Config{Driver: "file", Path: "/tmp/carts"}, cfg.Storage)
	assert.Equal(t, 250*time.Millisecond, cfg.Checkout.Delay)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
session:
  secret: `+secret+`
storage:
  driver: sqlite
  path: carts.db
cart:
  add_delay: 300ms
  idle_ttl: 10m
checkout:
  rate_limit: 3
`), 0o600))

	t.Setenv("PORT", "7001")

	cfg, err := Load(ServiceStorefront, path)
	require.NoError(t, err)

	assert.Equal(t, "7001", cfg.Port)
	assert.Equal(t, storage.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "carts.db", cfg.Storage.Path)
	assert.Equal(t, 300*time.Millisecond, cfg.Cart.AddDelay)
	assert.Equal(t, 10*time.Minute, cfg.Cart.IdleTTL)
	assert.Equal(t, time.Minute, cfg.Cart.SweepEvery)
	assert.Equal(t, 3, cfg.Checkout.RateLimit)
	assert.Equal(t, time.Minute, cfg.Checkout.RateWindow)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load(ServiceStorefront, "")
	assert.ErrorContains(t, err, "SESSION_SECRET")

	t.Setenv("SESSION_SECRET", secret)
	t.Setenv("STORAGE_DRIVER", "redis")
	_, err = Load(ServiceStorefront, "")
	assert.ErrorIs(t, err, storage.ErrUnknownDriver)

	t.Setenv("STORAGE_DRIVER", "postgres")
	_, err = Load(ServiceStorefront, "")
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("CART_IDLE_TTL", "0s")
	_, err = Load(ServiceStorefront, "")
	assert.ErrorContains(t, err, "idle_ttl")

	_, err = Load(ServiceCatalog, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
