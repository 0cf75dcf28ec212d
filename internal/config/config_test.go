package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "TRY", cfg.Donation.Currency)
	assert.Equal(t, 5, cfg.Donation.MaxQuantity)
	assert.Equal(t, 100000.0, cfg.Donation.MaxAmount)
	assert.Equal(t, 20, cfg.Donation.HistoryLimit)
	assert.Equal(t, 6, cfg.Security.PasswordMinLength)
	assert.Equal(t, StorageProviderLocal, cfg.Storage.Provider)
	assert.Equal(t, "@every 1h", cfg.Jobs.ReconcileSchedule)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", DatabaseDriverMemory)
	t.Setenv("DONATION_MAX_QUANTITY", "3")
	t.Setenv("DONATION_RETRY_BASE_DELAY", "5ms")
	t.Setenv("DONATION_MAX_AMOUNT", "2500.50")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, DatabaseDriverMemory, cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Donation.MaxQuantity)
	assert.Equal(t, 5*time.Millisecond, cfg.Donation.RetryBaseDelay)
	assert.Equal(t, 2500.5, cfg.Donation.MaxAmount)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CORSAllowedOrigins)
	assert.False(t, cfg.Redis.Enabled)
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "not-a-port")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "forever")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.Security.JWTAccessTokenTTL)
}
