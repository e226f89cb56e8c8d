package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Fixture source needs no database", func(t *testing.T) {
		t.Setenv("DATA_SOURCE", "fixture")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://jelajah.id, http://localhost:3000 ,")
		t.Setenv("CRON_TIMEZONE", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, DataSourceFixture, cfg.DataSource)
		assert.Equal(t, []string{"https://jelajah.id", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "Asia/Jakarta", cfg.Cron.Timezone)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("Postgres source requires DATABASE_URL", func(t *testing.T) {
		t.Setenv("DATA_SOURCE", "postgres")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("JWT_SECRET", "test-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("Unknown source", func(t *testing.T) {
		t.Setenv("DATA_SOURCE", "remote")
		t.Setenv("JWT_SECRET", "test-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid DATA_SOURCE")
	})

	t.Run("Missing JWT secret", func(t *testing.T) {
		t.Setenv("DATA_SOURCE", "fixture")
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})
}

func TestValidate_BadTimezone(t *testing.T) {
	cfg := &Config{
		DataSource: DataSourceFixture,
		JWT:        JWTConfig{Secret: "s"},
		Cron:       CronConfig{Enabled: true, Timezone: "Mars/Olympus"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CRON_TIMEZONE")

	cfg.Cron.Enabled = false
	assert.NoError(t, cfg.Validate())
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("DATA_SOURCE", "fixture")
	t.Setenv("JWT_SECRET", "test-secret")

	t.Setenv("TRUSTED_PROXIES", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.18.0.2")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "172.18.0.2"}, cfg.Server.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,load-balancer")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRUSTED_PROXIES")
}

func TestGetEnvAsInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	assert.Equal(t, 3, getEnvAsInt("REDIS_DB", 3))
}
