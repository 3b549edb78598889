package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "APP_ENV", "DB_DRIVER", "DB_DSN", "LIMITER_ENABLED", "CORS_TRUSTED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := loadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.port)
	assert.Equal(t, "development", cfg.environment)
	assert.Equal(t, "memory", cfg.db.driver)
	assert.True(t, cfg.limiter.enabled)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.cors.trustedOrigins)
}

func TestLoadConfigEnvironmentAndFlags(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("LIMITER_ENABLED", "false")

	cfg, err := loadConfig([]string{"-env", "staging", "-cors-trusted-origins", "http://a.example http://b.example"})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.port)
	assert.Equal(t, "staging", cfg.environment)
	assert.Equal(t, "sqlite", cfg.db.driver)
	assert.Equal(t, "hospital.sqlite", cfg.db.dsn)
	assert.False(t, cfg.limiter.enabled)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.cors.trustedOrigins)
}

func TestLoadConfigFlagBeatsEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := loadConfig([]string{"-db-driver", "bolt", "-db-dsn", "/tmp/records.db"})
	require.NoError(t, err)

	assert.Equal(t, "bolt", cfg.db.driver)
	assert.Equal(t, "/tmp/records.db", cfg.db.dsn)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	_, err := loadConfig([]string{"-db-driver", "oracle"})
	assert.ErrorContains(t, err, `unknown db driver "oracle"`)
}
