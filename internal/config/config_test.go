package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CHANGE_TRACKING_ENABLED", "")
	t.Setenv("APP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Tracking.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, "migrations", cfg.Postgres.MigrationsDir)
}

func TestLoadTrackingDisabled(t *testing.T) {
	t.Setenv("CHANGE_TRACKING_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Tracking.Enabled)
}

func TestLoadRejectsInvalidTrackingFlag(t *testing.T) {
	t.Setenv("CHANGE_TRACKING_ENABLED", "sometimes")

	_, err := Load()
	require.Error(t, err)
}
