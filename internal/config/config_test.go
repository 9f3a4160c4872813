package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_EngineSettings(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[engine]
slot_granularity_minutes = 15
min_notice_minutes = 120
reservation_retry_attempts = 5
default_timezone = "Europe/Moscow"
`))
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Engine.SlotGranularityMinutes)
	assert.Equal(t, 120, cfg.Engine.MinNoticeMinutes)
	assert.Equal(t, 5, cfg.Engine.ReservationRetryAttempts)
	assert.Equal(t, "Europe/Moscow", cfg.Engine.DefaultTimezone)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 30, cfg.Engine.SlotGranularityMinutes)
	assert.Equal(t, 3, cfg.Engine.ReservationRetryAttempts)
	assert.Equal(t, "UTC", cfg.Engine.DefaultTimezone)
	assert.Equal(t, "sbp-scheduling-service", cfg.Metrics.ServiceName)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
