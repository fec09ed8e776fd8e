package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigDefaults(t *testing.T) {
	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "ru", cfg.Widget.DefaultLocale)
	assert.Equal(t, 500*time.Millisecond, cfg.Widget.ReplyDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.Widget.BranchDelay)
	assert.Equal(t, 30*time.Minute, cfg.Widget.SessionTTL)
	assert.False(t, cfg.StorageEnabled())
}

func TestInitConfigFromEnv(t *testing.T) {
	setenv(t, "SERVER_PORT", "9000")
	setenv(t, "MONGO_ADDRESS", "mongodb://localhost:27017")
	setenv(t, "WIDGET_REPLY_DELAY", "1s")
	setenv(t, "WIDGET_DEFAULT_LOCALE", "en")

	cfg, err := InitConfig()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
	assert.True(t, cfg.StorageEnabled())
	assert.Equal(t, time.Second, cfg.Widget.ReplyDelay)
	assert.Equal(t, "en", cfg.Widget.DefaultLocale)
	assert.Equal(t, "solves", cfg.Database.SolveCollection)
}

func TestInitConfigBadDuration(t *testing.T) {
	setenv(t, "WIDGET_ANIMATION", "soon")
	_, err := InitConfig()
	assert.Error(t, err)
}

func setenv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	require.NoError(t, os.Setenv(key, value))
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}
