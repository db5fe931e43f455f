package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukalov/liveset/internal/lyrics/parsers/liveset"
)

func unsetEnv(t *testing.T) {
	for _, key := range []string{
		"LIVESET_API_URL", "BOT_TOKEN", "ADMIN_BOT_TOKEN", "ADMIN_USERNAMES", "LOG_CHANNEL_ID",
		"LOG_LEVEL", "REDIS_URL", "REDIS_PASSWORD", "TURSO_DATABASE_URL", "TURSO_AUTH_TOKEN",
		"SONGBOOK", "SONGBOOK_RELOAD", "SLIDE_LINES",
	} {
		// Setenv restores the previous value after the test
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, liveset.DefaultBaseURL, cfg.APIBaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "us", cfg.Songbook)
	assert.Equal(t, "@hourly", cfg.SongbookReload)
	assert.Equal(t, liveset.DefaultSlideLines, cfg.SlideLines)
	assert.Zero(t, cfg.LogChannelID)
	assert.Nil(t, cfg.AdminUsernames)
}

func TestLoadValues(t *testing.T) {
	unsetEnv(t)
	t.Setenv("BOT_TOKEN", "bot")
	t.Setenv("ADMIN_USERNAMES", "anna,@ben")
	t.Setenv("LOG_CHANNEL_ID", "-100123")
	t.Setenv("SLIDE_LINES", "6")
	t.Setenv("LIVESET_API_URL", "http://localhost:9000/liveset/V2")

	cfg, err := Load("BOT_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "bot", cfg.BotToken)
	assert.Equal(t, []string{"anna", "ben"}, cfg.AdminUsernames)
	assert.Equal(t, int64(-100123), cfg.LogChannelID)
	assert.Equal(t, 6, cfg.SlideLines)
	assert.Equal(t, "http://localhost:9000/liveset/V2", cfg.APIBaseURL)
}

func TestLoadErrors(t *testing.T) {
	unsetEnv(t)

	_, err := Load("BOT_TOKEN")
	assert.Error(t, err)

	t.Setenv("LOG_CHANNEL_ID", "abc")
	_, err = Load()
	assert.Error(t, err)

	require.NoError(t, os.Unsetenv("LOG_CHANNEL_ID"))
	t.Setenv("SLIDE_LINES", "0")
	_, err = Load()
	assert.Error(t, err)
}
