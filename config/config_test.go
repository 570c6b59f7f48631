package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "abc123")
	t.Setenv("WHATSONG_SERVER_ADDRESS", "0.0.0.0:9000")
	t.Setenv("YOUTUBE_LOOKUP_TIMEOUT_SECONDS", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "abc123", cfg.Youtube.APIKey)
	assert.Equal(t, "0.0.0.0:9000", cfg.Whatsong.Address)
	assert.Equal(t, 3*time.Second, cfg.LookupTimeout())
	assert.Equal(t, slog.LevelDebug, cfg.GetLogLevel())

	// Unset values fall back to defaults
	assert.Equal(t, DefaultYoutubeURL, cfg.Youtube.BaseURL)
	assert.Equal(t, DefaultDbPath, cfg.Whatsong.DbPath)
	assert.Equal(t, 15*time.Second, cfg.NowPlayingInterval())
}

func TestLoad_FromDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("YOUTUBE_API_KEY=fromfile\nDB_PATH=/tmp/songs.db\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.Youtube.APIKey)
	assert.Equal(t, "/tmp/songs.db", cfg.Whatsong.DbPath)
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "abc123")
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}

func TestValidate_RequiresAPIKey(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate())
	cfg.Youtube.APIKey = "abc123"
	assert.NoError(t, cfg.Validate())
}

func TestOrigins(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Origins())
	cfg.Whatsong.AllowedOrigins = "https://utf9k.net, http://localhost:1313,,"
	assert.Equal(t, []string{"https://utf9k.net", "http://localhost:1313"}, cfg.Origins())
}

func TestGetLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"error":   slog.LevelError,
		"WARNING": slog.LevelWarn,
		"info":    slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := Config{Whatsong: WhatsongConfig{LogLevel: in}}
		assert.Equal(t, want, cfg.GetLogLevel(), in)
	}
}
