package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Len(t, config.SessionSecret, 64)

	want := DefaultConfig()
	want.SessionSecret = config.SessionSecret
	assert.Equal(t, want, config)

	// the generated secret is persisted, not regenerated
	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.SessionSecret, again.SessionSecret)

	other, err := LoadConfig(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.NotEqual(t, config.SessionSecret, other.SessionSecret)
}

func TestLoadConfigRequiresSessionSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"addr": ":8080"}`), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "session_secret")
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"addr": ":8080", "database_path": "/tmp/x.db", "timezone": "UTC", "session_secret": "s3cret"}`), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", config.Addr)
	assert.Equal(t, "/tmp/x.db", config.DatabasePath)
	assert.Equal(t, "info", config.LogLevel)

	loc, err := config.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("TEXTGEN_ADDR", ":9999")
	t.Setenv("TEXTGEN_DEBUG", "true")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", config.Addr)
	assert.True(t, config.Debug)
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{not json`), 0o644))
	_, err := LoadConfig(bad)
	assert.Error(t, err)

	tz := filepath.Join(dir, "tz.json")
	require.NoError(t, os.WriteFile(tz, []byte(`{"timezone": "Mars/Olympus", "session_secret": "s3cret"}`), 0o644))
	_, err = LoadConfig(tz)
	assert.Error(t, err)
}

func TestShutdownTimeout(t *testing.T) {
	assert.Equal(t, 10*time.Second, (&Config{}).ShutdownTimeout())
	assert.Equal(t, 3*time.Second, (&Config{ShutdownTimeoutSec: 3}).ShutdownTimeout())
}
