package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadForTest points config and state dirs at temp locations and reloads.
func loadForTest(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MOMENTD_CONFIG_DIR", filepath.Join(dir, "config"))
	t.Setenv("MOMENTD_STATE_DIR", filepath.Join(dir, "state"))
	Load()
}

func TestDefaults(t *testing.T) {
	loadForTest(t)

	assert.Equal(t, "sqlite", Get("storage_backend", ""))
	assert.Equal(t, ":8080", Get("listen_addr", ""))
	assert.Equal(t, 3, GetInt("toast_limit", 0))
	assert.Equal(t, 4, GetInt("toast_expiry_seconds", 0))
	assert.Equal(t, 300, GetInt("debounce_ms", 0))
	assert.False(t, GetBool("log_enabled", true))
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, "config")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	configFile := filepath.Join(configDir, "config.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("listen_addr = \":9000\"\ntoast_limit = 5\n"), 0644))

	t.Setenv("MOMENTD_CONFIG_DIR", configDir)
	t.Setenv("MOMENTD_STATE_DIR", filepath.Join(dir, "state"))
	t.Setenv("MOMENTD_LISTEN_ADDR", ":7777")
	Load()

	// env wins over file, file wins over default
	assert.Equal(t, ":7777", Get("listen_addr", ""))
	assert.Equal(t, 5, GetInt("toast_limit", 0))
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("MOMENTD_TOAST_LIMIT", "-2")
	t.Setenv("MOMENTD_STORAGE_BACKEND", "mongodb")
	t.Setenv("MOMENTD_LOG_ENABLED", "maybe")
	loadForTest(t)

	assert.Equal(t, 3, GetInt("toast_limit", 0))
	assert.Equal(t, "sqlite", Get("storage_backend", ""))
	assert.False(t, GetBool("log_enabled", true))
}

func TestBoolNormalization(t *testing.T) {
	t.Setenv("MOMENTD_QUIET", "yes")
	loadForTest(t)

	assert.Equal(t, "true", Get("quiet", ""))
	assert.True(t, GetBool("quiet", false))
}

func TestSampleConfigWrittenOnFirstLoad(t *testing.T) {
	loadForTest(t)

	samplePath := filepath.Join(Get("config_dir", ""), "config.toml")
	data, err := os.ReadFile(samplePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "momentd configuration")
	assert.Contains(t, string(data), "storage_backend")
}

func TestGetUnknownKeyReturnsDefault(t *testing.T) {
	loadForTest(t)

	assert.Equal(t, "fallback", Get("no_such_key", "fallback"))
	assert.Equal(t, 42, GetInt("no_such_key", 42))
	assert.True(t, GetBool("no_such_key", true))
}
