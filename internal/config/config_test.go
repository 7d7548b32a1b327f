package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/dori/ticklist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup at a scratch directory and clears the
// environment overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	for _, key := range []string{
		"TICKLIST_THEME", "TICKLIST_BACKEND", "TICKLIST_DEMO", "TICKLIST_NOTIFICATIONS",
		"TICKLIST_STATUS", "TICKLIST_SORT", "TICKLIST_LOG_LEVEL", "TICKLIST_LOG_FILE",
		"TICKLIST_DEBUG", "TICKLIST_STATE_DIR",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ThemeNord, cfg.Theme)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.True(t, cfg.Demo)
	assert.False(t, cfg.Notifications)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, filepath.Join(dir, "state", "ticklist"), cfg.StateDir)
	assert.Equal(t, model.DefaultFilter(), cfg.Filter())
	assert.Equal(t, log.InfoLevel, cfg.Level())
}

func TestLoadDefaultFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config", "ticklist", "config.toml")
	writeFile(t, path, `
theme = "latte"
backend = "sqlite"
demo = false
status = "active"
sort = "priority"
`)

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, ThemeLatte, cfg.Theme)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.False(t, cfg.Demo)
	assert.Equal(t, model.StatusActive, cfg.Filter().Status)
	assert.Equal(t, model.SortPriority, cfg.Filter().Sort)
	// untouched keys keep defaults
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	writeFile(t, path, "theme = \"latte\"\nnotifications = false\n")

	t.Setenv("TICKLIST_THEME", "nord")
	t.Setenv("TICKLIST_NOTIFICATIONS", "yes")
	t.Setenv("TICKLIST_DEBUG", "1")
	t.Setenv("TICKLIST_SORT", "createdAt")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ThemeNord, cfg.Theme)
	assert.True(t, cfg.Notifications)
	assert.True(t, cfg.Debug)
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, model.SortCreated, cfg.Filter().Sort)
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	t.Run("explicit path missing", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.toml")
		writeFile(t, path, "theme = \n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := filepath.Join(dir, "extra.toml")
		writeFile(t, path, "colour = \"red\"\n")
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrInvalid)
		assert.ErrorContains(t, err, "colour")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"theme", func(c *Config) { c.Theme = "dracula" }},
		{"backend", func(c *Config) { c.Backend = "postgres" }},
		{"status", func(c *Config) { c.Status = "someday" }},
		{"sort", func(c *Config) { c.Sort = "title" }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLogPath(t *testing.T) {
	isolate(t)
	cfg := Default()
	assert.Equal(t, filepath.Join(cfg.StateDir, "ticklist.log"), cfg.LogPath())

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	cfg.LogFile = "~/logs/t.log"
	assert.Equal(t, filepath.Join(home, "logs", "t.log"), cfg.LogPath())
}

func TestWriteTOMLRoundTrips(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.Theme = ThemeLatte
	cfg.Path = "/somewhere/config.toml"

	var buf bytes.Buffer
	require.NoError(t, cfg.WriteTOML(&buf))
	assert.NotContains(t, buf.String(), "somewhere")

	var decoded Config
	_, err := toml.Decode(buf.String(), &decoded)
	require.NoError(t, err)
	assert.Equal(t, ThemeLatte, decoded.Theme)
	assert.True(t, decoded.Demo)
}
