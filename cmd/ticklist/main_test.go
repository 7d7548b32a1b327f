package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/ticklist/internal/config"
)

func isolate(t *testing.T) {
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
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	isolate(t)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ticklist v"+version+"\n", out)
}

func TestListDemo(t *testing.T) {
	out, err := run(t, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Complete project proposal")
	assert.Contains(t, out, "Buy groceries")
	assert.Contains(t, out, "Schedule dentist appointment")
	assert.Contains(t, out, "Showing 3 of 3")
	assert.NotContains(t, out, "Filters:")
}

func TestListStatusFilter(t *testing.T) {
	out, err := run(t, "list", "--status", "active")
	require.NoError(t, err)

	assert.Contains(t, out, "Filters: Status: Active")
	assert.NotContains(t, out, "Buy groceries")
	assert.Contains(t, out, "Showing 2 of 3")
}

func TestListTagAndSearch(t *testing.T) {
	out, err := run(t, "list", "--tag", "@health", "--tag", "work")
	require.NoError(t, err)
	assert.Contains(t, out, "Schedule dentist appointment")
	assert.Contains(t, out, "Complete project proposal")
	assert.NotContains(t, out, "Buy groceries")

	out, err = run(t, "list", "--search", "DENTIST")
	require.NoError(t, err)
	assert.Contains(t, out, "Schedule dentist appointment")
	assert.Contains(t, out, "Showing 1 of 3")
}

func TestListAdd(t *testing.T) {
	out, err := run(t, "list", "--no-demo",
		"--add", "Pay rent @home !high",
		"--add", "Walk the dog")
	require.NoError(t, err)

	assert.Contains(t, out, "Pay rent")
	assert.Contains(t, out, "@home")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "Walk the dog")
	assert.Contains(t, out, "Showing 2 of 2")
	assert.Contains(t, out, "1 high priority")
}

func TestListAddRejectsEmptyTitle(t *testing.T) {
	_, err := run(t, "list", "--no-demo", "--add", "@home !high")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
}

func TestListSQLiteBackend(t *testing.T) {
	out, err := run(t, "list", "--backend", "sqlite", "--no-demo", "--add", "Stored in sqlite @db")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored in sqlite")
	assert.Contains(t, out, "Showing 1 of 1")
}

func TestListEmpty(t *testing.T) {
	out, err := run(t, "list", "--no-demo")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks.")
	assert.Contains(t, out, "Showing 0 of 0 · 0% complete")
}

func TestInvalidFlagValues(t *testing.T) {
	tests := [][]string{
		{"list", "--sort", "alphabetical"},
		{"list", "--status", "archived"},
		{"list", "--backend", "postgres"},
		{"config", "--theme", "dracula"},
	}
	for _, args := range tests {
		_, err := run(t, args...)
		assert.ErrorIs(t, err, config.ErrInvalid, "%v", args)
	}
}

func TestConfigCmd(t *testing.T) {
	out, err := run(t, "config", "--theme", "latte", "--sort", "priority", "--no-demo")
	require.NoError(t, err)

	assert.Contains(t, out, `theme = "latte"`)
	assert.Contains(t, out, `sort = "priority"`)
	assert.Contains(t, out, "demo = false")
}

func TestRootRejectsArgs(t *testing.T) {
	_, err := run(t, "unexpected")
	assert.Error(t, err)
}
