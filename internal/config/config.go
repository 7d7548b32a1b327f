// Package config holds ticklist's user settings. Values are layered as
// defaults, then the TOML config file, then TICKLIST_* environment variables,
// then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dori/ticklist/internal/model"
)

// ErrInvalid is returned by Validate for settings outside their allowed values.
var ErrInvalid = errors.New("invalid config")

// Backend names
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Theme names
const (
	ThemeNord  = "nord"
	ThemeLatte = "latte"
)

// Config is the full set of user settings.
type Config struct {
	Theme         string `toml:"theme"`
	Backend       string `toml:"backend"`
	Demo          bool   `toml:"demo"`
	Notifications bool   `toml:"notifications"`
	Status        string `toml:"status"`
	Sort          string `toml:"sort"`
	LogLevel      string `toml:"log_level"`
	LogFile       string `toml:"log_file"`
	Debug         bool   `toml:"debug"`

	// StateDir holds the lock file and the default debug log.
	StateDir string `toml:"state_dir"`

	// Path is the config file that was read, empty when none was found.
	Path string `toml:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Theme:    ThemeNord,
		Backend:  BackendMemory,
		Demo:     true,
		Status:   string(model.StatusAll),
		Sort:     string(model.SortDueDate),
		LogLevel: "info",
		StateDir: DefaultStateDir(),
	}
}

// Validate rejects unknown enum values. Errors wrap ErrInvalid.
func (c *Config) Validate() error {
	var errs []error

	switch c.Theme {
	case ThemeNord, ThemeLatte:
	default:
		errs = append(errs, fmt.Errorf("%w: theme %q (want nord or latte)", ErrInvalid, c.Theme))
	}
	switch c.Backend {
	case BackendMemory, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("%w: backend %q (want memory or sqlite)", ErrInvalid, c.Backend))
	}
	if _, err := model.ParseStatusFilter(c.Status); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalid, err))
	}
	if _, err := model.ParseSortKey(c.Sort); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalid, err))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel))
	}

	return errors.Join(errs...)
}

// Filter returns the starting filter described by status and sort.
// Call Validate first; unknown values fall back to the defaults.
func (c *Config) Filter() model.Filter {
	f := model.DefaultFilter()
	if status, err := model.ParseStatusFilter(c.Status); err == nil {
		f = f.WithStatus(status)
	}
	if key, err := model.ParseSortKey(c.Sort); err == nil {
		f = f.WithSort(key)
	}
	return f
}

// Level returns the parsed log level. Debug mode forces debug level.
func (c *Config) Level() log.Level {
	if c.Debug {
		return log.DebugLevel
	}
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// LogPath returns where the debug log goes: log_file if set, otherwise
// ticklist.log in the state directory.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return expandPath(c.LogFile)
	}
	return filepath.Join(c.StateDir, "ticklist.log")
}

// DefaultPath returns $XDG_CONFIG_HOME/ticklist/config.toml, falling back to
// the OS config directory.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "ticklist", "config.toml")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".ticklist", "config.toml")
	}
	return filepath.Join(dir, "ticklist", "config.toml")
}

// DefaultStateDir returns $XDG_STATE_HOME/ticklist or ~/.local/state/ticklist.
func DefaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "ticklist")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ticklist"
	}
	return filepath.Join(home, ".local", "state", "ticklist")
}

// expandPath expands ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}
