package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads settings in priority order:
// 1. Defaults
// 2. Config file (path, or DefaultPath when path is empty)
// 3. Environment variables
//
// A missing default config file is not an error; a missing explicit path is.
// Flags are applied by the caller afterwards, followed by Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	// 1. Pick the file
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	// 2. Decode it over the defaults
	if err := loadConfigFile(cfg, path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			path = ""
		} else {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}
	cfg.Path = path

	// 3. Override from environment
	loadFromEnv(cfg)

	cfg.StateDir = expandPath(cfg.StateDir)
	return cfg, nil
}

// loadConfigFile decodes TOML from path into cfg. Keys absent from the file
// keep their current values. Unknown keys are rejected.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	return nil
}

// loadFromEnv overrides config from TICKLIST_* environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TICKLIST_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TICKLIST_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("TICKLIST_DEMO"); v != "" {
		cfg.Demo = boolFromString(v)
	}
	if v := os.Getenv("TICKLIST_NOTIFICATIONS"); v != "" {
		cfg.Notifications = boolFromString(v)
	}
	if v := os.Getenv("TICKLIST_STATUS"); v != "" {
		cfg.Status = v
	}
	if v := os.Getenv("TICKLIST_SORT"); v != "" {
		cfg.Sort = v
	}
	if v := os.Getenv("TICKLIST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TICKLIST_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("TICKLIST_DEBUG"); v != "" {
		cfg.Debug = boolFromString(v)
	}
	if v := os.Getenv("TICKLIST_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
}

// WriteTOML encodes the effective settings as a config file.
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
