// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"track/internal/domain"
)

// Loader loads configuration from a TOML file in the track config
// directory, overlaying it onto the built-in defaults.
type Loader struct {
	configDir string
}

// NewLoader creates a loader rooted at the default config directory
// ($XDG_CONFIG_HOME/track, falling back to ~/.config/track).
func NewLoader() *Loader {
	return &Loader{configDir: defaultConfigDir()}
}

// NewLoaderWithDir creates a loader with a custom config directory.
// This is useful for testing.
func NewLoaderWithDir(dir string) *Loader {
	return &Loader{configDir: dir}
}

func defaultConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "track")
}

// Load returns the configuration. A missing file yields the defaults.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	path := filepath.Join(l.configDir, domain.ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	var file domain.Config
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if file.DBPath != "" {
		cfg.DBPath = file.DBPath
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.ServeAddr != "" {
		cfg.ServeAddr = file.ServeAddr
	}
	if file.PollRaw != "" {
		d, err := time.ParseDuration(file.PollRaw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: invalid poll_interval %q: %w", path, file.PollRaw, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("parse %s: poll_interval must be positive, got %q", path, file.PollRaw)
		}
		cfg.PollRaw = file.PollRaw
		cfg.PollInterval = d
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("parse %s: unknown log_level %q", path, cfg.LogLevel)
	}

	return cfg, nil
}
