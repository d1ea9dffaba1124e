package domain

import "time"

// Config file name under the track config directory.
const ConfigFileName = "config.toml"

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	DBPath       string        `toml:"db_path"`       // SQLite database path
	LogLevel     string        `toml:"log_level"`     // debug, info, warn, error
	ServeAddr    string        `toml:"serve_addr"`    // dashboard listen address
	PollInterval time.Duration `toml:"-"`             // change-detector tick
	PollRaw      string        `toml:"poll_interval"` // raw duration string, e.g. "1s"
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:     "info",
		ServeAddr:    "127.0.0.1:7690",
		PollInterval: time.Second,
		PollRaw:      "1s",
	}
}
