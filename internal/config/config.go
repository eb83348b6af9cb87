// Package config loads the application configuration from a TOML file,
// merging it over built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/ebb/internal/logger"
)

const (
	// AppName is used for the default config directory.
	AppName = "ebb"
	// DefaultConfigFileName inside the user config directory.
	DefaultConfigFileName = "config.toml"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger LoggerConfig `toml:"logger"`
	Editor EditorConfig `toml:"editor"`
}

// LoggerConfig holds the [logger] table.
type LoggerConfig struct {
	// Level is the minimum level to log: debug, info, warn or error.
	Level string `toml:"level"`
	// FilePath is the log file; empty or "-" means stderr.
	FilePath string `toml:"file"`
}

// EditorConfig holds the [editor] table.
type EditorConfig struct {
	// CoalesceTyping merges runs of adjacent typing and deleting into
	// single undo steps.
	CoalesceTyping bool `toml:"coalesce_typing"`
	// SystemClipboard routes cut/copy/paste through the OS clipboard
	// instead of the internal register.
	SystemClipboard bool `toml:"system_clipboard"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logger: LoggerConfig{Level: "info"},
		Editor: EditorConfig{
			CoalesceTyping:  true,
			SystemClipboard: false,
		},
	}
}

// DefaultPath returns the per-user config file location, or empty when the
// user config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// Load reads the config file at path over the defaults. A missing file is
// not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return cfg, fmt.Errorf("checking config file %q: %w", path, err)
	}

	metadata, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return cfg, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("config %q: unrecognized keys: %v", path, undecoded)
	}
	cfg.validate()
	return cfg, nil
}

// validate resets invalid values to their defaults.
func (c *Config) validate() {
	if c.Logger.Level == "" {
		c.Logger.Level = Default().Logger.Level
	}
}
