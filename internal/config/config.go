// Package config loads and validates the driftwm daemon
// configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DisplayConfig selects and sizes the display backend.
type DisplayConfig struct {
	// Provider is "static" (fixed extent) or "x11" (query the X
	// server for the root window geometry).
	Provider string `yaml:"provider"`
	Width    int    `yaml:"width,omitempty"`
	Height   int    `yaml:"height,omitempty"`
}

// SessionConfig controls session persistence.
type SessionConfig struct {
	// Path is the session file location (default:
	// ~/.local/share/driftwm/session.json).
	Path string `yaml:"path,omitempty"`
	// Autosave writes the session on daemon shutdown.
	Autosave bool `yaml:"autosave"`
	// RestoreOnStart loads the session file when the daemon starts,
	// if it exists.
	RestoreOnStart bool `yaml:"restore_on_start"`
}

// StreamConfig controls the websocket event stream.
type StreamConfig struct {
	Enabled bool `yaml:"enabled"`
	// Listen is the HTTP listen address (default: 127.0.0.1:7465).
	Listen string `yaml:"listen,omitempty"`
}

// LoggingConfig configures the event log.
type LoggingConfig struct {
	// Enabled turns window event logging on/off
	Enabled bool `yaml:"enabled,omitempty"`
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the log file path (default: ~/.local/share/driftwm/events.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// Config is the daemon configuration.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Session SessionConfig `yaml:"session"`
	Stream  StreamConfig  `yaml:"stream"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{Provider: "static", Width: 1920, Height: 1080},
		Session: SessionConfig{Autosave: true, RestoreOnStart: true},
		Stream:  StreamConfig{Enabled: false, Listen: "127.0.0.1:7465"},
		Logging: LoggingConfig{Enabled: true, Level: "info", MaxSizeMB: 10, MaxFiles: 3},
	}
}

// DefaultConfigPath returns ~/.config/driftwm/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "driftwm", "config.yaml"), nil
}

// DefaultSessionPath returns ~/.local/share/driftwm/session.json.
func DefaultSessionPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "driftwm", "session.json"), nil
}

// DefaultLogPath returns ~/.local/share/driftwm/events.log.
func DefaultLogPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "driftwm", "events.log"), nil
}

// Load reads the configuration from the standard location. A missing
// file yields the defaults.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from path. A missing file
// yields the defaults; a present file must parse and validate.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}

	if err := decodeStrictYAML(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse yaml: %w", path, err)
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills zero values the YAML file left out.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Display.Provider == "" {
		cfg.Display.Provider = def.Display.Provider
	}
	if cfg.Display.Width == 0 {
		cfg.Display.Width = def.Display.Width
	}
	if cfg.Display.Height == 0 {
		cfg.Display.Height = def.Display.Height
	}
	if cfg.Stream.Listen == "" {
		cfg.Stream.Listen = def.Stream.Listen
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = def.Logging.MaxSizeMB
	}
	if cfg.Logging.MaxFiles == 0 {
		cfg.Logging.MaxFiles = def.Logging.MaxFiles
	}
}

// Validate checks the configuration for values the daemon cannot run
// with.
func (c *Config) Validate() error {
	switch c.Display.Provider {
	case "static", "x11":
	default:
		return fmt.Errorf("display.provider: unknown provider %q (want static or x11)", c.Display.Provider)
	}
	if c.Display.Provider == "static" {
		if c.Display.Width < 1 || c.Display.Height < 1 {
			return fmt.Errorf("display: static extent %dx%d must be positive", c.Display.Width, c.Display.Height)
		}
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxFiles < 0 {
		return fmt.Errorf("logging: rotation limits must not be negative")
	}
	return nil
}

// SessionPath returns the configured session file path, falling back
// to the default location.
func (c *Config) SessionPath() (string, error) {
	if c.Session.Path != "" {
		return expandHome(c.Session.Path)
	}
	return DefaultSessionPath()
}

// LogPath returns the configured event log path, falling back to the
// default location.
func (c *Config) LogPath() (string, error) {
	if c.Logging.File != "" {
		return expandHome(c.Logging.File)
	}
	return DefaultLogPath()
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveToPath(path)
}

// SaveToPath writes the configuration as YAML.
func (c *Config) SaveToPath(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path == "~" || len(path) > 1 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
