package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config describes all user-tunable settings.
type Config struct {
	DatabasePath string `toml:"database_path"`
	LogLevel     string `toml:"log_level"`
	LogFormat    string `toml:"log_format"`
	WorkerID     string `toml:"worker_id"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DatabasePath: "~/.local/share/workq/workq.db",
		LogLevel:     "info",
		LogFormat:    "console",
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	return "~/.config/workq/config.toml"
}

// Load reads the configuration from path, or from the default location when
// path is empty. A missing file is not an error: defaults are returned. The
// second return value is the resolved path the config was (or would be)
// read from.
func Load(path string) (*Config, string, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}
	resolved, err := ExpandPath(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolve config path: %w", err)
	}

	cfg := Default()
	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := cfg.normalize(); err != nil {
				return nil, "", err
			}
			return &cfg, resolved, nil
		}
		return nil, "", fmt.Errorf("read config %s: %w", resolved, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, "", fmt.Errorf("parse config %s: %w", resolved, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", err
	}
	return &cfg, resolved, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	resolved, err := ExpandPath(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", resolved, err)
	}
	return nil
}

// EnsureDirectories creates the directory holding the queue database.
func (c *Config) EnsureDirectories() error {
	dir := filepath.Dir(c.DatabasePath)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure database directory: %w", err)
	}
	return nil
}

func (c *Config) normalize() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		c.DatabasePath = Default().DatabasePath
	}
	expanded, err := ExpandPath(c.DatabasePath)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	c.DatabasePath = expanded

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat == "" {
		c.LogFormat = "console"
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("config: unsupported log_format %q", c.LogFormat)
	}
	c.WorkerID = strings.TrimSpace(c.WorkerID)
	return nil
}

// ExpandPath resolves a leading ~ to the current user's home directory.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("path is empty")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return filepath.Abs(path)
}
