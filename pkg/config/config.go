// Package config holds browser and session-file configuration for
// wheelhouse. Settings load from an optional YAML file with defaults
// applied, and the session-file path resolves from an explicit value or the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SessionFileEnvVar names the default session-file path used when no
// explicit path is supplied.
const SessionFileEnvVar = "WHEELHOUSE_SESSION_FILE"

// Defaults applied where the config file is absent or silent.
const (
	DefaultViewportWidth   = 1280
	DefaultViewportHeight  = 720
	DefaultTimeoutSeconds  = 30.0
	DefaultConsoleLogLimit = 500
)

// Viewport is the browser viewport size in pixels.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config holds browser launch settings and the storage-state session file
// used to seed new browser contexts.
type Config struct {
	Headless        bool     `yaml:"headless"`
	Viewport        Viewport `yaml:"viewport"`
	TimeoutSeconds  float64  `yaml:"timeout_seconds"`
	ConsoleLogLimit int      `yaml:"console_log_limit"`

	// SessionFile is the canonical storage-state file applied at launch.
	// Empty means launch with a fresh session.
	SessionFile string `yaml:"session_file"`
}

// Default returns a config with all defaults applied.
func Default() *Config {
	return &Config{
		Headless:        true,
		Viewport:        Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight},
		TimeoutSeconds:  DefaultTimeoutSeconds,
		ConsoleLogLimit: DefaultConsoleLogLimit,
	}
}

// Load reads a YAML config file over the defaults. A missing path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.Viewport.Width <= 0 {
		cfg.Viewport.Width = DefaultViewportWidth
	}
	if cfg.Viewport.Height <= 0 {
		cfg.Viewport.Height = DefaultViewportHeight
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.ConsoleLogLimit <= 0 {
		cfg.ConsoleLogLimit = DefaultConsoleLogLimit
	}
	return cfg, nil
}

// ResolveSessionFile fills SessionFile from the explicit path, or the
// environment when the explicit path is empty, and normalizes it to an
// absolute path with ~ expanded. An empty result means no session file.
func (c *Config) ResolveSessionFile(explicit string) error {
	path := explicit
	if path == "" {
		path = c.SessionFile
	}
	if path == "" {
		path = os.Getenv(SessionFileEnvVar)
	}
	if path == "" {
		c.SessionFile = ""
		return nil
	}

	expanded, err := expandUser(path)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return fmt.Errorf("failed to resolve session file path %s: %w", path, err)
	}
	c.SessionFile = abs
	return nil
}

// ValidateSessionFile checks that the configured session file, if any,
// exists and is a regular file.
func (c *Config) ValidateSessionFile() error {
	if c.SessionFile == "" {
		return nil
	}

	info, err := os.Stat(c.SessionFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("session file not found: %s: %w", c.SessionFile, err)
		}
		return fmt.Errorf("failed to stat session file %s: %w", c.SessionFile, err)
	}
	if info.IsDir() {
		return fmt.Errorf("session file path is not a file: %s", c.SessionFile)
	}
	return nil
}

func expandUser(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand ~ in %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
