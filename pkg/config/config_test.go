package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Headless)
	assert.Equal(t, DefaultViewportWidth, cfg.Viewport.Width)
	assert.Equal(t, DefaultViewportHeight, cfg.Viewport.Height)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.TimeoutSeconds)
	assert.Equal(t, DefaultConsoleLogLimit, cfg.ConsoleLogLimit)
	assert.Empty(t, cfg.SessionFile)
}

func TestLoad(t *testing.T) {
	t.Run("empty path gives defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("missing file gives defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("partial file keeps defaults for omitted fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("headless: false\nviewport:\n  width: 1920\n  height: 1080\n"), 0600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.False(t, cfg.Headless)
		assert.Equal(t, 1920, cfg.Viewport.Width)
		assert.Equal(t, 1080, cfg.Viewport.Height)
		assert.Equal(t, DefaultTimeoutSeconds, cfg.TimeoutSeconds)
		assert.Equal(t, DefaultConsoleLogLimit, cfg.ConsoleLogLimit)
	})

	t.Run("session file from config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("session_file: /tmp/session.json\n"), 0600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/session.json", cfg.SessionFile)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("headless: [unclosed"), 0600))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestResolveSessionFile(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		t.Setenv(SessionFileEnvVar, "/env/session.json")
		cfg := Default()
		cfg.SessionFile = "/config/session.json"

		require.NoError(t, cfg.ResolveSessionFile("/explicit/session.json"))
		assert.Equal(t, "/explicit/session.json", cfg.SessionFile)
	})

	t.Run("config path beats environment", func(t *testing.T) {
		t.Setenv(SessionFileEnvVar, "/env/session.json")
		cfg := Default()
		cfg.SessionFile = "/config/session.json"

		require.NoError(t, cfg.ResolveSessionFile(""))
		assert.Equal(t, "/config/session.json", cfg.SessionFile)
	})

	t.Run("environment fallback", func(t *testing.T) {
		t.Setenv(SessionFileEnvVar, "/env/session.json")
		cfg := Default()

		require.NoError(t, cfg.ResolveSessionFile(""))
		assert.Equal(t, "/env/session.json", cfg.SessionFile)
	})

	t.Run("nothing set means no session file", func(t *testing.T) {
		t.Setenv(SessionFileEnvVar, "")
		cfg := Default()

		require.NoError(t, cfg.ResolveSessionFile(""))
		assert.Empty(t, cfg.SessionFile)
	})

	t.Run("tilde expands to home", func(t *testing.T) {
		cfg := Default()
		require.NoError(t, cfg.ResolveSessionFile("~/session.json"))

		home, err := os.UserHomeDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "session.json"), cfg.SessionFile)
	})

	t.Run("relative path becomes absolute", func(t *testing.T) {
		cfg := Default()
		require.NoError(t, cfg.ResolveSessionFile("session.json"))
		assert.True(t, filepath.IsAbs(cfg.SessionFile))
	})
}

func TestValidateSessionFile(t *testing.T) {
	t.Run("empty is valid", func(t *testing.T) {
		cfg := Default()
		assert.NoError(t, cfg.ValidateSessionFile())
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := Default()
		cfg.SessionFile = filepath.Join(t.TempDir(), "absent.json")

		err := cfg.ValidateSessionFile()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session file not found")
	})

	t.Run("directory is rejected", func(t *testing.T) {
		cfg := Default()
		cfg.SessionFile = t.TempDir()

		err := cfg.ValidateSessionFile()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a file")
	})

	t.Run("regular file passes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0600))

		cfg := Default()
		cfg.SessionFile = path
		assert.NoError(t, cfg.ValidateSessionFile())
	})
}
