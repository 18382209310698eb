package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheelhouse-hq/wheelhouse/pkg/action"
)

func TestLoadScript(t *testing.T) {
	t.Run("parses action sequence", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "actions.yaml")
		script := `- action: launch
  url: https://example.com
- action: wait
  duration: 1.5
- action: click
  coordinate: "100,200"
- action: close
`
		require.NoError(t, os.WriteFile(path, []byte(script), 0644))

		steps, err := loadScript(path)
		require.NoError(t, err)
		require.Len(t, steps, 4)
		assert.Equal(t, action.ActionLaunch, steps[0].Action)
		assert.Equal(t, "https://example.com", steps[0].URL)
		require.NotNil(t, steps[1].Duration)
		assert.Equal(t, 1.5, *steps[1].Duration)
		assert.Equal(t, "100,200", steps[2].Coordinate)
		assert.Equal(t, action.ActionClose, steps[3].Action)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadScript(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read script file")
	})

	t.Run("empty script", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("[]\n"), 0644))

		_, err := loadScript(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "contains no actions")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte(": not yaml ["), 0644))

		_, err := loadScript(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse script file")
	})
}

func TestSplitPatterns(t *testing.T) {
	assert.Equal(t, []string{"*.example.com", "api.test"}, splitPatterns("*.example.com, api.test"))
	assert.Equal(t, []string{"a.test"}, splitPatterns("a.test,,  "))
	assert.Empty(t, splitPatterns(""))
}
