package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "main", c.Layout.Menu)
	assert.Equal(t, "info", c.Log.Level)
	assert.Empty(t, c.Layout.Path)
	assert.Empty(t, c.Metrics.Addr)
}

func TestLoadConfigFileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flatmenu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
layout:
  path: /etc/menus.yaml
  menu: tray
metrics:
  addr: ":9000"
`), 0o644))
	t.Setenv("FLATMENU_LOG_LEVEL", "debug")
	t.Setenv("FLATMENU_LAYOUT_MENU", "context")

	cmd := &cobra.Command{}
	cmd.Flags().String("metrics-addr", "", "")
	require.NoError(t, cmd.Flags().Set("metrics-addr", "127.0.0.1:9100"))

	c, err := LoadConfig(path, cmd)
	require.NoError(t, err)

	assert.Equal(t, "/etc/menus.yaml", c.Layout.Path)
	assert.Equal(t, "context", c.Layout.Menu, "environment overrides the file")
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "127.0.0.1:9100", c.Metrics.Addr, "flags override everything")
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestLayoutArgs(t *testing.T) {
	cfg = Config{Layout: LayoutConfig{Path: "default.yaml", Menu: "main"}}
	t.Cleanup(func() { cfg = Config{} })

	path, menu, err := layoutArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, "default.yaml", path)
	assert.Equal(t, "main", menu)

	path, menu, err = layoutArgs([]string{"other.yaml", "tray"})
	require.NoError(t, err)
	assert.Equal(t, "other.yaml", path)
	assert.Equal(t, "tray", menu)

	cfg = Config{}
	_, _, err = layoutArgs(nil)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = newLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel), "verbose enables debug")

	_, err = newLogger("loud", false)
	assert.Error(t, err)
}
