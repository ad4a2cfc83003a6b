package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phroun/flatmenu"
	"github.com/phroun/flatmenu/layout"
)

const viewLayout = `
menus:
  main:
    - label: File
      children:
        - label: Open
          action: app.open
        - label: Quit
    - label: Help
`

const viewLayoutGrown = `
menus:
  main:
    - label: Recent
    - label: File
      children:
        - label: Open
          action: app.open
        - label: Save
        - label: Quit
    - label: Help
`

func newTestView(t *testing.T) (viewModel, string) {
	t.Helper()
	logger = zap.NewNop()
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(viewLayout), 0o644))

	src := layout.NewSource(path, "main")
	require.NoError(t, src.Reload())
	p := flatmenu.New(src, flatmenu.WithStrictChecks(true))
	return newViewModel(src, p), path
}

func press(m viewModel, key string) viewModel {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "end":
		msg = tea.KeyMsg{Type: tea.KeyEnd}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(viewModel)
}

func TestViewNavigation(t *testing.T) {
	m, _ := newTestView(t)

	assert.Equal(t, 0, m.sel.cursor)
	m = press(m, "down")
	m = press(m, "j")
	assert.Equal(t, 2, m.sel.cursor)
	m = press(m, "end")
	assert.Equal(t, 3, m.sel.cursor)
	m = press(m, "down")
	assert.Equal(t, 3, m.sel.cursor, "cursor stops at the last row")
	m = press(m, "g")
	assert.Equal(t, 0, m.sel.cursor)
	m = press(m, "up")
	assert.Equal(t, 0, m.sel.cursor)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestViewSelectionFollowsReload(t *testing.T) {
	m, path := newTestView(t)
	m = press(m, "end")
	require.Equal(t, 3, m.sel.cursor)

	require.NoError(t, os.WriteFile(path, []byte(viewLayoutGrown), 0o644))
	next, _ := m.Update(reloadMsg{op: fsnotify.Write})
	m = next.(viewModel)

	require.NoError(t, m.err)
	assert.Equal(t, 6, m.proxy.Count())
	assert.Equal(t, 5, m.sel.cursor, "cursor stays on Help")
	assert.Equal(t, "Help", m.proxy.Item(m.sel.cursor)["label"])
	assert.Equal(t, "file write", m.status)

	require.NoError(t, os.WriteFile(path, []byte(viewLayout), 0o644))
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(viewModel)
	assert.Equal(t, 3, m.sel.cursor, "cursor stays on Help after removals")
}

func TestViewScrollsAndRenders(t *testing.T) {
	m, _ := newTestView(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 4})
	m = next.(viewModel)

	out := m.View()
	assert.Contains(t, out, "File")
	assert.Contains(t, out, "Open")
	assert.NotContains(t, out, "Help")

	m = press(m, "end")
	assert.Equal(t, 2, m.offset)
	out = m.View()
	assert.Contains(t, out, "Help")
	assert.Contains(t, out, "4/4")
}

func TestViewReportsReloadErrors(t *testing.T) {
	m, path := newTestView(t)
	require.NoError(t, os.WriteFile(path, []byte("menus: [\n"), 0o644))

	next, _ := m.Update(reloadMsg{op: fsnotify.Write})
	m = next.(viewModel)

	assert.ErrorIs(t, m.err, layout.ErrInvalidLayout)
	assert.Equal(t, 4, m.proxy.Count(), "the last good menu stays on screen")
	assert.Contains(t, m.View(), "failed")
}

func TestIndent(t *testing.T) {
	tests := []struct {
		path flatmenu.Path
		want string
	}{
		{nil, ""},
		{flatmenu.Path{3}, ""},
		{flatmenu.Path{0, 1}, "  "},
		{flatmenu.Path{0, 1, 2}, "    "},
	}
	for _, tt := range tests {
		if got := indent(tt.path); got != tt.want {
			t.Errorf("indent(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDumpRows(t *testing.T) {
	m, _ := newTestView(t)

	var buf bytes.Buffer
	dumpRows(&buf, m.proxy)

	out := buf.String()
	assert.Regexp(t, `(?m)^\s*0\s+0\s+File$`, out)
	assert.Regexp(t, `(?m)^\s*1\s+0\.0\s+Open\s+app\.open$`, out)
	assert.Regexp(t, `(?m)^\s*3\s+1\s+Help$`, out)
}
