package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runScript(t *testing.T, lines ...string) (*REPL, string) {
	t.Helper()
	logger = zap.NewNop()

	var out bytes.Buffer
	r := newREPL(strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	r.run("> ")
	return r, out.String()
}

func TestREPLPrintsNotifications(t *testing.T) {
	r, out := runScript(t,
		"add / File:Open,Save Help",
		"insert 0 1 Recent",
		"remove / 1",
		"quit",
	)

	assert.Contains(t, out, "~ begin-insert 0..1")
	assert.Contains(t, out, "~ begin-insert 1..2")
	assert.Contains(t, out, "~ count-changed 4")
	assert.Contains(t, out, "~ begin-insert 2..2")
	assert.Contains(t, out, "~ begin-remove 4..4")
	assert.Contains(t, out, "Removed 1 item(s)")
	assert.Contains(t, out, "Goodbye!")

	assert.Equal(t, 4, r.proxy.Count())
	require.NoError(t, r.proxy.Verify())
}

func TestREPLListAndLookups(t *testing.T) {
	_, out := runScript(t,
		"add / File:Open,Save Help",
		"list",
		"path 2",
		"get 0",
		"index 0",
		"verify",
	)

	assert.Regexp(t, `(?m)^(> )?\s+0\s+0\s+File$`, out)
	assert.Regexp(t, `(?m)^\s+1\s+0\.0\s+Open$`, out)
	assert.Regexp(t, `(?m)^\s+3\s+1\s+Help$`, out)
	assert.Contains(t, out, "0.1\n")
	assert.Contains(t, out, "label:   File")
	assert.Contains(t, out, "0 occupies rows 0..2")
	assert.Contains(t, out, "OK: 4 rows")
}

func TestREPLErrors(t *testing.T) {
	_, out := runScript(t,
		"add 3 Orphan",
		"insert / 7 Late",
		"remove / 0",
		"get 9",
		"frobnicate",
		"lsit",
	)

	assert.Contains(t, out, "no item at 3")
	assert.Contains(t, out, "row out of bounds")
	assert.Contains(t, out, "Index 9 out of range [0, 0)")
	assert.Contains(t, out, "Unknown command: frobnicate. Type 'help'")
	assert.Contains(t, out, "Unknown command: lsit. Did you mean 'list'?")
}

func TestREPLResetAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
menus:
  main:
    - label: File
      children:
        - label: Quit
          enabled: false
`), 0o644))

	r, out := runScript(t,
		"reset A B:C",
		"load "+path+" main",
		"list",
		"load "+path+" missing",
	)

	assert.Contains(t, out, "~ begin-reset")
	assert.Contains(t, out, "~ count-changed 3")
	assert.Contains(t, out, `Loaded menu "main": 2 rows`)
	assert.Contains(t, out, "Quit (disabled)")
	assert.Contains(t, out, "menus: main")
	assert.Equal(t, 2, r.proxy.Count())
}
