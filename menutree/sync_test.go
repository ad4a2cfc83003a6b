package menutree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSync(t *testing.T) {
	tests := []struct {
		name    string
		desired func() []*Item
		events  []string
		top     []string
	}{
		{
			name:    "identical",
			desired: func() []*Item { return []*Item{mk("A", mk("A.0")), mk("B"), mk("C")} },
			top:     []string{"A", "B", "C"},
		},
		{
			name: "remove insert and nested insert",
			desired: func() []*Item {
				return []*Item{mk("A", mk("A.0"), mk("A.1")), mk("C"), mk("D")}
			},
			events: []string{
				"about-remove <root> 1 1", "removed <root> 1 1",
				"about-insert A 1 1", "inserted A 1 1",
				"about-insert <root> 2 2", "inserted <root> 2 2",
			},
			top: []string{"A", "C", "D"},
		},
		{
			name:    "vanished run removed at once",
			desired: func() []*Item { return []*Item{mk("A", mk("A.0"))} },
			events:  []string{"about-remove <root> 1 2", "removed <root> 1 2"},
			top:     []string{"A"},
		},
		{
			name: "new run inserted at once with subtrees",
			desired: func() []*Item {
				return []*Item{mk("N1", mk("N1.0")), mk("N2"), mk("A", mk("A.0")), mk("B"), mk("C")}
			},
			events: []string{"about-insert <root> 0 1", "inserted <root> 0 1"},
			top:    []string{"N1", "N2", "A", "B", "C"},
		},
		{
			name:    "reorder falls back to reset",
			desired: func() []*Item { return []*Item{mk("C"), mk("A", mk("A.0")), mk("B")} },
			events:  []string{"about-reset", "reset"},
			top:     []string{"C", "A", "B"},
		},
		{
			name:    "move to another parent falls back to reset",
			desired: func() []*Item { return []*Item{mk("A"), mk("A.0"), mk("B"), mk("C")} },
			events:  []string{"about-reset", "reset"},
			top:     []string{"A", "A.0", "B", "C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, log := newTestTree(t)

			require.NoError(t, tree.Sync(tt.desired()...))

			assert.Equal(t, tt.events, log.take())
			assert.Equal(t, tt.top, ids(tree.Top()))
		})
	}
}

func TestSyncUpdatesRetainedContentInPlace(t *testing.T) {
	tree, log := newTestTree(t)
	a := tree.Find("A")
	a0 := tree.Find("A.0")

	archive := &Item{ID: "A", Label: "Archive", Action: "app.archive", Enabled: false, Visible: true}
	child := &Item{ID: "A.0", Label: "Old", Extra: map[string]any{"accel": "F2"}}
	require.NoError(t, tree.Sync(archive.Add(child), mk("B"), mk("C")))

	assert.Empty(t, log.take(), "content updates are not structural")
	assert.Same(t, a, tree.Find("A"))
	assert.Same(t, a0, tree.Find("A.0"))
	assert.Equal(t, "Archive", a.Label)
	assert.Equal(t, "app.archive", a.Action)
	assert.False(t, a.Enabled)
	assert.Equal(t, "F2", tree.Attributes(a0)["accel"])
	assert.False(t, archive.Attached(), "retained copies are not adopted")

	child.Extra["accel"] = "F3"
	assert.Equal(t, "F2", tree.Attributes(a0)["accel"], "retained items keep their own attributes")
}

func TestSyncErrors(t *testing.T) {
	tree, log := newTestTree(t)

	err := tree.Sync(mk("X"), mk("Y", mk("X")))
	assert.ErrorIs(t, err, ErrDuplicateID)

	err = tree.Sync(tree.Find("B"))
	assert.ErrorIs(t, err, ErrAlreadyAttached)

	err = tree.Sync(tree.Find("A.0"))
	assert.ErrorIs(t, err, ErrAlreadyAttached)

	assert.Empty(t, log.take())
	assert.Equal(t, []string{"A", "B", "C"}, ids(tree.Top()))
}

func TestSyncToEmpty(t *testing.T) {
	tree, log := newTestTree(t)

	require.NoError(t, tree.Sync())

	assert.Equal(t, []string{"about-remove <root> 0 2", "removed <root> 0 2"}, log.take())
	assert.Equal(t, 0, tree.Len())
}
