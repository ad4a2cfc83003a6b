// Package menutree provides an in-memory menu tree that implements
// flatmenu.Source and announces every structural change before and after it
// happens.
package menutree

import (
	"maps"

	"github.com/google/uuid"
)

// Attribute keys reported by Tree.Attributes.
const (
	AttrID      = "id"
	AttrLabel   = "label"
	AttrAction  = "action"
	AttrIcon    = "icon"
	AttrEnabled = "enabled"
	AttrVisible = "visible"
)

// Item is one menu entry. Exported fields are its content; structure is
// managed by the Tree it is attached to. An empty ID is replaced with a
// random one when the item is adopted by a tree.
type Item struct {
	ID      string
	Label   string
	Action  string
	Icon    string
	Enabled bool
	Visible bool

	// Extra holds any further attributes the transport delivered.
	Extra map[string]any

	parent   *Item
	tree     *Tree
	children []*Item
}

// NewItem creates an enabled, visible item with a random ID and the given
// children attached beneath it.
func NewItem(label string, children ...*Item) *Item {
	it := &Item{
		ID:      uuid.NewString(),
		Label:   label,
		Enabled: true,
		Visible: true,
	}
	it.Add(children...)
	return it
}

// Add appends children to an item that is not yet part of a tree, for
// building subtrees before inserting them in one go. Children that already
// have a parent are skipped. Returns it for chaining.
func (it *Item) Add(children ...*Item) *Item {
	if it.tree != nil {
		return it
	}
	for _, c := range children {
		if c == nil || c.parent != nil || c.tree != nil || c == it {
			continue
		}
		c.parent = it
		it.children = append(it.children, c)
	}
	return it
}

// Parent returns the item's parent, or nil for a top-level item.
func (it *Item) Parent() *Item {
	return it.parent
}

// Children returns a copy of the item's child list.
func (it *Item) Children() []*Item {
	return append([]*Item(nil), it.children...)
}

// Len returns the number of direct children.
func (it *Item) Len() int {
	return len(it.children)
}

// Attached reports whether the item is part of a tree.
func (it *Item) Attached() bool {
	return it.tree != nil
}

// attributes flattens the item's content into a key/value map.
func (it *Item) attributes() map[string]any {
	attrs := make(map[string]any, 6+len(it.Extra))
	for k, v := range it.Extra {
		attrs[k] = v
	}
	attrs[AttrID] = it.ID
	attrs[AttrLabel] = it.Label
	attrs[AttrAction] = it.Action
	attrs[AttrIcon] = it.Icon
	attrs[AttrEnabled] = it.Enabled
	attrs[AttrVisible] = it.Visible
	return attrs
}

// copyContent overwrites its content fields with those of src. Extra is
// copied so the two items never share attribute storage.
func (it *Item) copyContent(src *Item) {
	it.Label = src.Label
	it.Action = src.Action
	it.Icon = src.Icon
	it.Enabled = src.Enabled
	it.Visible = src.Visible
	it.Extra = maps.Clone(src.Extra)
}

// ensureID gives an item without an ID a random one.
func ensureID(it *Item) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
}

// walkItems visits it and its descendants in pre-order.
func walkItems(it *Item, fn func(*Item)) {
	fn(it)
	for _, c := range it.children {
		walkItems(c, fn)
	}
}
