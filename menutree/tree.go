package menutree

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/phroun/flatmenu"
)

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger used for mutation tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tree) {
		if logger != nil {
			t.logger = logger
		}
	}
}

type observerEntry struct {
	o flatmenu.Observer
}

// Tree is an in-memory menu tree. It is not safe for concurrent use; all
// mutations and queries belong on one goroutine, matching the serial
// delivery flatmenu.Source promises.
type Tree struct {
	top       []*Item
	index     map[string]*Item
	observers []*observerEntry
	notifying bool
	logger    *zap.Logger
}

var _ flatmenu.Source = (*Tree)(nil)

// New creates an empty tree.
func New(opts ...Option) *Tree {
	t := &Tree{
		index:  make(map[string]*Item),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// item converts a flatmenu handle back into an Item of this tree.
func (t *Tree) item(n flatmenu.Node) (*Item, bool) {
	it, ok := n.(*Item)
	if !ok || it == nil || it.tree != t {
		return nil, false
	}
	return it, true
}

// childList returns the children of parent (nil = top level).
func (t *Tree) childList(parent flatmenu.Node) []*Item {
	if parent == nil {
		return t.top
	}
	it, ok := t.item(parent)
	if !ok {
		return nil
	}
	return it.children
}

// ChildCount implements flatmenu.Source.
func (t *Tree) ChildCount(parent flatmenu.Node) int {
	return len(t.childList(parent))
}

// Child implements flatmenu.Source.
func (t *Tree) Child(parent flatmenu.Node, row int) flatmenu.Node {
	children := t.childList(parent)
	if row < 0 || row >= len(children) {
		return nil
	}
	return children[row]
}

// Parent implements flatmenu.Source.
func (t *Tree) Parent(n flatmenu.Node) flatmenu.Node {
	it, ok := t.item(n)
	if !ok || it.parent == nil {
		return nil
	}
	return it.parent
}

// Row implements flatmenu.Source.
func (t *Tree) Row(n flatmenu.Node) int {
	it, ok := t.item(n)
	if !ok {
		return -1
	}
	siblings := t.top
	if it.parent != nil {
		siblings = it.parent.children
	}
	for i, s := range siblings {
		if s == it {
			return i
		}
	}
	return -1
}

// Attributes implements flatmenu.Source.
func (t *Tree) Attributes(n flatmenu.Node) map[string]any {
	it, ok := t.item(n)
	if !ok {
		return nil
	}
	return it.attributes()
}

// Subscribe implements flatmenu.Source.
func (t *Tree) Subscribe(o flatmenu.Observer) func() {
	entry := &observerEntry{o: o}
	t.observers = append(t.observers, entry)
	return func() {
		for i, e := range t.observers {
			if e == entry {
				t.observers = append(t.observers[:i:i], t.observers[i+1:]...)
				return
			}
		}
	}
}

// notify delivers fn to every observer with the reentrancy guard set.
func (t *Tree) notify(fn func(flatmenu.Observer)) {
	t.notifying = true
	defer func() { t.notifying = false }()
	for _, e := range append([]*observerEntry(nil), t.observers...) {
		fn(e.o)
	}
}

// Top returns a copy of the top-level items.
func (t *Tree) Top() []*Item {
	return append([]*Item(nil), t.top...)
}

// Len returns the number of items in the tree.
func (t *Tree) Len() int {
	return len(t.index)
}

// Find returns the item with the given ID, or nil.
func (t *Tree) Find(id string) *Item {
	return t.index[id]
}

// Walk visits every item in pre-order. Returning false stops the walk.
func (t *Tree) Walk(fn func(it *Item, depth int) bool) {
	var visit func(items []*Item, depth int) bool
	visit = func(items []*Item, depth int) bool {
		for _, it := range items {
			if !fn(it, depth) || !visit(it.children, depth+1) {
				return false
			}
		}
		return true
	}
	visit(t.top, 0)
}

// ItemAt returns the item reached by the dotted path p, or nil.
func (t *Tree) ItemAt(p flatmenu.Path) *Item {
	n := p.Follow(t)
	if n == nil {
		return nil
	}
	it, _ := t.item(n)
	return it
}

// checkParent validates a mutation target and returns its child list.
func (t *Tree) checkParent(parent *Item) ([]*Item, error) {
	if t.notifying {
		return nil, ErrNotifying
	}
	if parent == nil {
		return t.top, nil
	}
	if parent.tree != t {
		return nil, ErrNotInTree
	}
	return parent.children, nil
}

// checkDetached verifies that items can be adopted: detached, distinct, and
// carrying IDs that clash neither with each other nor with the tree.
func (t *Tree) checkDetached(items []*Item) error {
	seen := make(map[string]bool)
	for _, it := range items {
		if it == nil {
			return fmt.Errorf("nil item: %w", ErrInvalidPosition)
		}
		if it.tree != nil || it.parent != nil {
			return fmt.Errorf("item %q: %w", it.ID, ErrAlreadyAttached)
		}
		var err error
		walkItems(it, func(d *Item) {
			if err != nil {
				return
			}
			ensureID(d)
			if seen[d.ID] || t.index[d.ID] != nil {
				err = fmt.Errorf("item %q: %w", d.ID, ErrDuplicateID)
			}
			seen[d.ID] = true
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Insert places items under parent (nil = top level) starting at row. Items
// may carry pre-built subtrees; one notification pair covers the batch.
func (t *Tree) Insert(parent *Item, row int, items ...*Item) error {
	children, err := t.checkParent(parent)
	if err != nil {
		return err
	}
	if row < 0 || row > len(children) {
		return fmt.Errorf("insert at row %d of %d: %w", row, len(children), ErrInvalidPosition)
	}
	if len(items) == 0 {
		return nil
	}
	if err := t.checkDetached(items); err != nil {
		return err
	}
	t.insert(parent, row, items)
	return nil
}

// Append places items after the last child of parent.
func (t *Tree) Append(parent *Item, items ...*Item) error {
	children, err := t.checkParent(parent)
	if err != nil {
		return err
	}
	return t.Insert(parent, len(children), items...)
}

// insert performs a validated insertion and its notifications.
func (t *Tree) insert(parent *Item, row int, items []*Item) {
	first, last := row, row+len(items)-1
	node := parentNode(parent)

	t.notify(func(o flatmenu.Observer) { o.RowsAboutToBeInserted(node, first, last) })

	children := t.top
	if parent != nil {
		children = parent.children
	}
	spliced := make([]*Item, 0, len(children)+len(items))
	spliced = append(spliced, children[:row]...)
	spliced = append(spliced, items...)
	spliced = append(spliced, children[row:]...)
	for _, it := range items {
		it.parent = parent
		walkItems(it, func(d *Item) {
			d.tree = t
			t.index[d.ID] = d
		})
	}
	t.setChildren(parent, spliced)

	t.logger.Debug("inserted items",
		zap.String("parent", idOf(parent)), zap.Int("first", first), zap.Int("last", last))
	t.notify(func(o flatmenu.Observer) { o.RowsInserted(node, first, last) })
}

// Remove detaches rows [first, last] of parent together with their subtrees
// and returns the removed items.
func (t *Tree) Remove(parent *Item, first, last int) ([]*Item, error) {
	children, err := t.checkParent(parent)
	if err != nil {
		return nil, err
	}
	if first < 0 || last < first || last >= len(children) {
		return nil, fmt.Errorf("remove rows %d..%d of %d: %w", first, last, len(children), ErrInvalidPosition)
	}
	return t.remove(parent, first, last), nil
}

// RemoveItem detaches it and its subtree from the tree.
func (t *Tree) RemoveItem(it *Item) error {
	if it == nil || it.tree != t {
		return ErrNotInTree
	}
	row := t.Row(it)
	_, err := t.Remove(it.parent, row, row)
	return err
}

func (t *Tree) remove(parent *Item, first, last int) []*Item {
	node := parentNode(parent)
	t.notify(func(o flatmenu.Observer) { o.RowsAboutToBeRemoved(node, first, last) })

	children := t.top
	if parent != nil {
		children = parent.children
	}
	removed := append([]*Item(nil), children[first:last+1]...)
	remaining := make([]*Item, 0, len(children)-len(removed))
	remaining = append(remaining, children[:first]...)
	remaining = append(remaining, children[last+1:]...)
	t.setChildren(parent, remaining)
	for _, it := range removed {
		t.detach(it)
	}

	t.logger.Debug("removed items",
		zap.String("parent", idOf(parent)), zap.Int("first", first), zap.Int("last", last))
	t.notify(func(o flatmenu.Observer) { o.RowsRemoved(node, first, last) })
	return removed
}

// Replace swaps the whole content of the tree for items, announced as a
// reset.
func (t *Tree) Replace(items ...*Item) error {
	if t.notifying {
		return ErrNotifying
	}
	// IDs only need to be unique among the new items.
	saved := t.index
	t.index = map[string]*Item{}
	err := t.checkDetached(items)
	t.index = saved
	if err != nil {
		return err
	}
	t.replace(items)
	return nil
}

// Clear removes every item, announced as a reset.
func (t *Tree) Clear() {
	if t.notifying {
		return
	}
	t.replace(nil)
}

func (t *Tree) replace(items []*Item) {
	t.notify(func(o flatmenu.Observer) { o.AboutToReset() })

	for _, it := range t.top {
		t.detach(it)
	}
	t.top = nil
	t.index = make(map[string]*Item)
	for _, it := range items {
		it.parent = nil
		walkItems(it, func(d *Item) {
			d.tree = t
			t.index[d.ID] = d
		})
	}
	t.top = append([]*Item(nil), items...)

	t.logger.Debug("reset tree", zap.Int("top", len(items)), zap.Int("items", len(t.index)))
	t.notify(func(o flatmenu.Observer) { o.ResetDone() })
}

// detach unlinks it and its subtree from the tree. Structure beneath it is
// kept so the removed subtree stays usable on its own.
func (t *Tree) detach(it *Item) {
	it.parent = nil
	walkItems(it, func(d *Item) {
		d.tree = nil
		if t.index[d.ID] == d {
			delete(t.index, d.ID)
		}
	})
}

func (t *Tree) setChildren(parent *Item, children []*Item) {
	if parent == nil {
		t.top = children
		return
	}
	parent.children = children
}

// parentNode converts a parent item into a flatmenu handle, keeping the
// root as an untyped nil.
func parentNode(parent *Item) flatmenu.Node {
	if parent == nil {
		return nil
	}
	return parent
}

func idOf(it *Item) string {
	if it == nil {
		return "<root>"
	}
	return it.ID
}
