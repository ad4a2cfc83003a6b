package menutree

import (
	"fmt"

	"go.uber.org/zap"
)

// Sync reconciles the tree with desired, matching items by ID. Items that
// disappeared are removed, new ones are inserted (contiguous runs in one
// batch, with their subtrees), and retained items get desired's content in
// place. When retained items change parent or relative order the tree is
// replaced instead.
//
// desired must be detached and is consumed: new items are adopted as-is.
func (t *Tree) Sync(desired ...*Item) error {
	if t.notifying {
		return ErrNotifying
	}

	parentOf := make(map[string]string)
	for _, d := range desired {
		if d == nil || d.tree != nil || d.parent != nil {
			return fmt.Errorf("sync: %w", ErrAlreadyAttached)
		}
		var err error
		walkItems(d, func(it *Item) {
			ensureID(it)
			if _, dup := parentOf[it.ID]; dup && err == nil {
				err = fmt.Errorf("sync: item %q: %w", it.ID, ErrDuplicateID)
			}
			parentOf[it.ID] = idOf(it.parent)
		})
		if err != nil {
			return err
		}
	}

	if !t.syncable(nil, t.top, desired, parentOf) {
		t.logger.Debug("sync falling back to reset", zap.Int("top", len(desired)))
		t.replace(desired)
		return nil
	}
	t.syncChildren(nil, desired)
	return nil
}

// syncable reports whether every retained item keeps its parent and its
// order relative to the other retained siblings.
func (t *Tree) syncable(parent *Item, current, desired []*Item, parentOf map[string]string) bool {
	var kept []string
	for _, it := range current {
		want, ok := parentOf[it.ID]
		if !ok {
			continue
		}
		if want != idOf(parent) {
			return false
		}
		kept = append(kept, it.ID)
	}

	i := 0
	for _, d := range desired {
		existing := t.index[d.ID]
		if existing == nil {
			continue
		}
		if existing.parent != parent || i >= len(kept) || kept[i] != d.ID {
			return false
		}
		i++
	}

	for _, d := range desired {
		if existing := t.index[d.ID]; existing != nil {
			if !t.syncable(existing, existing.children, d.children, parentOf) {
				return false
			}
		}
	}
	return true
}

// syncChildren brings parent's children in line with desired. Callers have
// checked syncable.
func (t *Tree) syncChildren(parent *Item, desired []*Item) {
	wanted := make(map[string]bool, len(desired))
	for _, d := range desired {
		wanted[d.ID] = true
	}

	// Remove vanished runs back to front so earlier rows keep their index.
	children := t.childrenOf(parent)
	for last := len(children) - 1; last >= 0; {
		if wanted[children[last].ID] {
			last--
			continue
		}
		first := last
		for first > 0 && !wanted[children[first-1].ID] {
			first--
		}
		t.remove(parent, first, last)
		last = first - 1
	}

	// Rows [0, row) now match desired[0:row].
	for row := 0; row < len(desired); {
		d := desired[row]
		if existing := t.index[d.ID]; existing != nil {
			existing.copyContent(d)
			t.syncChildren(existing, d.children)
			row++
			continue
		}

		end := row
		for end < len(desired) && t.index[desired[end].ID] == nil {
			desired[end].parent = nil
			end++
		}
		t.insert(parent, row, desired[row:end])
		row = end
	}
}

func (t *Tree) childrenOf(parent *Item) []*Item {
	if parent == nil {
		return t.top
	}
	return parent.children
}
