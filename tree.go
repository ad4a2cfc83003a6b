package flatmenu

// maxDepth bounds ancestor walks so a source with a parent cycle cannot hang
// the proxy.
const maxDepth = 1 << 12

// subtreeSize counts all descendants of n (nil = root, giving the number of
// non-root nodes in the tree).
func subtreeSize(src Source, n Node) int {
	rows := src.ChildCount(n)
	size := rows
	for i := 0; i < rows; i++ {
		child := src.Child(n, i)
		if child == nil {
			continue
		}
		size += subtreeSize(src, child)
	}
	return size
}

// precedingSize returns the flat width of the siblings before row under
// parent: each sibling contributes itself plus its subtree.
func precedingSize(src Source, parent Node, row int) int {
	width := 0
	for i := 0; i < row; i++ {
		sibling := src.Child(parent, i)
		if sibling == nil {
			break
		}
		width += subtreeSize(src, sibling) + 1
	}
	return width
}

// offsetAt returns the flat index that sibling position row under parent
// occupies (or would occupy, for a row about to be inserted).
func offsetAt(src Source, parent Node, row int) int {
	offset := 0

	// Each ancestor contributes itself plus every earlier sibling's subtree.
	for n, depth := parent, 0; n != nil && depth < maxDepth; depth++ {
		up := src.Parent(n)
		offset += 1 + precedingSize(src, up, src.Row(n))
		n = up
	}

	return offset + precedingSize(src, parent, row)
}

// connected reports whether n is reachable from the root, i.e. every step of
// its ancestor chain is confirmed by the parent's child list.
func connected(src Source, n Node) bool {
	for depth := 0; n != nil; depth++ {
		if depth >= maxDepth {
			return false
		}
		parent := src.Parent(n)
		row := src.Row(n)
		if row < 0 || src.Child(parent, row) != n {
			return false
		}
		n = parent
	}
	return true
}

// resolveWalk finds the node at flat index target below parent using
// cumulative subtree counts and returns it with its dotted path. path holds
// the steps already taken to reach parent.
func resolveWalk(src Source, parent Node, target int, path Path) (Node, Path) {
	rows := src.ChildCount(parent)
	cumulative := 0
	for i := 0; i < rows; i++ {
		child := src.Child(parent, i)
		if child == nil {
			return nil, nil
		}
		size := subtreeSize(src, child)

		if cumulative == target {
			return child, append(path, i)
		}
		if target <= cumulative+size {
			// Strictly inside this sibling's subtree; skip the sibling itself.
			return resolveWalk(src, child, target-cumulative-1, append(path, i))
		}
		cumulative += size + 1
	}
	return nil, nil
}

// Walk visits every non-root node of src in pre-order (the flat order).
// depth is 0 for top-level nodes. Returning false from fn stops the walk.
func Walk(src Source, fn func(n Node, depth int) bool) {
	walk(src, nil, 0, fn)
}

func walk(src Source, parent Node, depth int, fn func(Node, int) bool) bool {
	rows := src.ChildCount(parent)
	for i := 0; i < rows; i++ {
		child := src.Child(parent, i)
		if child == nil {
			continue
		}
		if !fn(child, depth) {
			return false
		}
		if !walk(src, child, depth+1, fn) {
			return false
		}
	}
	return true
}

// CountNodes returns the number of non-root nodes in src by direct recount.
func CountNodes(src Source) int {
	return subtreeSize(src, nil)
}
