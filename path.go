package flatmenu

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is a dotted path: the sibling positions leading from the root to a
// node by repeated "nth child of" steps.
type Path []int

// String renders the path as "0.2.1". The empty path renders as "".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, row := range p {
		parts[i] = strconv.Itoa(row)
	}
	return strings.Join(parts, ".")
}

// ParsePath parses a dotted path. Empty sections are skipped, so "", "." and
// "/" all denote the root.
func ParsePath(s string) (Path, error) {
	s = strings.Trim(s, "/")
	var p Path
	for _, section := range strings.Split(s, ".") {
		if section == "" {
			continue
		}
		row, err := strconv.Atoi(section)
		if err != nil || row < 0 {
			return nil, fmt.Errorf("%w: section %q in %q", ErrInvalidPath, section, s)
		}
		p = append(p, row)
	}
	return p, nil
}

// Follow walks p from the root of src and returns the node it reaches, or
// nil if any step is out of range. The empty path yields the root (nil).
func (p Path) Follow(src Source) Node {
	var n Node
	for _, row := range p {
		n = src.Child(n, row)
		if n == nil {
			return nil
		}
	}
	return n
}

// PathOf builds the dotted path of n by walking its ancestors.
// It returns nil for the root and for nodes not connected to the root.
func PathOf(src Source, n Node) Path {
	var rev Path
	for n != nil {
		row := src.Row(n)
		if row < 0 {
			return nil
		}
		rev = append(rev, row)
		n = src.Parent(n)
	}
	p := make(Path, len(rev))
	for i, row := range rev {
		p[len(rev)-1-i] = row
	}
	return p
}

// Clone returns a copy of p that does not share its backing array.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	c := make(Path, len(p))
	copy(c, p)
	return c
}
