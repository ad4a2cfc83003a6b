package flatmenu

// fakeNode and fakeSource form a minimal Source for package-internal tests.
// Mutations are raw: tests send notifications themselves, which lets them
// model sources that misbehave.
type fakeNode struct {
	label    string
	parent   *fakeNode
	children []*fakeNode
}

type fakeSource struct {
	top       []*fakeNode
	observers []Observer
}

func node(label string, children ...*fakeNode) *fakeNode {
	n := &fakeNode{label: label}
	for _, c := range children {
		c.parent = n
	}
	n.children = children
	return n
}

func newFakeSource(top ...*fakeNode) *fakeSource {
	return &fakeSource{top: top}
}

func (s *fakeSource) list(parent Node) []*fakeNode {
	if parent == nil {
		return s.top
	}
	return parent.(*fakeNode).children
}

func (s *fakeSource) ChildCount(parent Node) int { return len(s.list(parent)) }

func (s *fakeSource) Child(parent Node, row int) Node {
	l := s.list(parent)
	if row < 0 || row >= len(l) {
		return nil
	}
	return l[row]
}

func (s *fakeSource) Parent(n Node) Node {
	if p := n.(*fakeNode).parent; p != nil {
		return p
	}
	return nil
}

func (s *fakeSource) Row(n Node) int {
	fn := n.(*fakeNode)
	siblings := s.top
	if fn.parent != nil {
		siblings = fn.parent.children
	}
	for i, c := range siblings {
		if c == fn {
			return i
		}
	}
	return -1
}

func (s *fakeSource) Attributes(n Node) map[string]any {
	return map[string]any{"label": n.(*fakeNode).label}
}

func (s *fakeSource) Subscribe(o Observer) func() {
	s.observers = append(s.observers, o)
	return func() { s.observers = nil }
}

// insert splices items under parent at row, sending both notifications.
func (s *fakeSource) insert(parent *fakeNode, row int, items ...*fakeNode) {
	var pn Node
	if parent != nil {
		pn = parent
	}
	for _, o := range s.observers {
		o.RowsAboutToBeInserted(pn, row, row+len(items)-1)
	}
	s.insertRaw(parent, row, items...)
	for _, o := range s.observers {
		o.RowsInserted(pn, row, row+len(items)-1)
	}
}

func (s *fakeSource) insertRaw(parent *fakeNode, row int, items ...*fakeNode) {
	l := s.top
	if parent != nil {
		l = parent.children
	}
	out := append(append(append([]*fakeNode(nil), l[:row]...), items...), l[row:]...)
	for _, it := range items {
		it.parent = parent
	}
	if parent == nil {
		s.top = out
	} else {
		parent.children = out
	}
}

func (s *fakeSource) labels(p *Proxy) []string {
	var out []string
	for i := 0; i < p.Count(); i++ {
		n := p.NodeAt(i)
		if n == nil {
			out = append(out, "<nil>")
			continue
		}
		out = append(out, n.(*fakeNode).label)
	}
	return out
}
