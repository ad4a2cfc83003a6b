package flatmenu

import (
	"testing"
)

// sampleSource builds A(A.0, A.1(A.1.0)), B, C(C.0).
// Flat order: A A.0 A.1 A.1.0 B C C.0
func sampleSource() *fakeSource {
	return newFakeSource(
		node("A", node("A.0"), node("A.1", node("A.1.0"))),
		node("B"),
		node("C", node("C.0")),
	)
}

func TestSubtreeSize(t *testing.T) {
	src := sampleSource()

	tests := []struct {
		name string
		path string
		want int
	}{
		{"root", "", 7},
		{"A", "0", 3},
		{"A.1", "0.1", 1},
		{"leaf", "0.1.0", 0},
		{"B", "1", 0},
		{"C", "2", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePath(tt.path)
			if err != nil {
				t.Fatalf("ParsePath(%q) error: %v", tt.path, err)
			}
			n := p.Follow(src)
			if got := subtreeSize(src, n); got != tt.want {
				t.Errorf("subtreeSize(%s) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

func TestOffsetAt(t *testing.T) {
	src := sampleSource()
	a := src.top[0]
	a1 := a.children[1]

	tests := []struct {
		name   string
		parent Node
		row    int
		want   int
	}{
		{"first top", nil, 0, 0},
		{"B", nil, 1, 4},
		{"C", nil, 2, 5},
		{"append at root", nil, 3, 7},
		{"A.0", a, 0, 1},
		{"A.1", a, 1, 2},
		{"append under A", a, 2, 4},
		{"A.1.0", a1, 0, 3},
		{"append under A.1", a1, 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := offsetAt(src, tt.parent, tt.row); got != tt.want {
				t.Errorf("offsetAt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveWalk(t *testing.T) {
	src := sampleSource()
	want := []struct {
		label string
		path  string
	}{
		{"A", "0"},
		{"A.0", "0.0"},
		{"A.1", "0.1"},
		{"A.1.0", "0.1.0"},
		{"B", "1"},
		{"C", "2"},
		{"C.0", "2.0"},
	}

	for i, w := range want {
		n, path := resolveWalk(src, nil, i, nil)
		if n == nil {
			t.Fatalf("resolveWalk(%d) = nil", i)
		}
		if got := n.(*fakeNode).label; got != w.label {
			t.Errorf("resolveWalk(%d) label = %q, want %q", i, got, w.label)
		}
		if path.String() != w.path {
			t.Errorf("resolveWalk(%d) path = %q, want %q", i, path, w.path)
		}
	}

	if n, _ := resolveWalk(src, nil, len(want), nil); n != nil {
		t.Errorf("resolveWalk past end = %v, want nil", n)
	}
}

func TestConnected(t *testing.T) {
	src := sampleSource()
	orphan := node("orphan", node("orphan.0"))

	if !connected(src, nil) {
		t.Error("root should be connected")
	}
	if !connected(src, src.top[0].children[1]) {
		t.Error("A.1 should be connected")
	}
	if connected(src, orphan) {
		t.Error("orphan should not be connected")
	}
	if connected(src, orphan.children[0]) {
		t.Error("orphan child should not be connected")
	}
}

func TestWalkOrderAndStop(t *testing.T) {
	src := sampleSource()

	var labels []string
	var depths []int
	Walk(src, func(n Node, depth int) bool {
		labels = append(labels, n.(*fakeNode).label)
		depths = append(depths, depth)
		return true
	})

	wantLabels := []string{"A", "A.0", "A.1", "A.1.0", "B", "C", "C.0"}
	wantDepths := []int{0, 1, 1, 2, 0, 0, 1}
	for i := range wantLabels {
		if labels[i] != wantLabels[i] || depths[i] != wantDepths[i] {
			t.Errorf("visit %d = (%s, %d), want (%s, %d)", i, labels[i], depths[i], wantLabels[i], wantDepths[i])
		}
	}

	visited := 0
	Walk(src, func(Node, int) bool {
		visited++
		return visited < 3
	})
	if visited != 3 {
		t.Errorf("Walk visited %d nodes after stop, want 3", visited)
	}

	if got := CountNodes(src); got != 7 {
		t.Errorf("CountNodes() = %d, want 7", got)
	}
}
