// flatmenu-bench is a benchmark and stress test for the flatmenu projection.
// It builds wide and deep menu trees and measures attaching, scanning and
// editing them through a proxy.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/phroun/flatmenu"
	"github.com/phroun/flatmenu/menutree"
)

const (
	wideTop      = 2000 // top-level items in the wide tree
	wideChildren = 5
	deepDepth    = 200 // levels in the deep tree
	deepFanout   = 2
	editCount    = 2000
	seed         = 1
)

type BenchResult struct {
	Name     string
	Duration time.Duration
	Ops      int
	Extra    string
}

// String renders one summary line: name, duration, then throughput and any
// extra detail when present.
func (r BenchResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-40s %12v", r.Name, r.Duration.Round(time.Microsecond))
	if r.Ops > 0 && r.Duration > 0 {
		fmt.Fprintf(&b, "  %d ops at %.0f/s", r.Ops, float64(r.Ops)/r.Duration.Seconds())
	}
	if r.Extra != "" {
		b.WriteString("  [" + r.Extra + "]")
	}
	return b.String()
}

// counter hands out unique item IDs for one run.
type counter int

func (c *counter) item(label string, children ...*menutree.Item) *menutree.Item {
	*c++
	it := &menutree.Item{ID: strconv.Itoa(int(*c)), Label: label, Enabled: true, Visible: true}
	return it.Add(children...)
}

func wideTree(c *counter) []*menutree.Item {
	items := make([]*menutree.Item, wideTop)
	for i := range items {
		children := make([]*menutree.Item, wideChildren)
		for j := range children {
			children[j] = c.item(fmt.Sprintf("item %d.%d", i, j))
		}
		items[i] = c.item(fmt.Sprintf("item %d", i), children...)
	}
	return items
}

// deepTree builds a spine of deepDepth levels where every level also has
// deepFanout-1 leaf siblings.
func deepTree(c *counter) []*menutree.Item {
	var build func(level int) []*menutree.Item
	build = func(level int) []*menutree.Item {
		if level == deepDepth {
			return nil
		}
		out := []*menutree.Item{c.item(fmt.Sprintf("level %d", level), build(level+1)...)}
		for k := 1; k < deepFanout; k++ {
			out = append(out, c.item(fmt.Sprintf("leaf %d.%d", level, k)))
		}
		return out
	}
	return build(0)
}

func main() {
	fmt.Printf("flatmenu-bench (%s): wide tree %dx%d, deep tree %d levels\n\n",
		runtime.Version(), wideTop, wideChildren, deepDepth)

	var results []BenchResult

	runBench := func(name string, fn func() BenchResult) {
		result := fn()
		result.Name = name
		fmt.Printf("  %s done\n", name)
		results = append(results, result)
	}

	shapes := []struct {
		name  string
		build func(*counter) []*menutree.Item
	}{
		{"wide", wideTree},
		{"deep", deepTree},
	}

	for _, shape := range shapes {
		fmt.Printf("%s tree:\n", shape.name)

		var ids counter
		tree := menutree.New()
		if err := tree.Replace(shape.build(&ids)...); err != nil {
			fmt.Printf("Failed to build tree: %v\n", err)
			os.Exit(1)
		}

		var p *flatmenu.Proxy
		runBench(shape.name+": attach", func() BenchResult {
			start := time.Now()
			p = flatmenu.New(tree, flatmenu.WithMetrics(flatmenu.NewMetrics(prometheus.NewRegistry())))
			return BenchResult{Duration: time.Since(start), Extra: fmt.Sprintf("%d rows", p.Count())}
		})
		runBench(shape.name+": cold scan (NodeAt)", func() BenchResult { return benchScan(p) })
		runBench(shape.name+": warm scan (NodeAt)", func() BenchResult { return benchScan(p) })
		runBench(shape.name+": FlatIndexOf round trip", func() BenchResult { return benchRoundTrip(p) })
		runBench(shape.name+": random inserts", func() BenchResult { return benchInserts(tree, &ids) })
		runBench(shape.name+": random removes", func() BenchResult { return benchRemoves(tree) })
		runBench(shape.name+": verify", func() BenchResult {
			start := time.Now()
			err := p.Verify()
			extra := "ok"
			if err != nil {
				extra = "FAILED: " + err.Error()
			}
			return BenchResult{Duration: time.Since(start), Extra: extra}
		})
		p.Close()
		fmt.Println()
	}

	fmt.Println("Results")
	fmt.Println("-------")
	for _, r := range results {
		fmt.Println(r)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Printf("\nheap in use %d KiB, %d KiB allocated in total over %d GC cycles\n",
		m.HeapInuse/1024, m.TotalAlloc/1024, m.NumGC)
}

func benchScan(p *flatmenu.Proxy) BenchResult {
	start := time.Now()
	n := p.Count()
	for i := 0; i < n; i++ {
		if p.NodeAt(i) == nil {
			return BenchResult{Duration: time.Since(start), Extra: fmt.Sprintf("ERROR: row %d did not resolve", i)}
		}
	}
	return BenchResult{Duration: time.Since(start), Ops: n, Extra: fmt.Sprintf("%d cached", p.CachedPaths())}
}

func benchRoundTrip(p *flatmenu.Proxy) BenchResult {
	start := time.Now()
	n := p.Count()
	for i := 0; i < n; i++ {
		if got := p.FlatIndexOf(p.NodeAt(i)); got != i {
			return BenchResult{Duration: time.Since(start), Extra: fmt.Sprintf("ERROR: row %d maps back to %d", i, got)}
		}
	}
	return BenchResult{Duration: time.Since(start), Ops: n}
}

// randomParent picks nil or an item reached by a short random descent.
func randomParent(rng *rand.Rand, tree *menutree.Tree) *menutree.Item {
	var parent *menutree.Item
	children := tree.Top()
	for len(children) > 0 && rng.Intn(3) > 0 {
		parent = children[rng.Intn(len(children))]
		children = parent.Children()
	}
	return parent
}

func benchInserts(tree *menutree.Tree, ids *counter) BenchResult {
	rng := rand.New(rand.NewSource(seed))
	start := time.Now()
	for i := 0; i < editCount; i++ {
		parent := randomParent(rng, tree)
		rows := len(tree.Top())
		if parent != nil {
			rows = parent.Len()
		}
		it := ids.item("new", ids.item("new child"))
		if err := tree.Insert(parent, rng.Intn(rows+1), it); err != nil {
			return BenchResult{Duration: time.Since(start), Extra: fmt.Sprintf("ERROR: %v", err)}
		}
	}
	return BenchResult{Duration: time.Since(start), Ops: editCount}
}

func benchRemoves(tree *menutree.Tree) BenchResult {
	rng := rand.New(rand.NewSource(seed + 1))
	start := time.Now()
	ops := 0
	for i := 0; i < editCount && tree.Len() > 0; i++ {
		parent := randomParent(rng, tree)
		rows := len(tree.Top())
		if parent != nil {
			rows = parent.Len()
		}
		if rows == 0 {
			continue
		}
		row := rng.Intn(rows)
		if _, err := tree.Remove(parent, row, row); err != nil {
			return BenchResult{Duration: time.Since(start), Extra: fmt.Sprintf("ERROR: %v", err)}
		}
		ops++
	}
	return BenchResult{Duration: time.Since(start), Ops: ops, Extra: fmt.Sprintf("%d items left", tree.Len())}
}
