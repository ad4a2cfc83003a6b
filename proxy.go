package flatmenu

import (
	"fmt"

	"go.uber.org/zap"
)

// listenerEntry gives each registration an identity, since Listener values
// (ListenerFuncs in particular) are not necessarily comparable.
type listenerEntry struct {
	l Listener
}

// Proxy presents a Source tree as a flat, pre-order sequence of rows.
//
// A Proxy is driven entirely by the source's notifications and by queries
// from its consumers, all on one goroutine. It keeps two pieces of derived
// state: the flat row count, maintained incrementally, and a memo of dotted
// paths for flat indices that have been resolved, dropped on every
// structural change.
type Proxy struct {
	src         Source
	unsubscribe func()
	// gen changes whenever the proxy attaches or detaches, so notifications
	// and in-flight reactions from an earlier attachment can be told apart.
	gen uint64

	count    int
	reported int
	cache    map[int]Path

	// Set between an accepted "about to" notification and its confirmation.
	inserting bool
	removing  bool
	resetting bool

	listeners []*listenerEntry
	logger    *zap.Logger
	metrics   *Metrics
	strict    bool
}

// New creates a proxy over src. src may be nil and attached later with
// SetSource.
func New(src Source, opts ...Option) *Proxy {
	p := &Proxy{
		cache:  make(map[int]Path),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.SetSource(src)
	return p
}

// Source returns the attached source tree, or nil.
func (p *Proxy) Source() Source {
	return p.src
}

// SetSource detaches from the current source and attaches to src. Consumers
// see the switch as a reset. Attaching the source already in use does nothing.
func (p *Proxy) SetSource(src Source) {
	if p.src != nil && p.src == src {
		return
	}

	p.emit(Change{Kind: BeginReset})
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}

	p.src = src
	p.gen++
	p.inserting, p.removing, p.resetting = false, false, false
	p.count = 0
	if src != nil {
		p.unsubscribe = src.Subscribe(observer{p: p, gen: p.gen})
		p.count = subtreeSize(src, nil)
	}
	p.clearCache()
	p.logger.Debug("source attached", zap.Bool("nil", src == nil), zap.Int("count", p.count))

	p.emit(Change{Kind: EndReset})
	p.forceCountChanged()
	p.check()
}

// Close detaches the proxy from its source without notifying consumers.
func (p *Proxy) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	p.src = nil
	p.gen++
	p.inserting, p.removing, p.resetting = false, false, false
	p.count = 0
	p.clearCache()
}

// AddListener registers l and returns a function that removes it.
func (p *Proxy) AddListener(l Listener) (remove func()) {
	entry := &listenerEntry{l: l}
	p.listeners = append(p.listeners, entry)
	return func() {
		for i, e := range p.listeners {
			if e == entry {
				p.listeners = append(p.listeners[:i:i], p.listeners[i+1:]...)
				return
			}
		}
	}
}

// Count returns the number of flat rows.
func (p *Proxy) Count() int {
	return p.count
}

// Resolve walks the tree to find the node at flat index i and memoizes its
// dotted path. It returns nil for an index outside [0, Count()).
func (p *Proxy) Resolve(i int) (Node, Path) {
	if p.src == nil || i < 0 || i >= p.count {
		return nil, nil
	}
	n, path := resolveWalk(p.src, nil, i, make(Path, 0, 4))
	if n == nil {
		p.logger.Warn("flat index inside count did not resolve",
			zap.Int("index", i), zap.Int("count", p.count))
		return nil, nil
	}
	p.cache[i] = path.Clone()
	p.metrics.resolved(len(path))
	return n, path
}

// NodeAt returns the node at flat index i, or nil if i is out of range.
// A previously resolved index is answered from its memoized path.
func (p *Proxy) NodeAt(i int) Node {
	if p.src == nil || i < 0 || i >= p.count {
		return nil
	}
	if path, ok := p.cache[i]; ok {
		p.metrics.cacheLookup(true)
		return path.Follow(p.src)
	}
	p.metrics.cacheLookup(false)
	n, _ := p.Resolve(i)
	return n
}

// Path returns the dotted path of flat index i.
func (p *Proxy) Path(i int) (Path, bool) {
	if path, ok := p.cache[i]; ok && i >= 0 && i < p.count {
		return path.Clone(), true
	}
	n, path := p.Resolve(i)
	if n == nil {
		return nil, false
	}
	return path.Clone(), true
}

// Item returns every attribute of the node at flat index i. The result is
// a fresh map; an absent node yields an empty map.
func (p *Proxy) Item(i int) map[string]any {
	result := make(map[string]any)
	n := p.NodeAt(i)
	if n == nil {
		return result
	}
	for k, v := range p.src.Attributes(n) {
		result[k] = v
	}
	return result
}

// FlatIndexOf returns the flat index of n, or -1 if n is the root or is not
// connected to the root.
func (p *Proxy) FlatIndexOf(n Node) int {
	if p.src == nil || n == nil || !connected(p.src, n) {
		return -1
	}
	return offsetAt(p.src, p.src.Parent(n), p.src.Row(n))
}

// LastFlatIndexOf returns the last flat index occupied by n's subtree:
// FlatIndexOf(n) plus n's subtree size. It returns -1 where FlatIndexOf does.
func (p *Proxy) LastFlatIndexOf(n Node) int {
	first := p.FlatIndexOf(n)
	if first < 0 {
		return -1
	}
	return first + subtreeSize(p.src, n)
}

// SubtreeSize returns the number of descendants of n (nil = root).
func (p *Proxy) SubtreeSize(n Node) int {
	if p.src == nil {
		return 0
	}
	return subtreeSize(p.src, n)
}

// CachedPaths returns the number of memoized flat index paths.
func (p *Proxy) CachedPaths() int {
	return len(p.cache)
}

func (p *Proxy) clearCache() {
	if len(p.cache) == 0 {
		return
	}
	clear(p.cache)
	p.metrics.cacheCleared()
}

// emit delivers c to every listener registered at the time of the call.
func (p *Proxy) emit(c Change) {
	p.metrics.notified(c.Kind)
	listeners := append([]*listenerEntry(nil), p.listeners...)
	for _, e := range listeners {
		switch c.Kind {
		case BeginInsert:
			e.l.BeginInsert(c.First, c.Last)
		case EndInsert:
			e.l.EndInsert()
		case BeginRemove:
			e.l.BeginRemove(c.First, c.Last)
		case EndRemove:
			e.l.EndRemove()
		case BeginReset:
			e.l.BeginReset()
		case EndReset:
			e.l.EndReset()
		case CountChanged:
			e.l.CountChanged(c.Count)
		}
	}
}

// countChanged fires CountChanged if the count moved since the last report.
func (p *Proxy) countChanged() {
	if p.count == p.reported {
		return
	}
	p.forceCountChanged()
}

func (p *Proxy) forceCountChanged() {
	p.reported = p.count
	p.metrics.setCount(p.count)
	p.emit(Change{Kind: CountChanged, Count: p.count})
}

// check runs Verify in strict mode and panics on a violation.
func (p *Proxy) check() {
	if !p.strict {
		return
	}
	if err := p.Verify(); err != nil {
		p.logger.Error("flat projection out of sync", zap.Error(err))
		panic(err)
	}
}

// Verify recounts the source tree and checks that the cached count matches,
// that every flat index resolves to the node at the same pre-order position
// and maps back to itself, and that every memoized path is still accurate.
func (p *Proxy) Verify() error {
	if p.src == nil {
		if p.count != 0 {
			return fmt.Errorf("%w: count %d with no source", ErrInvariant, p.count)
		}
		return nil
	}

	if want := subtreeSize(p.src, nil); p.count != want {
		return fmt.Errorf("%w: count %d, tree has %d nodes", ErrInvariant, p.count, want)
	}

	var err error
	i := 0
	Walk(p.src, func(n Node, _ int) bool {
		if got, _ := resolveWalk(p.src, nil, i, nil); got != n {
			err = fmt.Errorf("%w: flat index %d resolves to %v, pre-order has %v", ErrInvariant, i, got, n)
			return false
		}
		if got := p.FlatIndexOf(n); got != i {
			err = fmt.Errorf("%w: node at flat index %d reports index %d", ErrInvariant, i, got)
			return false
		}
		i++
		return true
	})
	if err != nil {
		return err
	}

	for idx, path := range p.cache {
		fresh, _ := resolveWalk(p.src, nil, idx, nil)
		if cached := path.Follow(p.src); cached != fresh {
			return fmt.Errorf("%w: stale cached path %s for flat index %d", ErrInvariant, path, idx)
		}
	}
	return nil
}
