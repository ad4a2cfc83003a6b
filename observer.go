package flatmenu

import "go.uber.org/zap"

// observer receives the source's notifications on behalf of a Proxy, keeping
// the Observer methods off the Proxy's public surface. Notifications from a
// source the proxy has since left are dropped.
type observer struct {
	p   *Proxy
	gen uint64
}

func (o observer) attached(kind string, first, last int) bool {
	if o.p.gen != o.gen {
		o.p.ignore(kind, first, last)
		return false
	}
	return true
}

func (o observer) RowsAboutToBeInserted(parent Node, first, last int) {
	if o.attached("insert", first, last) {
		o.p.rowsAboutToBeInserted(parent, first, last)
	}
}

func (o observer) RowsInserted(parent Node, first, last int) {
	if o.attached("inserted", first, last) {
		o.p.rowsInserted(parent, first, last)
	}
}

func (o observer) RowsAboutToBeRemoved(parent Node, first, last int) {
	if o.attached("remove", first, last) {
		o.p.rowsAboutToBeRemoved(parent, first, last)
	}
}

func (o observer) RowsRemoved(parent Node, first, last int) {
	if o.attached("removed", first, last) {
		o.p.rowsRemoved(parent, first, last)
	}
}

func (o observer) AboutToReset() {
	if o.attached("reset", 0, 0) {
		o.p.aboutToReset()
	}
}

func (o observer) ResetDone() {
	if o.attached("reset-done", 0, 0) {
		o.p.resetDone()
	}
}

// ignore logs and counts a source notification the proxy will not act on.
func (p *Proxy) ignore(kind string, first, last int) {
	p.logger.Debug("ignoring source notification",
		zap.String("kind", kind), zap.Int("first", first), zap.Int("last", last))
	p.metrics.ignoredNotification(kind)
}

func (p *Proxy) rowsAboutToBeInserted(parent Node, first, last int) {
	if first < 0 || last < first || !connected(p.src, parent) {
		p.ignore("insert", first, last)
		return
	}

	// The new rows have no subtrees yet, so they occupy a contiguous block
	// starting where row first sits now.
	firstFlat := offsetAt(p.src, parent, first)
	lastFlat := firstFlat + (last - first)

	p.logger.Debug("begin insert", zap.Int("first", firstFlat), zap.Int("last", lastFlat))
	gen := p.gen
	p.inserting = true
	p.emit(Change{Kind: BeginInsert, First: firstFlat, Last: lastFlat})
	if p.gen != gen {
		return
	}
	p.count += lastFlat - firstFlat + 1
}

func (p *Proxy) rowsInserted(parent Node, first, last int) {
	if !p.inserting {
		p.ignore("inserted", first, last)
		return
	}
	p.inserting = false

	gen := p.gen
	p.clearCache()
	p.emit(Change{Kind: EndInsert})

	// Rows may arrive with pre-built subtrees. Announce each subtree as its
	// own insertion, in sibling order, so every range is computed against a
	// tree whose earlier content the consumers already know about.
	for row := first; row <= last && p.gen == gen; row++ {
		child := p.src.Child(parent, row)
		if child == nil {
			continue
		}
		size := subtreeSize(p.src, child)
		if size == 0 {
			continue
		}
		at := offsetAt(p.src, parent, row)

		p.logger.Debug("begin subtree insert",
			zap.Int("row", row), zap.Int("first", at+1), zap.Int("last", at+size))
		p.emit(Change{Kind: BeginInsert, First: at + 1, Last: at + size})
		if p.gen != gen {
			return
		}
		p.count += size
		p.emit(Change{Kind: EndInsert})
	}
	if p.gen != gen {
		return
	}

	p.countChanged()
	p.check()
}

func (p *Proxy) rowsAboutToBeRemoved(parent Node, first, last int) {
	if first < 0 || last < first || !connected(p.src, parent) {
		p.ignore("remove", first, last)
		return
	}
	lastChild := p.src.Child(parent, last)
	if lastChild == nil {
		p.ignore("remove", first, last)
		return
	}

	// Computed while the rows and their descendants are still in the tree.
	firstFlat := offsetAt(p.src, parent, first)
	lastFlat := offsetAt(p.src, parent, last) + subtreeSize(p.src, lastChild)

	p.clearCache()
	p.logger.Debug("begin remove", zap.Int("first", firstFlat), zap.Int("last", lastFlat))
	gen := p.gen
	p.removing = true
	p.emit(Change{Kind: BeginRemove, First: firstFlat, Last: lastFlat})
	if p.gen != gen {
		return
	}
	p.count -= lastFlat - firstFlat + 1
}

func (p *Proxy) rowsRemoved(_ Node, first, last int) {
	if !p.removing {
		p.ignore("removed", first, last)
		return
	}
	p.removing = false

	// Lookups made by listeners during BeginRemove saw the old tree.
	p.clearCache()
	p.emit(Change{Kind: EndRemove})
	p.countChanged()
	p.check()
}

func (p *Proxy) aboutToReset() {
	p.resetting = true
	p.emit(Change{Kind: BeginReset})
}

func (p *Proxy) resetDone() {
	if !p.resetting {
		// Keep the pairing intact for consumers even if the source skipped
		// the announcement.
		p.emit(Change{Kind: BeginReset})
	}
	p.resetting = false

	p.count = 0
	rows := p.src.ChildCount(nil)
	for i := 0; i < rows; i++ {
		if child := p.src.Child(nil, i); child != nil {
			p.count += subtreeSize(p.src, child) + 1
		}
	}
	p.clearCache()

	p.logger.Debug("reset", zap.Int("count", p.count))
	p.emit(Change{Kind: EndReset})
	p.countChanged()
	p.check()
}
