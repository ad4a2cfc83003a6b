package flatmenu

import "fmt"

// Listener receives the proxy's structural notifications in flat
// coordinates. Begin calls fire before the change is visible through
// Count and NodeAt; End calls fire once it is.
type Listener interface {
	BeginInsert(first, last int)
	EndInsert()
	BeginRemove(first, last int)
	EndRemove()
	BeginReset()
	EndReset()
	CountChanged(count int)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnBeginInsert  func(first, last int)
	OnEndInsert    func()
	OnBeginRemove  func(first, last int)
	OnEndRemove    func()
	OnBeginReset   func()
	OnEndReset     func()
	OnCountChanged func(count int)
}

func (f ListenerFuncs) BeginInsert(first, last int) {
	if f.OnBeginInsert != nil {
		f.OnBeginInsert(first, last)
	}
}

func (f ListenerFuncs) EndInsert() {
	if f.OnEndInsert != nil {
		f.OnEndInsert()
	}
}

func (f ListenerFuncs) BeginRemove(first, last int) {
	if f.OnBeginRemove != nil {
		f.OnBeginRemove(first, last)
	}
}

func (f ListenerFuncs) EndRemove() {
	if f.OnEndRemove != nil {
		f.OnEndRemove()
	}
}

func (f ListenerFuncs) BeginReset() {
	if f.OnBeginReset != nil {
		f.OnBeginReset()
	}
}

func (f ListenerFuncs) EndReset() {
	if f.OnEndReset != nil {
		f.OnEndReset()
	}
}

func (f ListenerFuncs) CountChanged(count int) {
	if f.OnCountChanged != nil {
		f.OnCountChanged(count)
	}
}

// ChangeKind identifies a flat structural notification.
type ChangeKind int

const (
	BeginInsert ChangeKind = iota
	EndInsert
	BeginRemove
	EndRemove
	BeginReset
	EndReset
	CountChanged
)

// String returns the notification name.
func (k ChangeKind) String() string {
	switch k {
	case BeginInsert:
		return "begin-insert"
	case EndInsert:
		return "end-insert"
	case BeginRemove:
		return "begin-remove"
	case EndRemove:
		return "end-remove"
	case BeginReset:
		return "begin-reset"
	case EndReset:
		return "end-reset"
	case CountChanged:
		return "count-changed"
	default:
		return "unknown"
	}
}

// Change is one recorded notification. First and Last are set for begin
// notifications; Count is set for CountChanged.
type Change struct {
	Kind  ChangeKind
	First int
	Last  int
	Count int
}

// String renders the change as "begin-insert 3..5", "count-changed 7" or
// just the kind.
func (c Change) String() string {
	switch c.Kind {
	case BeginInsert, BeginRemove:
		return fmt.Sprintf("%s %d..%d", c.Kind, c.First, c.Last)
	case CountChanged:
		return fmt.Sprintf("%s %d", c.Kind, c.Count)
	default:
		return c.Kind.String()
	}
}

// Recorder is a Listener that appends every notification to Changes.
// The REPL prints from it and tests assert against it.
type Recorder struct {
	Changes []Change
}

func (r *Recorder) BeginInsert(first, last int) {
	r.Changes = append(r.Changes, Change{Kind: BeginInsert, First: first, Last: last})
}

func (r *Recorder) EndInsert() { r.Changes = append(r.Changes, Change{Kind: EndInsert}) }

func (r *Recorder) BeginRemove(first, last int) {
	r.Changes = append(r.Changes, Change{Kind: BeginRemove, First: first, Last: last})
}

func (r *Recorder) EndRemove() { r.Changes = append(r.Changes, Change{Kind: EndRemove}) }

func (r *Recorder) BeginReset() { r.Changes = append(r.Changes, Change{Kind: BeginReset}) }

func (r *Recorder) EndReset() { r.Changes = append(r.Changes, Change{Kind: EndReset}) }

func (r *Recorder) CountChanged(count int) {
	r.Changes = append(r.Changes, Change{Kind: CountChanged, Count: count})
}

// Take returns the recorded changes and clears the recorder.
func (r *Recorder) Take() []Change {
	c := r.Changes
	r.Changes = nil
	return c
}
