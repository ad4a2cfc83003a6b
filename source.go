package flatmenu

// Node is an opaque handle identifying a position in a source tree.
// A nil Node denotes the (synthetic) root.
type Node any

// Source is the read side of a hierarchical menu tree.
//
// Children are ordered by sibling position. Implementations deliver
// structural notifications to subscribed observers serially, and every
// "about to" notification is followed by its confirmation.
type Source interface {
	// ChildCount returns the number of children of parent (nil = root).
	ChildCount(parent Node) int

	// Child returns the row-th child of parent, or nil if out of range.
	Child(parent Node, row int) Node

	// Parent returns the parent of n, or nil when n is top-level.
	Parent(n Node) Node

	// Row returns the sibling position of n under its parent, or -1.
	Row(n Node) int

	// Attributes returns the node's attributes (label, enabled, action, ...).
	Attributes(n Node) map[string]any

	// Subscribe registers an observer and returns a function removing it.
	Subscribe(o Observer) (unsubscribe func())
}

// Observer receives structural notifications from a Source, expressed in
// tree coordinates: a parent node and an inclusive range of sibling rows.
type Observer interface {
	RowsAboutToBeInserted(parent Node, first, last int)
	RowsInserted(parent Node, first, last int)
	RowsAboutToBeRemoved(parent Node, first, last int)
	RowsRemoved(parent Node, first, last int)
	AboutToReset()
	ResetDone()
}

// BusType selects the message bus an endpoint connects to.
type BusType int

const (
	// SessionBus is the per-login bus.
	SessionBus BusType = iota

	// SystemBus is the machine-wide bus.
	SystemBus
)

// String returns a human-readable bus name.
func (t BusType) String() string {
	switch t {
	case SessionBus:
		return "session"
	case SystemBus:
		return "system"
	default:
		return "unknown"
	}
}

// Status describes the connection state of an endpoint.
type Status int

const (
	// Disconnected means the endpoint is not serving a tree.
	Disconnected Status = iota

	// Connecting means the endpoint is fetching its initial layout.
	Connecting

	// Connected means the tree is live and receiving updates.
	Connected

	// Failed means the last connection attempt failed.
	Failed
)

// String returns a human-readable description of the status.
func (s Status) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Endpoint is implemented by sources backed by a transport. The proxy does
// not interpret any of it; calls are forwarded as-is.
type Endpoint interface {
	SetBusName(name string)
	BusName() string
	SetObjectPath(path string)
	ObjectPath() string
	SetBusType(t BusType)
	BusType() BusType
	Status() Status
	Start() error
	Stop() error
}
