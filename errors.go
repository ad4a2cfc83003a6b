// Package flatmenu projects a live, arbitrarily deep menu tree onto a single
// flat, linearly indexed sequence and keeps the flat indices consistent while
// the tree is mutated.
package flatmenu

import "errors"

// Endpoint errors
var (
	// ErrNotSupported indicates that the source does not implement Endpoint.
	ErrNotSupported = errors.New("operation not supported by source")

	// ErrNoSource indicates that no source tree is attached.
	ErrNoSource = errors.New("no source attached")
)

// Path errors
var (
	// ErrInvalidPath indicates a malformed dotted path.
	ErrInvalidPath = errors.New("invalid dotted path")
)

// Consistency errors
var (
	// ErrInvariant indicates that the cached count or a flat index disagrees
	// with a direct walk of the source tree.
	ErrInvariant = errors.New("flat projection invariant violated")
)
