package menutree

import "errors"

// Position errors
var (
	// ErrInvalidPosition indicates a row or row range outside the parent's children.
	ErrInvalidPosition = errors.New("row out of bounds")

	// ErrNotInTree indicates that a parent item does not belong to this tree.
	ErrNotInTree = errors.New("item is not part of this tree")
)

// Attachment errors
var (
	// ErrAlreadyAttached indicates that an inserted item already has a parent or tree.
	ErrAlreadyAttached = errors.New("item is already attached")

	// ErrDuplicateID indicates that an item ID is used more than once.
	ErrDuplicateID = errors.New("duplicate item id")
)

// Notification errors
var (
	// ErrNotifying indicates a mutation attempted from inside a change notification.
	ErrNotifying = errors.New("tree is delivering a notification")
)
