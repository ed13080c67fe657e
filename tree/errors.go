package tree

import (
	"errors"
	"fmt"
)

// Errors returned by tree operations.
var (
	// ErrNotFound indicates the path or child doesn't exist.
	ErrNotFound = errors.New("path not found")

	// ErrAlreadyExists indicates a child with the same name is already present.
	ErrAlreadyExists = errors.New("child already exists")

	// ErrTypeConflict indicates an attempt to treat a Leaf as a Node,
	// such as descending through it or adding a child under it.
	ErrTypeConflict = errors.New("leaf cannot have children")

	// ErrEmptyPath indicates an operation that requires a non-empty path
	// was given a zero-length one.
	ErrEmptyPath = errors.New("empty path")
)

// PathError reports a failed tree operation together with the path at
// which it failed. The wrapped error is one of the sentinel errors above,
// so callers can match with errors.Is.
type PathError struct {
	// Op is the operation that failed ("navigate", "upsert", ...).
	Op string
	// Path is the path at which the operation failed. For navigation
	// failures this is the prefix up to and including the offending
	// segment, not necessarily the full requested path.
	Path Path
	// Err is the underlying sentinel error.
	Err error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path.String(), e.Err)
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error {
	return e.Err
}
