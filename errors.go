package stratum

import (
	"errors"
	"fmt"
)

// ErrTypeMismatch indicates a stored value doesn't match the type a typed
// accessor requested.
var ErrTypeMismatch = errors.New("type mismatch")

// TypeError is returned when a typed accessor finds a value of the wrong type.
type TypeError struct {
	// Path is the dot-separated setting path.
	Path string
	// Expected is the expected type name.
	Expected string
	// Actual is the actual type name.
	Actual string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("type error for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Is implements error matching for TypeError.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}
