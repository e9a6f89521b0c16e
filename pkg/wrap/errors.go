package wrap

import (
	"errors"
	"fmt"
)

// ErrReadOnly matches every illegal mutation through a read-only wrapper:
//
//	if errors.Is(err, wrap.ErrReadOnly) { ... }
var ErrReadOnly = errors.New("loom: wrapper is read-only")

// ErrIndexRange matches list accesses outside the current bounds.
var ErrIndexRange = errors.New("loom: list index out of range")

// ReadOnlyError reports a write or delete attempted through a read-only
// wrapper. Selector names the full offending path, including the root
// key or collection[id].
type ReadOnlyError struct {
	Op       string
	Selector string
}

// Error implements the error interface.
func (e *ReadOnlyError) Error() string {
	return fmt.Sprintf("loom: %s through read-only wrapper at %q", e.Op, e.Selector)
}

// Unwrap makes errors.Is(err, ErrReadOnly) hold.
func (e *ReadOnlyError) Unwrap() error {
	return ErrReadOnly
}

// IndexRangeError reports a list access outside the current bounds.
type IndexRangeError struct {
	Selector string
	Index    int
	Len      int
}

// Error implements the error interface.
func (e *IndexRangeError) Error() string {
	return fmt.Sprintf("loom: index %d out of range for list of length %d at %q", e.Index, e.Len, e.Selector)
}

// Unwrap makes errors.Is(err, ErrIndexRange) hold.
func (e *IndexRangeError) Unwrap() error {
	return ErrIndexRange
}
