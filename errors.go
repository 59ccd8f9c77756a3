package vfs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath indicates malformed path input: empty, relative segments
	// or a duplicated scheme delimiter
	ErrInvalidPath = errors.New("invalid path")

	// ErrRootViolation indicates an attempt to create, delete, move or rename the root
	ErrRootViolation = errors.New("operation not permitted on the root directory")

	// ErrMissingParent indicates a non-root path whose parent could not be resolved
	ErrMissingParent = errors.New("parent directory could not be resolved")

	// ErrNotFound indicates the path is absent from the index or of the wrong kind
	ErrNotFound = errors.New("path does not exist in the index")

	// ErrDuplicatePath indicates the target path is already present in the index
	ErrDuplicatePath = errors.New("path already exists in the index")

	// ErrInvalidDepth indicates a negative depth was requested
	ErrInvalidDepth = errors.New("depth from root must be greater than or equal to 0")
)

// Error wraps one of the sentinel errors with the operation and path involved.
type Error struct {
	Op   string // Operation that failed (e.g. "create", "move")
	Path string // Affected path as given or canonicalized
	Err  error  // Underlying sentinel
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

// Unwrap implements error unwrapping for the errors.Is/As functions
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new *Error for op on path wrapping err
func NewError(op string, path string, err error) *Error {
	return &Error{Op: op, Path: path, Err: err}
}

// Operation names used in errors, events and logs
const (
	OpParse  = "parse"
	OpCreate = "create"
	OpDelete = "delete"
	OpMove   = "move"
	OpRename = "rename"
	OpGet    = "get"
	OpDepth  = "depth"
)
