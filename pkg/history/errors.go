package history

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no run matches an id.
	ErrNotFound = errors.New("run not found")

	// ErrAmbiguousID is returned when an id prefix matches several runs.
	ErrAmbiguousID = errors.New("run id prefix is ambiguous")
)

// StorageError represents an error from the history database.
type StorageError struct {
	Driver    string // "sqlite" or "sqlite3"
	Operation string // Operation that failed ("open", "record", "list", ...)
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("history error [driver=%s, operation=%s]: %v", e.Driver, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

func newStorageError(driver, operation string, cause error) *StorageError {
	return &StorageError{Driver: driver, Operation: operation, Cause: cause}
}
