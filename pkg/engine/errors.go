package engine

import (
	"fmt"
)

// ReadError is returned when a source file cannot be read or is rejected
// before parsing.
type ReadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ReadError) Unwrap() error {
	return e.Err
}

// CheckerFaultError is returned when a checker panics and fault isolation
// is disabled.
type CheckerFaultError struct {
	RuleID string
	Path   string
	Value  any
	Stack  []byte
}

// Error implements the error interface.
func (e *CheckerFaultError) Error() string {
	return fmt.Sprintf("checker %s faulted on %s: %v", e.RuleID, e.Path, e.Value)
}

// Unwrap returns the panic value if it was an error.
func (e *CheckerFaultError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
