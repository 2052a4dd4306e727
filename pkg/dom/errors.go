package dom

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is wrapped by every ArgumentError.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidContext is returned when a query context is neither a
	// document nor an element.
	ErrInvalidContext = errors.New("context must be a document or element")
)

// ArgumentError describes an argument that does not meet an operation's
// contract.
type ArgumentError struct {
	Op     string
	Param  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Op, e.Param, e.Reason)
}

func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

func argError(op, param, reason string) error {
	return &ArgumentError{Op: op, Param: param, Reason: reason}
}

// hostError wraps a failure reported by the host for the i-th element.
func hostError(op string, i int, err error) error {
	return fmt.Errorf("%s: element %d: %w", op, i, err)
}
