// internal/motion/errors.go
package motion

import (
	"errors"
	"fmt"
)

var (
	// ErrMoveCancelled is returned when the context is done before the pointer
	// reaches its destination. The context error is wrapped alongside it.
	ErrMoveCancelled = errors.New("pointer move cancelled")
	// ErrTargetUnreachable is returned when the plan had to be rebuilt more
	// often than the Nature allows without the pointer ever settling on target.
	ErrTargetUnreachable = errors.New("pointer did not settle on target")
	// ErrInvalidNature is returned by Nature.Validate.
	ErrInvalidNature = errors.New("invalid motion nature")
	// ErrBackend wraps failures reported by an AsyncBackend.
	ErrBackend = errors.New("pointer backend failure")
)

func cancelled(cause error) error {
	return fmt.Errorf("%w: %w", ErrMoveCancelled, cause)
}

func backendError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrBackend, op, err)
}
