package engine

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds        = errors.New("coordinate out of bounds")
	ErrMalformedBoard     = errors.New("malformed board")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrInvalidDirection   = errors.New("invalid direction")
)

// InvariantError reports that the cached agent position no longer points at
// an Agent cell. The grid state is corrupt and the run must stop.
type InvariantError struct {
	Agent     Position
	Direction Direction
	Found     Cell
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation: agent cached at %s holds %s (attempted %s)",
		e.Agent, e.Found, e.Direction)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedBoard, fmt.Sprintf(format, args...))
}
