package interview

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPhase matches every *InvalidPhaseError via errors.Is.
	ErrInvalidPhase   = errors.New("invalid interview phase")
	ErrAlreadyStarted = errors.New("interview already started")
	ErrNotStarted     = errors.New("interview has not been started")
	ErrEmptyAnswer    = errors.New("answer must not be empty")
	ErrNilState       = errors.New("interview state is nil")
)

// InvalidPhaseError reports an operation that the state machine does not
// allow in the current phase.
type InvalidPhaseError struct {
	Op    string
	Phase Phase
}

func (e *InvalidPhaseError) Error() string {
	return fmt.Sprintf("%s: not allowed in phase %q", e.Op, e.Phase)
}

func (e *InvalidPhaseError) Is(target error) bool {
	return target == ErrInvalidPhase
}
