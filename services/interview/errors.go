package interview

import (
	"errors"
	"fmt"
)

// ErrPrecondition is matched by every error that rejects a call made in the
// wrong session state.
var ErrPrecondition = errors.New("precondition violated")

var (
	ErrNotInitialized       = fmt.Errorf("%w: interview is not initialized", ErrPrecondition)
	ErrInterviewComplete    = fmt.Errorf("%w: interview is already complete", ErrPrecondition)
	ErrInterviewNotComplete = fmt.Errorf("%w: interview is not complete yet", ErrPrecondition)
	ErrInvalidProfile       = fmt.Errorf("%w: invalid candidate profile", ErrPrecondition)
)

// PersistenceError reports a failed audit log write. It is returned together
// with a valid result: the in-memory session already moved on.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist interview log (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
