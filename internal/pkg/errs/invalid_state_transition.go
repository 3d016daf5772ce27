package errs

import (
	"errors"
	"fmt"
)

// ErrInvalidStateTransition is the sentinel wrapped by InvalidStateTransitionError.
var ErrInvalidStateTransition = errors.New("invalid state transition")

// InvalidStateTransitionError reports an operation that is not allowed from
// the aggregate's current status.
type InvalidStateTransitionError struct {
	CurrentStatus string
	Operation     string
	Cause         error
}

// NewInvalidStateTransitionError creates an InvalidStateTransitionError.
func NewInvalidStateTransitionError(currentStatus, operation string) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{CurrentStatus: currentStatus, Operation: operation}
}

// NewInvalidStateTransitionErrorWithCause creates an InvalidStateTransitionError with an attached cause.
func NewInvalidStateTransitionErrorWithCause(currentStatus, operation string, cause error) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{CurrentStatus: currentStatus, Operation: operation, Cause: cause}
}

func (e *InvalidStateTransitionError) Error() string {
	return withCause(fmt.Sprintf("%s: cannot %s while %s", ErrInvalidStateTransition, e.Operation, e.CurrentStatus), e.Cause)
}

func (e *InvalidStateTransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}
