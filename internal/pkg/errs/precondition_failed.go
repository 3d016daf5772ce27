package errs

import (
	"errors"
	"fmt"
)

// ErrPreconditionFailed is the sentinel wrapped by PreconditionFailedError.
var ErrPreconditionFailed = errors.New("precondition failed")

// PreconditionFailedError reports that the caller's concurrency token does not
// match the stored one, or that a conditional write lost a race.
type PreconditionFailedError struct {
	AggregateType string
	ID            any
	Expected      any
	Actual        any
}

// NewPreconditionFailedError creates a PreconditionFailedError. actual may be
// nil when the stored value is not known, e.g. after a rejected conditional write.
func NewPreconditionFailedError(aggregateType string, id, expected, actual any) *PreconditionFailedError {
	return &PreconditionFailedError{
		AggregateType: aggregateType,
		ID:            id,
		Expected:      expected,
		Actual:        actual,
	}
}

func (e *PreconditionFailedError) Error() string {
	if e.Actual == nil {
		return fmt.Sprintf("%s: %s %s was modified since version %s",
			ErrPreconditionFailed, e.AggregateType, e.ID, sanitize(e.Expected))
	}
	return fmt.Sprintf("%s: %s %s has version %s, expected %s",
		ErrPreconditionFailed, e.AggregateType, e.ID, sanitize(e.Actual), sanitize(e.Expected))
}

func (e *PreconditionFailedError) Unwrap() error {
	return ErrPreconditionFailed
}
