package errs

import (
	"errors"
	"fmt"
)

// ErrCarrierTransient is the sentinel wrapped by CarrierTransientError.
var ErrCarrierTransient = errors.New("carrier temporarily unavailable")

// CarrierTransientError reports a carrier call that timed out or failed in a
// way worth retrying later.
type CarrierTransientError struct {
	CarrierName string
	Operation   string
	Cause       error
}

// NewCarrierTransientError creates a CarrierTransientError.
func NewCarrierTransientError(carrierName, operation string, cause error) *CarrierTransientError {
	return &CarrierTransientError{CarrierName: carrierName, Operation: operation, Cause: cause}
}

func (e *CarrierTransientError) Error() string {
	return withCause(fmt.Sprintf("%s: %s %s", ErrCarrierTransient, e.CarrierName, e.Operation), e.Cause)
}

// Unwrap exposes both the sentinel and the cause, so errors.Is matches
// context.DeadlineExceeded after a timeout.
func (e *CarrierTransientError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrCarrierTransient}
	}
	return []error{ErrCarrierTransient, e.Cause}
}
