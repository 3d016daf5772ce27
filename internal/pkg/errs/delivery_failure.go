package errs

import (
	"errors"
	"fmt"
)

// ErrDeliveryFailure is the sentinel wrapped by DeliveryFailureError.
var ErrDeliveryFailure = errors.New("delivery failure")

// DeliveryFailureError reports that an outbox event could not be handed to
// the message sink.
type DeliveryFailureError struct {
	EventID     any
	Destination string
	Cause       error
}

// NewDeliveryFailureError creates a DeliveryFailureError.
func NewDeliveryFailureError(eventID any, destination string, cause error) *DeliveryFailureError {
	return &DeliveryFailureError{EventID: eventID, Destination: destination, Cause: cause}
}

func (e *DeliveryFailureError) Error() string {
	return withCause(fmt.Sprintf("%s: event %s to %s", ErrDeliveryFailure, sanitize(e.EventID), e.Destination), e.Cause)
}

func (e *DeliveryFailureError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrDeliveryFailure}
	}
	return []error{ErrDeliveryFailure, e.Cause}
}
