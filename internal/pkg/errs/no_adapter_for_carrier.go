package errs

import (
	"errors"
	"fmt"
)

// ErrNoAdapterForCarrier is the sentinel wrapped by NoAdapterForCarrierError.
var ErrNoAdapterForCarrier = errors.New("no adapter for carrier")

// NoAdapterForCarrierError reports a carrier name the registry does not know.
type NoAdapterForCarrierError struct {
	CarrierName string
}

// NewNoAdapterForCarrierError creates a NoAdapterForCarrierError.
func NewNoAdapterForCarrierError(carrierName string) *NoAdapterForCarrierError {
	return &NoAdapterForCarrierError{CarrierName: carrierName}
}

func (e *NoAdapterForCarrierError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNoAdapterForCarrier, sanitize(e.CarrierName))
}

func (e *NoAdapterForCarrierError) Unwrap() error {
	return ErrNoAdapterForCarrier
}
