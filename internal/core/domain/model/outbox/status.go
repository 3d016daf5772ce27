package outbox

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// Status is the delivery state of an outbox row.
//
//	PENDING ──> PROCESSED
//	   │ ↺ retry
//	   └──────> FAILED (dead letter)
type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusProcessed
	StatusFailed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "UNKNOWN",
		StatusPending:   "PENDING",
		StatusProcessed: "PROCESSED",
		StatusFailed:    "FAILED",
	}
}

func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not an outbox status", s))
}

func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusFailed {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}
