package shipment

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// Status is the lifecycle state of a shipment.
//
//	CREATED ──> DISPATCHED ──> IN_TRANSIT ──┬──> DELIVERED
//	                 │                      └──> FAILED_DELIVERY
//	                 └──(terminal carrier update)──┘
type Status int

const (
	Unknown Status = iota
	Created
	Dispatched
	InTransit
	Delivered
	FailedDelivery
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		Created:        "CREATED",
		Dispatched:     "DISPATCHED",
		InTransit:      "IN_TRANSIT",
		Delivered:      "DELIVERED",
		FailedDelivery: "FAILED_DELIVERY",
	}
}

// ParseStatus converts the persisted or wire name back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a shipment status", s))
}

func (s Status) Validate() error {
	if s <= Unknown || s > FailedDelivery {
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

// IsTerminal reports whether the carrier has closed the shipment.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == FailedDelivery
}

// IsTracked reports whether the tracking sweep should poll the carrier.
func (s Status) IsTracked() bool {
	return s == Dispatched || s == InTransit
}
