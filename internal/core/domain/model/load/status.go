package load

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// Status is the lifecycle state of a load.
//
//	PLANNED ──> TENDERED ──> TENDER_ACCEPTED ──> BOOKED ──> IN_TRANSIT ──> DELIVERED
//	   ^            │
//	   └────────────┘ (tender cancelled or declined)
//
// CANCELLED is reachable from every state except DELIVERED and CANCELLED.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Planned
	Tendered
	TenderAccepted
	Booked
	InTransit
	Delivered
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		Planned:        "PLANNED",
		Tendered:       "TENDERED",
		TenderAccepted: "TENDER_ACCEPTED",
		Booked:         "BOOKED",
		InTransit:      "IN_TRANSIT",
		Delivered:      "DELIVERED",
		Cancelled:      "CANCELLED",
	}
}

// ParseStatus converts the persisted or wire name back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a load status", s))
}

// Validate rejects Unknown and out of range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
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

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// RequiresCarrier reports whether a load in this status must name a carrier.
func (s Status) RequiresCarrier() bool {
	return s != Planned && s != Cancelled
}

// IsDeletable reports whether the load can still be physically removed.
func (s Status) IsDeletable() bool {
	return s == Planned || s == Tendered || s == TenderAccepted
}

// Tender transitions PLANNED to TENDERED.
func (s Status) Tender() (Status, error) {
	return s.transition(Planned, Tendered, "tender")
}

// WithdrawTender transitions TENDERED back to PLANNED, after a cancellation or a decline.
func (s Status) WithdrawTender() (Status, error) {
	return s.transition(Tendered, Planned, "withdraw tender")
}

// AcceptTender transitions TENDERED to TENDER_ACCEPTED.
func (s Status) AcceptTender() (Status, error) {
	return s.transition(Tendered, TenderAccepted, "accept tender")
}

// Book transitions TENDER_ACCEPTED to BOOKED.
func (s Status) Book() (Status, error) {
	return s.transition(TenderAccepted, Booked, "book")
}

// Ship transitions BOOKED to IN_TRANSIT.
func (s Status) Ship() (Status, error) {
	return s.transition(Booked, InTransit, "ship")
}

// Deliver transitions IN_TRANSIT to DELIVERED.
func (s Status) Deliver() (Status, error) {
	return s.transition(InTransit, Delivered, "confirm delivery")
}

// Cancel transitions any non-terminal status to CANCELLED.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if s.IsTerminal() {
		return Unknown, errs.NewInvalidStateTransitionError(s.String(), "cancel")
	}
	return Cancelled, nil
}

func (s Status) transition(from, to Status, operation string) (Status, error) {
	if s != from {
		return Unknown, errs.NewInvalidStateTransitionError(s.String(), operation)
	}
	return to, nil
}
