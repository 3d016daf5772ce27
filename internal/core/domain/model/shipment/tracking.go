package shipment

import (
	"fmt"
	"strings"
	"time"

	"freight/internal/pkg/errs"
)

// TrackingEvent is one scan reported by a carrier. Two events with identical
// fields are the same scan.
type TrackingEvent struct {
	Status           string
	Description      string
	Location         string
	OccurredAt       time.Time
	CarrierEventCode string
	Detail           string
}

// NewTrackingEvent trims free text and requires a timestamp.
func NewTrackingEvent(status, description, location string, occurredAt time.Time, code, detail string) (TrackingEvent, error) {
	if occurredAt.IsZero() {
		return TrackingEvent{}, errs.NewValueIsRequiredError("occurredAt")
	}
	return TrackingEvent{
		Status:           strings.TrimSpace(status),
		Description:      strings.TrimSpace(description),
		Location:         strings.TrimSpace(location),
		OccurredAt:       scanTime(occurredAt),
		CarrierEventCode: strings.TrimSpace(code),
		Detail:           strings.TrimSpace(detail),
	}, nil
}

// TrackingOutcome is the carrier adapter's classification of an update. The
// shipment never interprets carrier free text itself.
type TrackingOutcome int

const (
	OutcomeUnknown TrackingOutcome = iota
	OutcomeInTransit
	OutcomeDelivered
	OutcomeFailedDelivery
)

func (o TrackingOutcome) String() string {
	switch o {
	case OutcomeInTransit:
		return "IN_TRANSIT"
	case OutcomeDelivered:
		return "DELIVERED"
	case OutcomeFailedDelivery:
		return "FAILED_DELIVERY"
	default:
		return "UNKNOWN"
	}
}

// ParseTrackingOutcome accepts the String form.
func ParseTrackingOutcome(s string) (TrackingOutcome, error) {
	for _, o := range []TrackingOutcome{OutcomeInTransit, OutcomeDelivered, OutcomeFailedDelivery} {
		if o.String() == s {
			return o, nil
		}
	}
	return OutcomeUnknown, errs.NewValueIsInvalidErrorWithCause("outcome", fmt.Errorf("%q is not a tracking outcome", s))
}

// IsTerminal reports whether the outcome closes the shipment.
func (o TrackingOutcome) IsTerminal() bool {
	return o == OutcomeDelivered || o == OutcomeFailedDelivery
}

// scanTime keeps the precision the store can hold so that a scan read back
// from storage still equals the one the carrier reports again.
func scanTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
