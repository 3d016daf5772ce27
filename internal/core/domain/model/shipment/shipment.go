package shipment

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

var (
	// ErrShipmentIsNotConstructed is returned when a Shipment was not created through NewShipment or RestoreShipment.
	ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment constructor")

	ErrAssignedToAnotherLoad = errors.New("shipment is assigned to another load")
	ErrNotAssignedToLoad     = errors.New("shipment is not assigned to this load")
)

// UnassignedLoadID is the well-known load id of shipments that are not on any load.
var UnassignedLoadID = kernel.MustUUIDFromString("00000000-0000-0000-0000-000000000001")

// Shipment is the aggregate root for one customer order moved by a carrier.
// orderID is unique across shipments and acts as the idempotency key of
// shipment creation.
//
// Invariants:
//   - trackingNumber and dispatchedAt are set from DISPATCHED on
//   - deliveredAt is set only when DELIVERED
//   - tracking events are append-only, ordered by carrier timestamp, without exact duplicates
//   - a shipment is on at most one load at a time
type Shipment struct {
	id             kernel.UUID
	orderID        string
	carrierName    string
	trackingNumber string
	status         Status
	trackingEvents []TrackingEvent
	createdAt      time.Time
	dispatchedAt   time.Time
	deliveredAt    time.Time
	assignedLoadID kernel.UUID
	lastUpdatedAt  time.Time

	events        kernel.EventRecorder
	isConstructed bool
}

// NewShipment creates a CREATED shipment for an order and records shipment.created.
func NewShipment(now time.Time, orderID, carrierName string) (*Shipment, error) {
	s := &Shipment{
		id:             kernel.NewUUID(),
		status:         Created,
		assignedLoadID: UnassignedLoadID,
		isConstructed:  true,
	}

	if err := errors.Join(s.setOrderID(orderID), s.setCarrierName(carrierName)); err != nil {
		return nil, err
	}

	s.createdAt = kernel.NextTimestamp(time.Time{}, now)
	s.lastUpdatedAt = s.createdAt
	s.record(EventCreated, StatusPayload{EventHeader: s.header()})
	return s, nil
}

// Snapshot is the full persisted state of a shipment.
type Snapshot struct {
	ID             kernel.UUID
	OrderID        string
	CarrierName    string
	TrackingNumber string
	Status         Status
	TrackingEvents []TrackingEvent
	CreatedAt      time.Time
	DispatchedAt   time.Time
	DeliveredAt    time.Time
	AssignedLoadID kernel.UUID
	LastUpdatedAt  time.Time
}

// RestoreShipment rebuilds a shipment from storage and checks its invariants.
func RestoreShipment(snap Snapshot) (*Shipment, error) {
	s := &Shipment{
		id:             snap.ID,
		trackingNumber: strings.TrimSpace(snap.TrackingNumber),
		status:         snap.Status,
		trackingEvents: slices.Clone(snap.TrackingEvents),
		createdAt:      snap.CreatedAt.UTC(),
		dispatchedAt:   snap.DispatchedAt.UTC(),
		deliveredAt:    snap.DeliveredAt.UTC(),
		assignedLoadID: snap.AssignedLoadID,
		lastUpdatedAt:  snap.LastUpdatedAt.UTC(),
		isConstructed:  true,
	}

	errList := []error{
		snap.ID.Validate(),
		snap.Status.Validate(),
		snap.AssignedLoadID.Validate(),
		s.setOrderID(snap.OrderID),
		s.setCarrierName(snap.CarrierName),
	}
	if snap.Status != Created && snap.Status != Unknown && s.trackingNumber == "" {
		errList = append(errList, errs.NewValueIsRequiredError("trackingNumber"))
	}
	if snap.Status == Delivered && s.deliveredAt.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("deliveredAt"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	for i := range s.trackingEvents {
		s.trackingEvents[i].OccurredAt = scanTime(s.trackingEvents[i].OccurredAt)
	}
	sortEvents(s.trackingEvents)

	return s, nil
}

// Validate ensures the shipment was created through NewShipment or RestoreShipment.
func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

func (s *Shipment) ID() kernel.UUID             { return s.id }
func (s *Shipment) OrderID() string             { return s.orderID }
func (s *Shipment) CarrierName() string         { return s.carrierName }
func (s *Shipment) TrackingNumber() string      { return s.trackingNumber }
func (s *Shipment) Status() Status              { return s.status }
func (s *Shipment) CreatedAt() time.Time        { return s.createdAt }
func (s *Shipment) DispatchedAt() time.Time     { return s.dispatchedAt }
func (s *Shipment) DeliveredAt() time.Time      { return s.deliveredAt }
func (s *Shipment) AssignedLoadID() kernel.UUID { return s.assignedLoadID }
func (s *Shipment) LastUpdatedAt() time.Time    { return s.lastUpdatedAt }

// TrackingEvents returns a copy of the tracking history.
func (s *Shipment) TrackingEvents() []TrackingEvent {
	return slices.Clone(s.trackingEvents)
}

// IsAssignedToLoad reports whether the shipment is on any load.
func (s *Shipment) IsAssignedToLoad() bool {
	return !s.assignedLoadID.IsEqual(UnassignedLoadID)
}

// ConcurrencyToken returns the token a caller must present to modify this version.
func (s *Shipment) ConcurrencyToken() kernel.ConcurrencyToken {
	return kernel.NewConcurrencyToken(s.lastUpdatedAt)
}

func (s *Shipment) DomainEvents() []kernel.DomainEvent { return s.events.Events() }
func (s *Shipment) ClearDomainEvents()                 { s.events.Clear() }

// AssignToLoad puts the shipment on a load. Assigning it to the load it is
// already on is a no-op; assigning it while on another load fails, which
// keeps two concurrent loads from claiming the same shipment.
func (s *Shipment) AssignToLoad(now time.Time, loadID kernel.UUID) error {
	if err := loadID.Validate(); err != nil {
		return err
	}
	if s.status.IsTerminal() {
		return errs.NewInvalidStateTransitionError(s.status.String(), "assign to load")
	}
	if s.assignedLoadID.IsEqual(loadID) {
		return nil
	}
	if s.IsAssignedToLoad() {
		return errs.NewValueIsInvalidErrorWithCause("loadID",
			fmt.Errorf("%w: %s", ErrAssignedToAnotherLoad, s.assignedLoadID))
	}

	s.touch(now)
	s.assignedLoadID = loadID
	s.record(EventAssignedToLoad, LoadAssignmentPayload{EventHeader: s.header(), LoadID: loadID.String()})
	return nil
}

// UnassignFromLoad takes the shipment off the given load.
func (s *Shipment) UnassignFromLoad(now time.Time, loadID kernel.UUID) error {
	if !s.IsAssignedToLoad() || !s.assignedLoadID.IsEqual(loadID) {
		return errs.NewValueIsInvalidErrorWithCause("loadID", fmt.Errorf("%w: %s", ErrNotAssignedToLoad, loadID))
	}

	s.touch(now)
	s.assignedLoadID = UnassignedLoadID
	s.record(EventUnassignedFromLoad, LoadAssignmentPayload{EventHeader: s.header(), LoadID: loadID.String()})
	return nil
}

// Dispatch records the carrier's tracking number for a CREATED shipment.
func (s *Shipment) Dispatch(now time.Time, trackingNumber string) error {
	if s.status != Created {
		return errs.NewInvalidStateTransitionError(s.status.String(), "dispatch")
	}
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("trackingNumber")
	}

	s.touch(now)
	s.status = Dispatched
	s.trackingNumber = trackingNumber
	s.dispatchedAt = s.lastUpdatedAt
	s.record(EventDispatched, StatusPayload{EventHeader: s.header()})
	return nil
}

// ApplyTrackingUpdate merges carrier scans into the history and follows the
// adapter's outcome. Scans already known are ignored. The first applied scan
// moves a DISPATCHED shipment to IN_TRANSIT; a terminal outcome closes it.
// It reports whether anything changed.
func (s *Shipment) ApplyTrackingUpdate(now time.Time, events []TrackingEvent, outcome TrackingOutcome) (bool, error) {
	if !s.status.IsTracked() {
		return false, errs.NewInvalidStateTransitionError(s.status.String(), "apply tracking update")
	}
	if outcome == OutcomeUnknown {
		return false, errs.NewValueIsRequiredError("outcome")
	}

	fresh := make([]TrackingEvent, 0, len(events))
	for _, e := range events {
		if e.OccurredAt.IsZero() {
			return false, errs.NewValueIsRequiredError("occurredAt")
		}
		e.OccurredAt = scanTime(e.OccurredAt)
		if slices.Contains(s.trackingEvents, e) || slices.Contains(fresh, e) {
			continue
		}
		fresh = append(fresh, e)
	}

	target := s.status
	switch {
	case outcome == OutcomeDelivered:
		target = Delivered
	case outcome == OutcomeFailedDelivery:
		target = FailedDelivery
	case s.status == Dispatched && len(fresh) > 0:
		target = InTransit
	}

	if len(fresh) == 0 && target == s.status {
		return false, nil
	}

	s.touch(now)
	if len(fresh) > 0 {
		sortEvents(fresh)
		s.trackingEvents = append(s.trackingEvents, fresh...)
		sortEvents(s.trackingEvents)
		s.record(EventTrackingUpdated, TrackingUpdatedPayload{EventHeader: s.header(), NewEvents: toPayload(fresh)})
	}

	if target != s.status {
		s.status = target
		var occurredAt *time.Time
		if n := len(s.trackingEvents); n > 0 {
			last := s.trackingEvents[n-1].OccurredAt
			occurredAt = &last
		}
		switch target {
		case InTransit:
			s.record(EventInTransit, StatusPayload{EventHeader: s.header(), OccurredAt: occurredAt})
		case Delivered:
			s.deliveredAt = s.lastUpdatedAt
			if occurredAt != nil {
				s.deliveredAt = *occurredAt
			}
			s.record(EventDelivered, StatusPayload{EventHeader: s.header(), OccurredAt: occurredAt})
		case FailedDelivery:
			s.record(EventDeliveryFailed, StatusPayload{EventHeader: s.header(), OccurredAt: occurredAt})
		}
	}

	return true, nil
}

func (s *Shipment) touch(now time.Time) {
	s.lastUpdatedAt = kernel.NextTimestamp(s.lastUpdatedAt, now)
}

func (s *Shipment) record(eventType string, payload any) {
	s.events.Record(AggregateType, s.id, eventType, s.lastUpdatedAt, payload)
}

func (s *Shipment) header() EventHeader {
	return EventHeader{
		ShipmentID:     s.id.String(),
		OrderID:        s.orderID,
		Status:         s.status.String(),
		CarrierName:    s.carrierName,
		TrackingNumber: s.trackingNumber,
		UpdatedAt:      s.lastUpdatedAt,
	}
}

func (s *Shipment) setOrderID(orderID string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return errs.NewValueIsRequiredError("orderID")
	}
	s.orderID = orderID
	return nil
}

func (s *Shipment) setCarrierName(name string) error {
	name = kernel.NormalizeCarrierName(name)
	if name == "" {
		return errs.NewValueIsRequiredError("carrierName")
	}
	s.carrierName = name
	return nil
}

func sortEvents(events []TrackingEvent) {
	slices.SortStableFunc(events, func(a, b TrackingEvent) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})
}
