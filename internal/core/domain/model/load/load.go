package load

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
	// ErrLoadIsNotConstructed is returned when a Load was not created through NewLoad or RestoreLoad.
	ErrLoadIsNotConstructed = errors.New("Load must be created via NewLoad constructor")

	ErrShipmentAlreadyOnLoad = errors.New("shipment is already on the load")
	ErrShipmentNotOnLoad     = errors.New("shipment is not on the load")
	ErrLastShipment          = errors.New("a load must keep at least one shipment")
	ErrCarrierRequired       = errors.New("a carrier must be assigned")
	ErrTenderExpiry          = errors.New("tender expiry must be in the future")
	ErrTenderExpired         = errors.New("tender expired before it was accepted")
)

// Load is the aggregate root grouping shipments that travel together with one
// carrier. It owns the embedded Tender and Pickup and is mutated only through
// its named operations, each of which
//   - checks the operation against the current status and fails with
//     errs.InvalidStateTransitionError otherwise,
//   - bumps updatedAt, the aggregate's concurrency token,
//   - records exactly one domain event.
//
// Invariants:
//   - shipmentIDs is non-empty and unique unless the load is CANCELLED
//   - carrierName is set whenever the status is past PLANNED, except CANCELLED
//   - createdAt never changes and updatedAt strictly increases
type Load struct {
	id                    kernel.UUID
	reference             string
	status                Status
	carrierName           string
	shipmentIDs           []kernel.UUID
	origin                kernel.Location
	destination           kernel.Location
	requestedPickupDate   time.Time
	requestedDeliveryDate time.Time
	pickup                *Pickup
	tender                Tender
	notes                 string
	createdAt             time.Time
	updatedAt             time.Time
	deleted               bool

	events        kernel.EventRecorder
	isConstructed bool
}

// Params holds the caller supplied fields of a new load.
type Params struct {
	Reference             string
	Origin                kernel.Location
	Destination           kernel.Location
	ShipmentIDs           []kernel.UUID
	RequestedPickupDate   time.Time
	RequestedDeliveryDate time.Time
	Notes                 string
}

// NewLoad creates a PLANNED, untendered load and records load.created.
//
// Example:
//
//	l, err := load.NewLoad(now, load.Params{
//	    Reference:   "L-2026-0001",
//	    Origin:      origin,
//	    Destination: destination,
//	    ShipmentIDs: []kernel.UUID{shipmentID},
//	})
func NewLoad(now time.Time, p Params) (*Load, error) {
	l := &Load{
		id:                    kernel.NewUUID(),
		status:                Planned,
		notes:                 strings.TrimSpace(p.Notes),
		requestedPickupDate:   p.RequestedPickupDate.UTC(),
		requestedDeliveryDate: p.RequestedDeliveryDate.UTC(),
		isConstructed:         true,
	}

	if err := errors.Join(
		l.setReference(p.Reference),
		l.setLocations(p.Origin, p.Destination),
		l.setShipmentIDs(p.ShipmentIDs),
		l.validateRequestedDates(),
	); err != nil {
		return nil, err
	}

	l.createdAt = kernel.NextTimestamp(time.Time{}, now)
	l.updatedAt = l.createdAt
	l.events.Record(AggregateType, l.id, EventCreated, l.updatedAt, CreatedPayload{
		EventHeader:           l.header(),
		Origin:                l.origin.Snapshot(),
		Destination:           l.destination.Snapshot(),
		ShipmentIDs:           idStrings(l.shipmentIDs),
		RequestedPickupDate:   optionalTime(l.requestedPickupDate),
		RequestedDeliveryDate: optionalTime(l.requestedDeliveryDate),
	})

	return l, nil
}

// Snapshot is the full persisted state of a load.
type Snapshot struct {
	ID                    kernel.UUID
	Reference             string
	Status                Status
	CarrierName           string
	ShipmentIDs           []kernel.UUID
	Origin                kernel.Location
	Destination           kernel.Location
	RequestedPickupDate   time.Time
	RequestedDeliveryDate time.Time
	Pickup                *Pickup
	Tender                Tender
	Notes                 string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// RestoreLoad rebuilds a load from storage and checks its invariants. No event
// is recorded.
func RestoreLoad(s Snapshot) (*Load, error) {
	l := &Load{
		id:                    s.ID,
		status:                s.Status,
		carrierName:           kernel.NormalizeCarrierName(s.CarrierName),
		requestedPickupDate:   s.RequestedPickupDate.UTC(),
		requestedDeliveryDate: s.RequestedDeliveryDate.UTC(),
		tender:                s.Tender,
		notes:                 s.Notes,
		createdAt:             s.CreatedAt.UTC(),
		updatedAt:             s.UpdatedAt.UTC(),
		isConstructed:         true,
	}
	if s.Pickup != nil {
		p := *s.Pickup
		l.pickup = &p
	}

	errList := []error{
		s.ID.Validate(),
		s.Status.Validate(),
		l.setReference(s.Reference),
		l.setLocations(s.Origin, s.Destination),
	}
	if s.Status == Cancelled && len(s.ShipmentIDs) == 0 {
		l.shipmentIDs = nil
	} else {
		errList = append(errList, l.setShipmentIDs(s.ShipmentIDs))
	}
	if s.Status.RequiresCarrier() && l.carrierName == "" {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("carrierName",
			fmt.Errorf("%w while %s", ErrCarrierRequired, s.Status)))
	}
	if l.pickup != nil {
		errList = append(errList, l.pickup.Validate())
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return l, nil
}

// Validate ensures the load was created through NewLoad or RestoreLoad.
func (l *Load) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLoadIsNotConstructed
	}
	return nil
}

func (l *Load) ID() kernel.UUID                  { return l.id }
func (l *Load) Reference() string                { return l.reference }
func (l *Load) Status() Status                   { return l.status }
func (l *Load) CarrierName() string              { return l.carrierName }
func (l *Load) Origin() kernel.Location          { return l.origin }
func (l *Load) Destination() kernel.Location     { return l.destination }
func (l *Load) RequestedPickupDate() time.Time   { return l.requestedPickupDate }
func (l *Load) RequestedDeliveryDate() time.Time { return l.requestedDeliveryDate }
func (l *Load) TenderDetails() Tender            { return l.tender }
func (l *Load) Notes() string                    { return l.notes }
func (l *Load) CreatedAt() time.Time             { return l.createdAt }
func (l *Load) UpdatedAt() time.Time             { return l.updatedAt }

// IsDeleted reports whether MarkDeleted succeeded; the repository removes the row.
func (l *Load) IsDeleted() bool { return l.deleted }

// ConcurrencyToken returns the token a caller must present to modify this version.
func (l *Load) ConcurrencyToken() kernel.ConcurrencyToken {
	return kernel.NewConcurrencyToken(l.updatedAt)
}

// ShipmentIDs returns a copy of the ordered shipment set.
func (l *Load) ShipmentIDs() []kernel.UUID {
	return slices.Clone(l.shipmentIDs)
}

// HasShipment reports whether the shipment is on the load.
func (l *Load) HasShipment(id kernel.UUID) bool {
	return slices.ContainsFunc(l.shipmentIDs, id.IsEqual)
}

// Pickup returns the scheduled pickup, if any.
func (l *Load) Pickup() (Pickup, bool) {
	if l.pickup == nil {
		return Pickup{}, false
	}
	return *l.pickup, true
}

// DomainEvents returns the events recorded since the last clear.
func (l *Load) DomainEvents() []kernel.DomainEvent { return l.events.Events() }

// ClearDomainEvents drops recorded events once they are in the outbox.
func (l *Load) ClearDomainEvents() { l.events.Clear() }

// AssignCarrier sets or replaces the carrier of a PLANNED load. The status
// stays PLANNED; a DECLINED tender is reset so the load can be tendered again.
// Assigning the current carrier again is allowed and still recorded.
func (l *Load) AssignCarrier(now time.Time, carrierName string) error {
	if err := l.requireStatus(Planned, "assign carrier"); err != nil {
		return err
	}
	if err := l.requireTenderNotPending("assign carrier"); err != nil {
		return err
	}
	name := kernel.NormalizeCarrierName(carrierName)
	if name == "" {
		return errs.NewValueIsRequiredError("carrierName")
	}

	previous := l.carrierName
	l.carrierName = name
	if l.tender.Status() == TenderStatusDeclined {
		l.tender = Tender{}
	}

	l.touch(now)
	l.record(EventCarrierAssigned, CarrierAssignedPayload{EventHeader: l.header(), PreviousCarrierName: previous})
	return nil
}

// UnassignCarrier clears the carrier of a PLANNED load and resets its tender.
func (l *Load) UnassignCarrier(now time.Time) error {
	if err := l.requireStatus(Planned, "unassign carrier"); err != nil {
		return err
	}
	if err := l.requireTenderNotPending("unassign carrier"); err != nil {
		return err
	}
	if l.carrierName == "" {
		return errs.NewValueIsInvalidErrorWithCause("carrierName", ErrCarrierRequired)
	}

	previous := l.carrierName
	l.carrierName = ""
	l.tender = Tender{}

	l.touch(now)
	l.record(EventCarrierUnassigned, CarrierUnassignedPayload{EventHeader: l.header(), PreviousCarrierName: previous})
	return nil
}

// Tender offers the load to its assigned carrier until expiresAt. Allowed from
// a NOT_TENDERED or DECLINED tender; the load becomes TENDERED.
func (l *Load) Tender(now, expiresAt time.Time, notes string) error {
	switch l.tender.Status() {
	case TenderStatusNotTendered, TenderStatusDeclined:
	default:
		return errs.NewInvalidStateTransitionError(l.statusWithTender(), "tender")
	}
	newStatus, err := l.status.Tender()
	if err != nil {
		return err
	}
	if l.carrierName == "" {
		return errs.NewValueIsInvalidErrorWithCause("carrierName", ErrCarrierRequired)
	}
	if !expiresAt.After(now) {
		return errs.NewValueIsInvalidErrorWithCause("expiresAt",
			fmt.Errorf("%w: %s", ErrTenderExpiry, expiresAt.UTC().Format(time.RFC3339)))
	}

	l.touch(now)
	l.status = newStatus
	l.tender = Tender{offer: &TenderOffer{
		TenderedAt: l.updatedAt,
		ExpiresAt:  expiresAt.UTC(),
		Notes:      strings.TrimSpace(notes),
	}}
	l.record(EventTendered, TenderedPayload{EventHeader: l.header(), ExpiresAt: expiresAt.UTC(), Notes: l.tender.offer.Notes})
	return nil
}

// CancelTender withdraws a PENDING tender; the load returns to PLANNED with
// its carrier kept.
func (l *Load) CancelTender(now time.Time) error {
	if l.tender.Status() != TenderStatusPending {
		return errs.NewInvalidStateTransitionError(l.statusWithTender(), "cancel tender")
	}
	newStatus, err := l.status.WithdrawTender()
	if err != nil {
		return err
	}

	l.touch(now)
	l.status = newStatus
	l.tender = Tender{}
	l.record(EventTenderCancelled, StatusPayload{EventHeader: l.header()})
	return nil
}

// RecordTenderDecision stores the carrier's answer to a PENDING tender.
// ACCEPTED moves the load to TENDER_ACCEPTED, DECLINED returns it to PLANNED
// keeping the carrier so it can be re-tendered or reassigned.
func (l *Load) RecordTenderDecision(now time.Time, decision Decision, respondedBy, reason string) error {
	if l.tender.Status() != TenderStatusPending {
		return errs.NewInvalidStateTransitionError(l.statusWithTender(), "record tender decision")
	}

	var (
		newStatus Status
		eventType string
		err       error
	)
	switch decision {
	case DecisionAccepted:
		if !now.Before(l.tender.offer.ExpiresAt) {
			return errs.NewValueIsInvalidErrorWithCause("decision", ErrTenderExpired)
		}
		newStatus, err = l.status.AcceptTender()
		eventType = EventTenderAccepted
	case DecisionDeclined:
		newStatus, err = l.status.WithdrawTender()
		eventType = EventTenderDeclined
	default:
		return errs.NewValueIsInvalidErrorWithCause("decision", fmt.Errorf("%d is not a valid decision", decision))
	}
	if err != nil {
		return err
	}

	l.touch(now)
	l.status = newStatus
	l.tender.response = &TenderResponse{
		Decision:    decision,
		RespondedAt: l.updatedAt,
		RespondedBy: strings.TrimSpace(respondedBy),
		Reason:      strings.TrimSpace(reason),
	}
	l.record(eventType, TenderDecisionPayload{
		EventHeader: l.header(),
		Decision:    decision.String(),
		RespondedAt: l.updatedAt,
		RespondedBy: l.tender.response.RespondedBy,
		Reason:      l.tender.response.Reason,
	})
	return nil
}

// Book confirms an accepted tender.
func (l *Load) Book(now time.Time) error {
	return l.advance(now, l.status.Book, EventBooked)
}

// SchedulePickup creates or replaces the pickup appointment of a BOOKED load.
func (l *Load) SchedulePickup(now time.Time, pickup Pickup) error {
	if err := l.requireStatus(Booked, "schedule pickup"); err != nil {
		return err
	}
	if err := pickup.Validate(); err != nil {
		return err
	}

	l.touch(now)
	l.pickup = &pickup
	l.record(EventPickupScheduled, PickupPayload{
		EventHeader:        l.header(),
		ConfirmationNumber: pickup.ConfirmationNumber(),
		ScheduledFor:       pickup.ScheduledFor(),
		Location:           pickup.Location().Snapshot(),
	})
	return nil
}

// CancelPickup removes the pickup appointment. Only a BOOKED load has a
// pickup that has not happened yet.
func (l *Load) CancelPickup(now time.Time) error {
	if l.pickup == nil || l.status != Booked {
		return errs.NewInvalidStateTransitionError(l.statusWithPickup(), "cancel pickup")
	}

	confirmation := l.pickup.ConfirmationNumber()
	scheduledFor := l.pickup.ScheduledFor()
	location := l.pickup.Location().Snapshot()

	l.touch(now)
	l.pickup = nil
	l.record(EventPickupCancelled, PickupPayload{
		EventHeader:        l.header(),
		ConfirmationNumber: confirmation,
		ScheduledFor:       scheduledFor,
		Location:           location,
	})
	return nil
}

// AddShipments appends shipments to a PLANNED load. Any id already on the
// load, or repeated in ids, rejects the whole call and leaves the set unchanged.
func (l *Load) AddShipments(now time.Time, ids []kernel.UUID) error {
	if err := l.requireStatus(Planned, "add shipments"); err != nil {
		return err
	}
	if len(ids) == 0 {
		return errs.NewValueIsRequiredError("shipmentIDs")
	}
	seen := make(map[kernel.UUID]struct{}, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return err
		}
		if _, dup := seen[id]; dup || l.HasShipment(id) {
			return errs.NewValueIsInvalidErrorWithCause("shipmentIDs",
				fmt.Errorf("%w: %s", ErrShipmentAlreadyOnLoad, id))
		}
		seen[id] = struct{}{}
	}

	l.touch(now)
	l.shipmentIDs = append(l.shipmentIDs, ids...)
	l.record(EventShipmentsAdded, ShipmentsPayload{EventHeader: l.header(), ShipmentIDs: idStrings(ids)})
	return nil
}

// RemoveShipment drops one shipment from a PLANNED load. The last shipment
// cannot be removed; cancel or delete the load instead.
func (l *Load) RemoveShipment(now time.Time, id kernel.UUID) error {
	if err := l.requireStatus(Planned, "remove shipment"); err != nil {
		return err
	}
	idx := slices.IndexFunc(l.shipmentIDs, id.IsEqual)
	if idx < 0 {
		return errs.NewValueIsInvalidErrorWithCause("shipmentID", fmt.Errorf("%w: %s", ErrShipmentNotOnLoad, id))
	}
	if len(l.shipmentIDs) == 1 {
		return errs.NewValueIsInvalidErrorWithCause("shipmentID", ErrLastShipment)
	}

	l.touch(now)
	l.shipmentIDs = slices.Delete(l.shipmentIDs, idx, idx+1)
	l.record(EventShipmentRemoved, ShipmentsPayload{EventHeader: l.header(), ShipmentIDs: []string{id.String()}})
	return nil
}

// Ship confirms that the carrier collected a BOOKED load.
func (l *Load) Ship(now time.Time) error {
	return l.advance(now, l.status.Ship, EventInTransit)
}

// ConfirmDelivery closes an IN_TRANSIT load.
func (l *Load) ConfirmDelivery(now time.Time) error {
	return l.advance(now, l.status.Deliver, EventDelivered)
}

// Cancel moves any non-terminal load to CANCELLED. A pending tender is
// withdrawn; the carrier and pickup are kept for the record.
func (l *Load) Cancel(now time.Time, reason string) error {
	previous := l.status
	newStatus, err := l.status.Cancel()
	if err != nil {
		return err
	}

	l.touch(now)
	l.status = newStatus
	if l.tender.Status() == TenderStatusPending {
		l.tender = Tender{}
	}
	l.record(EventCancelled, CancelledPayload{
		EventHeader:    l.header(),
		PreviousStatus: previous.String(),
		Reason:         strings.TrimSpace(reason),
	})
	return nil
}

// MarkDeleted records load.deleted for a load that has not been booked yet.
// The repository removes the row in the same transaction.
func (l *Load) MarkDeleted(now time.Time) error {
	if !l.status.IsDeletable() || l.deleted {
		return errs.NewInvalidStateTransitionError(l.status.String(), "delete")
	}

	l.touch(now)
	l.deleted = true
	l.record(EventDeleted, StatusPayload{EventHeader: l.header()})
	return nil
}

func (l *Load) advance(now time.Time, transition func() (Status, error), eventType string) error {
	newStatus, err := transition()
	if err != nil {
		return err
	}
	if newStatus.RequiresCarrier() && l.carrierName == "" {
		return errs.NewValueIsInvalidErrorWithCause("carrierName", ErrCarrierRequired)
	}

	l.touch(now)
	l.status = newStatus
	l.record(eventType, StatusPayload{EventHeader: l.header()})
	return nil
}

func (l *Load) requireStatus(expected Status, operation string) error {
	if l.status != expected {
		return errs.NewInvalidStateTransitionError(l.status.String(), operation)
	}
	return nil
}

func (l *Load) requireTenderNotPending(operation string) error {
	if l.tender.Status() == TenderStatusPending {
		return errs.NewInvalidStateTransitionError(l.statusWithTender(), operation)
	}
	return nil
}

func (l *Load) statusWithTender() string {
	return fmt.Sprintf("%s (tender %s)", l.status, l.tender.Status())
}

func (l *Load) statusWithPickup() string {
	if l.pickup == nil {
		return fmt.Sprintf("%s (no pickup)", l.status)
	}
	return l.status.String()
}

func (l *Load) touch(now time.Time) {
	l.updatedAt = kernel.NextTimestamp(l.updatedAt, now)
}

func (l *Load) record(eventType string, payload any) {
	l.events.Record(AggregateType, l.id, eventType, l.updatedAt, payload)
}

func (l *Load) header() EventHeader {
	return EventHeader{
		LoadID:      l.id.String(),
		Reference:   l.reference,
		Status:      l.status.String(),
		CarrierName: l.carrierName,
		UpdatedAt:   l.updatedAt,
	}
}

func (l *Load) setReference(reference string) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return errs.NewValueIsRequiredError("reference")
	}
	l.reference = reference
	return nil
}

func (l *Load) setLocations(origin, destination kernel.Location) error {
	if err := errors.Join(origin.Validate(), destination.Validate()); err != nil {
		return err
	}
	l.origin = origin
	l.destination = destination
	return nil
}

func (l *Load) setShipmentIDs(ids []kernel.UUID) error {
	if len(ids) == 0 {
		return errs.NewValueIsRequiredError("shipmentIDs")
	}
	seen := make(map[kernel.UUID]struct{}, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return err
		}
		if _, dup := seen[id]; dup {
			return errs.NewValueIsInvalidErrorWithCause("shipmentIDs", fmt.Errorf("%w: %s", ErrShipmentAlreadyOnLoad, id))
		}
		seen[id] = struct{}{}
	}
	l.shipmentIDs = slices.Clone(ids)
	return nil
}

func (l *Load) validateRequestedDates() error {
	if l.requestedPickupDate.IsZero() || l.requestedDeliveryDate.IsZero() {
		return nil
	}
	if l.requestedDeliveryDate.Before(l.requestedPickupDate) {
		return errs.NewValueIsInvalidErrorWithCause("requestedDeliveryDate",
			errors.New("delivery date is before pickup date"))
	}
	return nil
}
