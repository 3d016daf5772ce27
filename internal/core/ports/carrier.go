package ports

import (
	"context"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
)

// CarrierAdapter talks to one carrier's API. Implementations return
// errs.CarrierTransientError for failures worth retrying; any other error is
// final for the call.
type CarrierAdapter interface {
	// Name is the normalized carrier name the adapter is registered under.
	Name() string

	RateLoad(ctx context.Context, req RateRequest) (ShippingCost, error)
	TenderLoad(ctx context.Context, req TenderRequest) (TenderResult, error)
	SchedulePickup(ctx context.Context, req PickupRequest) (PickupConfirmation, error)

	// CreateShipment books a package and returns its tracking number.
	CreateShipment(ctx context.Context, pkg Package) (string, error)

	// GetTrackingStatus returns nil when the carrier has nothing new.
	GetTrackingStatus(ctx context.Context, trackingNumber string) (*TrackingUpdate, error)
}

// CarrierRegistry resolves adapters by carrier name. Unknown carriers yield
// errs.NoAdapterForCarrierError.
type CarrierRegistry interface {
	Adapter(carrierName string) (CarrierAdapter, error)
	Names() []string
}

type RateRequest struct {
	LoadID        kernel.UUID
	Reference     string
	Origin        kernel.Location
	Destination   kernel.Location
	ShipmentCount int
	PickupDate    time.Time
}

// ShippingCost is a carrier quote. AmountCents is in minor units of Currency.
type ShippingCost struct {
	CarrierName   string
	AmountCents   int64
	Currency      string
	EstimatedDays int
}

type TenderRequest struct {
	LoadID      kernel.UUID
	Reference   string
	Origin      kernel.Location
	Destination kernel.Location
	PickupDate  time.Time
	ExpiresAt   time.Time
	Notes       string
}

// TenderResult is the carrier's synchronous answer to a tender.
type TenderResult struct {
	Accepted bool
	Reason   string
}

type PickupRequest struct {
	LoadID       kernel.UUID
	Reference    string
	Location     kernel.Location
	RequestedFor time.Time
	ContactName  string
	ContactPhone string
	Instructions string
}

type PickupConfirmation struct {
	ConfirmationNumber string
	ScheduledFor       time.Time
}

// Package describes what is handed to the carrier when a shipment is dispatched.
type Package struct {
	ShipmentID  kernel.UUID
	OrderID     string
	Origin      kernel.Location
	Destination kernel.Location
	WeightGrams int
	Description string
}

// TrackingUpdate is a carrier's tracking answer already classified into an
// outcome. NewEvents may repeat scans reported before.
type TrackingUpdate struct {
	LatestEvent shipment.TrackingEvent
	Outcome     shipment.TrackingOutcome
	NewEvents   []shipment.TrackingEvent
}

func (u TrackingUpdate) IsDelivered() bool {
	return u.Outcome == shipment.OutcomeDelivered
}

// Events returns NewEvents, falling back to LatestEvent when the carrier only
// reported the latest scan.
func (u TrackingUpdate) Events() []shipment.TrackingEvent {
	if len(u.NewEvents) > 0 {
		return u.NewEvents
	}
	if u.LatestEvent.OccurredAt.IsZero() {
		return nil
	}
	return []shipment.TrackingEvent{u.LatestEvent}
}
