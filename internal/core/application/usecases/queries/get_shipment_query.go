package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrGetShipmentQueryIsNotConstructed = errors.New(
	"GetShipmentQuery must be created via NewGetShipmentQuery constructor",
)

// GetShipmentQuery retrieves one shipment with its tracking history.
type GetShipmentQuery struct {
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetShipmentQuery(shipmentID kernel.UUID) (GetShipmentQuery, error) {
	if err := shipmentID.Validate(); err != nil {
		return GetShipmentQuery{}, err
	}
	return GetShipmentQuery{shipmentID: shipmentID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetShipmentQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentQueryIsNotConstructed)
}

func (q GetShipmentQuery) ShipmentID() kernel.UUID {
	return q.shipmentID
}

// TrackingEventView is one carrier scan, oldest first in the response.
type TrackingEventView struct {
	Status           string    `json:"status,omitempty"`
	Description      string    `json:"description,omitempty"`
	Location         string    `json:"location,omitempty"`
	OccurredAt       time.Time `json:"occurredAt"`
	CarrierEventCode string    `json:"carrierEventCode,omitempty"`
	Detail           string    `json:"detail,omitempty"`
}

type GetShipmentQueryResponse struct {
	ID             kernel.UUID
	OrderID        string
	CarrierName    string
	TrackingNumber string
	Status         string
	// AssignedLoadID is nil for a shipment on no load.
	AssignedLoadID *kernel.UUID
	TrackingEvents []TrackingEventView
	CreatedAt      time.Time
	DispatchedAt   *time.Time
	DeliveredAt    *time.Time
	LastUpdatedAt  time.Time
	Token          kernel.ConcurrencyToken
}
