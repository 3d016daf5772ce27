package load

import (
	"time"

	"freight/internal/core/domain/model/kernel"
)

// AggregateType names loads in outbox rows and event envelopes.
const AggregateType = "load"

// Event types recorded by Load.
const (
	EventCreated           = "load.created"
	EventCarrierAssigned   = "load.carrier_assigned"
	EventCarrierUnassigned = "load.carrier_unassigned"
	EventTendered          = "load.tendered"
	EventTenderCancelled   = "load.tender_cancelled"
	EventTenderAccepted    = "load.tender_accepted"
	EventTenderDeclined    = "load.tender_declined"
	EventBooked            = "load.booked"
	EventPickupScheduled   = "load.pickup_scheduled"
	EventPickupCancelled   = "load.pickup_cancelled"
	EventShipmentsAdded    = "load.shipments_added"
	EventShipmentRemoved   = "load.shipment_removed"
	EventInTransit         = "load.in_transit"
	EventDelivered         = "load.delivered"
	EventCancelled         = "load.cancelled"
	EventDeleted           = "load.deleted"
)

// EventHeader is embedded in every load event payload.
type EventHeader struct {
	LoadID      string    `json:"loadId"`
	Reference   string    `json:"reference"`
	Status      string    `json:"status"`
	CarrierName string    `json:"carrierName,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreatedPayload struct {
	EventHeader
	Origin                kernel.LocationSnapshot `json:"origin"`
	Destination           kernel.LocationSnapshot `json:"destination"`
	ShipmentIDs           []string                `json:"shipmentIds"`
	RequestedPickupDate   *time.Time              `json:"requestedPickupDate,omitempty"`
	RequestedDeliveryDate *time.Time              `json:"requestedDeliveryDate,omitempty"`
}

type CarrierAssignedPayload struct {
	EventHeader
	PreviousCarrierName string `json:"previousCarrierName,omitempty"`
}

type CarrierUnassignedPayload struct {
	EventHeader
	PreviousCarrierName string `json:"previousCarrierName"`
}

type TenderedPayload struct {
	EventHeader
	ExpiresAt time.Time `json:"expiresAt"`
	Notes     string    `json:"notes,omitempty"`
}

type TenderDecisionPayload struct {
	EventHeader
	Decision    string    `json:"decision"`
	RespondedAt time.Time `json:"respondedAt"`
	RespondedBy string    `json:"respondedBy,omitempty"`
	Reason      string    `json:"reason,omitempty"`
}

type PickupPayload struct {
	EventHeader
	ConfirmationNumber string                  `json:"confirmationNumber"`
	ScheduledFor       time.Time               `json:"scheduledFor"`
	Location           kernel.LocationSnapshot `json:"location"`
}

type ShipmentsPayload struct {
	EventHeader
	ShipmentIDs []string `json:"shipmentIds"`
}

type CancelledPayload struct {
	EventHeader
	PreviousStatus string `json:"previousStatus"`
	Reason         string `json:"reason,omitempty"`
}

// StatusPayload carries no data beyond the header.
type StatusPayload struct {
	EventHeader
}

func idStrings(ids []kernel.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
