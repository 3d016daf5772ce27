package shipment

import "time"

// AggregateType names shipments in outbox rows and event envelopes.
const AggregateType = "shipment"

// Event types recorded by Shipment.
const (
	EventCreated            = "shipment.created"
	EventAssignedToLoad     = "shipment.assigned_to_load"
	EventUnassignedFromLoad = "shipment.unassigned_from_load"
	EventDispatched         = "shipment.dispatched"
	EventInTransit          = "shipment.in_transit"
	EventTrackingUpdated    = "shipment.tracking_updated"
	EventDelivered          = "shipment.delivered"
	EventDeliveryFailed     = "shipment.delivery_failed"
)

// EventHeader is embedded in every shipment event payload.
type EventHeader struct {
	ShipmentID     string    `json:"shipmentId"`
	OrderID        string    `json:"orderId"`
	Status         string    `json:"status"`
	CarrierName    string    `json:"carrierName"`
	TrackingNumber string    `json:"trackingNumber,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type LoadAssignmentPayload struct {
	EventHeader
	LoadID string `json:"loadId"`
}

type TrackingEventPayload struct {
	Status           string    `json:"status,omitempty"`
	Description      string    `json:"description,omitempty"`
	Location         string    `json:"location,omitempty"`
	OccurredAt       time.Time `json:"occurredAt"`
	CarrierEventCode string    `json:"carrierEventCode,omitempty"`
	Detail           string    `json:"detail,omitempty"`
}

type TrackingUpdatedPayload struct {
	EventHeader
	NewEvents []TrackingEventPayload `json:"newEvents"`
}

type StatusPayload struct {
	EventHeader
	OccurredAt *time.Time `json:"occurredAt,omitempty"`
}

func toPayload(events []TrackingEvent) []TrackingEventPayload {
	out := make([]TrackingEventPayload, len(events))
	for i, e := range events {
		out[i] = TrackingEventPayload(e)
	}
	return out
}
