package http

import (
	"time"

	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/model/outbox"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
)

type NewLoad struct {
	Reference             string                  `json:"reference"`
	Origin                kernel.LocationSnapshot `json:"origin"`
	Destination           kernel.LocationSnapshot `json:"destination"`
	ShipmentIDs           []string                `json:"shipmentIds"`
	RequestedPickupDate   time.Time               `json:"requestedPickupDate"`
	RequestedDeliveryDate time.Time               `json:"requestedDeliveryDate"`
	Notes                 string                  `json:"notes"`
}

type ShipmentIDs struct {
	ShipmentIDs []string `json:"shipmentIds"`
}

type CarrierAssignment struct {
	CarrierName string `json:"carrierName"`
}

type NewTender struct {
	ExpiresAt time.Time `json:"expiresAt"`
	Notes     string    `json:"notes"`
}

type TenderDecision struct {
	Decision    string `json:"decision"`
	RespondedBy string `json:"respondedBy"`
	Reason      string `json:"reason"`
}

type PickupRequest struct {
	RequestedFor time.Time                `json:"requestedFor"`
	Location     *kernel.LocationSnapshot `json:"location"`
	ContactName  string                   `json:"contactName"`
	ContactPhone string                   `json:"contactPhone"`
	Instructions string                   `json:"instructions"`
}

type Cancellation struct {
	Reason string `json:"reason"`
}

type NewShipment struct {
	OrderID     string `json:"orderId"`
	CarrierName string `json:"carrierName"`
}

type Dispatch struct {
	TrackingNumber string `json:"trackingNumber"`
	WeightGrams    int    `json:"weightGrams"`
	Description    string `json:"description"`
}

type TrackingUpdate struct {
	Events  []queries.TrackingEventView `json:"events"`
	Outcome string                      `json:"outcome"`
}

type Tender struct {
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

type Pickup struct {
	ConfirmationNumber string    `json:"confirmationNumber"`
	ScheduledFor       time.Time `json:"scheduledFor"`
}

type Load struct {
	ID          string                  `json:"id"`
	Reference   string                  `json:"reference"`
	Status      string                  `json:"status"`
	CarrierName string                  `json:"carrierName,omitempty"`
	ShipmentIDs []string                `json:"shipmentIds"`
	Origin      kernel.LocationSnapshot `json:"origin"`
	Destination kernel.LocationSnapshot `json:"destination"`
	Notes       string                  `json:"notes,omitempty"`
	Tender      Tender                  `json:"tender"`
	Pickup      *Pickup                 `json:"pickup,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
	Token       string                  `json:"concurrencyToken"`
}

type Shipment struct {
	ID             string                      `json:"id"`
	OrderID        string                      `json:"orderId"`
	CarrierName    string                      `json:"carrierName"`
	TrackingNumber string                      `json:"trackingNumber,omitempty"`
	Status         string                      `json:"status"`
	AssignedLoadID string                      `json:"assignedLoadId,omitempty"`
	TrackingEvents []queries.TrackingEventView `json:"trackingEvents"`
	CreatedAt      time.Time                   `json:"createdAt"`
	DispatchedAt   *time.Time                  `json:"dispatchedAt,omitempty"`
	DeliveredAt    *time.Time                  `json:"deliveredAt,omitempty"`
	LastUpdatedAt  time.Time                   `json:"lastUpdatedAt"`
	Token          string                      `json:"concurrencyToken"`
}

type Rate struct {
	CarrierName   string `json:"carrierName"`
	AmountCents   int64  `json:"amountCents"`
	Currency      string `json:"currency"`
	EstimatedDays int    `json:"estimatedDays"`
}

type OutboxEvent struct {
	ID            string     `json:"id"`
	AggregateID   string     `json:"aggregateId"`
	AggregateType string     `json:"aggregateType"`
	EventType     string     `json:"eventType"`
	Destination   string     `json:"destination"`
	Status        string     `json:"status,omitempty"`
	AttemptCount  int        `json:"attemptCount"`
	ErrorMessage  string     `json:"errorMessage,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastAttemptAt *time.Time `json:"lastAttemptAt,omitempty"`
}

func toLoad(l *load.Load) Load {
	tender := l.TenderDetails()
	resp := Load{
		ID:          l.ID().String(),
		Reference:   l.Reference(),
		Status:      l.Status().String(),
		CarrierName: l.CarrierName(),
		ShipmentIDs: uuidStrings(l.ShipmentIDs()),
		Origin:      l.Origin().Snapshot(),
		Destination: l.Destination().Snapshot(),
		Notes:       l.Notes(),
		Tender:      Tender{Status: tender.Status().String()},
		CreatedAt:   l.CreatedAt(),
		UpdatedAt:   l.UpdatedAt(),
		Token:       l.ConcurrencyToken().String(),
	}
	if offer, ok := tender.Offer(); ok {
		resp.Tender.ExpiresAt = &offer.ExpiresAt
	}
	if response, ok := tender.Response(); ok {
		resp.Tender.Reason = response.Reason
	}
	if p, ok := l.Pickup(); ok {
		resp.Pickup = &Pickup{ConfirmationNumber: p.ConfirmationNumber(), ScheduledFor: p.ScheduledFor()}
	}
	return resp
}

func toLoadFromReadModel(r queries.GetLoadQueryResponse) Load {
	resp := Load{
		ID:          r.ID.String(),
		Reference:   r.Reference,
		Status:      r.Status,
		CarrierName: r.CarrierName,
		ShipmentIDs: uuidStrings(r.ShipmentIDs),
		Origin:      r.Origin.Snapshot(),
		Destination: r.Destination.Snapshot(),
		Notes:       r.Notes,
		Tender: Tender{
			Status:    r.TenderStatus,
			ExpiresAt: r.TenderExpiresAt,
			Reason:    r.TenderReason,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Token:     r.Token.String(),
	}
	if r.PickupScheduledFor != nil {
		resp.Pickup = &Pickup{ConfirmationNumber: r.PickupConfirmationNumber, ScheduledFor: *r.PickupScheduledFor}
	}
	return resp
}

func toShipment(s *shipment.Shipment) Shipment {
	resp := Shipment{
		ID:             s.ID().String(),
		OrderID:        s.OrderID(),
		CarrierName:    s.CarrierName(),
		TrackingNumber: s.TrackingNumber(),
		Status:         s.Status().String(),
		TrackingEvents: make([]queries.TrackingEventView, 0, len(s.TrackingEvents())),
		CreatedAt:      s.CreatedAt(),
		DispatchedAt:   optionalTime(s.DispatchedAt()),
		DeliveredAt:    optionalTime(s.DeliveredAt()),
		LastUpdatedAt:  s.LastUpdatedAt(),
		Token:          s.ConcurrencyToken().String(),
	}
	if s.IsAssignedToLoad() {
		resp.AssignedLoadID = s.AssignedLoadID().String()
	}
	for _, e := range s.TrackingEvents() {
		resp.TrackingEvents = append(resp.TrackingEvents, queries.TrackingEventView{
			Status:           e.Status,
			Description:      e.Description,
			Location:         e.Location,
			OccurredAt:       e.OccurredAt,
			CarrierEventCode: e.CarrierEventCode,
			Detail:           e.Detail,
		})
	}
	return resp
}

func toShipmentFromReadModel(r queries.GetShipmentQueryResponse) Shipment {
	resp := Shipment{
		ID:             r.ID.String(),
		OrderID:        r.OrderID,
		CarrierName:    r.CarrierName,
		TrackingNumber: r.TrackingNumber,
		Status:         r.Status,
		TrackingEvents: r.TrackingEvents,
		CreatedAt:      r.CreatedAt,
		DispatchedAt:   r.DispatchedAt,
		DeliveredAt:    r.DeliveredAt,
		LastUpdatedAt:  r.LastUpdatedAt,
		Token:          r.Token.String(),
	}
	if resp.TrackingEvents == nil {
		resp.TrackingEvents = []queries.TrackingEventView{}
	}
	if r.AssignedLoadID != nil {
		resp.AssignedLoadID = r.AssignedLoadID.String()
	}
	return resp
}

func toRate(cost ports.ShippingCost) Rate {
	return Rate{
		CarrierName:   cost.CarrierName,
		AmountCents:   cost.AmountCents,
		Currency:      cost.Currency,
		EstimatedDays: cost.EstimatedDays,
	}
}

func toOutboxEvent(e *outbox.Event) OutboxEvent {
	return OutboxEvent{
		ID:            e.ID().String(),
		AggregateID:   e.AggregateID().String(),
		AggregateType: e.AggregateType(),
		EventType:     e.EventType(),
		Destination:   e.Destination(),
		Status:        e.Status().String(),
		AttemptCount:  e.AttemptCount(),
		ErrorMessage:  e.ErrorMessage(),
		CreatedAt:     e.CreatedAt(),
		LastAttemptAt: optionalTime(e.LastAttemptAt()),
	}
}

func toDeadLetter(r queries.ListDeadLettersQueryResponse) OutboxEvent {
	return OutboxEvent{
		ID:            r.ID.String(),
		AggregateID:   r.AggregateID.String(),
		AggregateType: r.AggregateType,
		EventType:     r.EventType,
		Destination:   r.Destination,
		Status:        outbox.StatusFailed.String(),
		AttemptCount:  r.AttemptCount,
		ErrorMessage:  r.ErrorMessage,
		CreatedAt:     r.CreatedAt,
		LastAttemptAt: r.LastAttemptAt,
	}
}

func uuidStrings(ids []kernel.UUID) []string {
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
