package shipmentrepo

import (
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

type ShipmentDTO struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey"`
	OrderID        string             `gorm:"type:varchar(255);not null;uniqueIndex"`
	CarrierName    string             `gorm:"type:varchar(64);not null"`
	TrackingNumber string             `gorm:"type:varchar(128);not null;default:''"`
	Status         string             `gorm:"type:varchar(32);not null;index"`
	TrackingEvents []TrackingEventDTO `gorm:"type:jsonb;serializer:json;not null"`
	CreatedAt      time.Time          `gorm:"type:timestamptz;not null;autoCreateTime:false"`
	DispatchedAt   *time.Time         `gorm:"type:timestamptz"`
	DeliveredAt    *time.Time         `gorm:"type:timestamptz"`
	AssignedLoadID uuid.UUID          `gorm:"type:uuid;not null;index"`
	LastUpdatedAt  time.Time          `gorm:"type:timestamptz;not null"`
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

type TrackingEventDTO struct {
	Status           string    `json:"status,omitempty"`
	Description      string    `json:"description,omitempty"`
	Location         string    `json:"location,omitempty"`
	OccurredAt       time.Time `json:"occurredAt"`
	CarrierEventCode string    `json:"carrierEventCode,omitempty"`
	Detail           string    `json:"detail,omitempty"`
}

func fromDomain(s *shipment.Shipment) ShipmentDTO {
	events := s.TrackingEvents()
	trackingEvents := make([]TrackingEventDTO, len(events))
	for i, e := range events {
		trackingEvents[i] = TrackingEventDTO(e)
	}

	return ShipmentDTO{
		ID:             s.ID().Bytes(),
		OrderID:        s.OrderID(),
		CarrierName:    s.CarrierName(),
		TrackingNumber: s.TrackingNumber(),
		Status:         s.Status().String(),
		TrackingEvents: trackingEvents,
		CreatedAt:      s.CreatedAt(),
		DispatchedAt:   optionalTime(s.DispatchedAt()),
		DeliveredAt:    optionalTime(s.DeliveredAt()),
		AssignedLoadID: s.AssignedLoadID().Bytes(),
		LastUpdatedAt:  s.LastUpdatedAt(),
	}
}

func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	loadID, err := kernel.UUIDFromBytes(dto.AssignedLoadID[:])
	if err != nil {
		return nil, err
	}
	status, err := shipment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	events := make([]shipment.TrackingEvent, len(dto.TrackingEvents))
	for i, e := range dto.TrackingEvents {
		events[i] = shipment.TrackingEvent(e)
	}

	return shipment.RestoreShipment(shipment.Snapshot{
		ID:             id,
		OrderID:        dto.OrderID,
		CarrierName:    dto.CarrierName,
		TrackingNumber: dto.TrackingNumber,
		Status:         status,
		TrackingEvents: events,
		CreatedAt:      dto.CreatedAt,
		DispatchedAt:   valueOf(dto.DispatchedAt),
		DeliveredAt:    valueOf(dto.DeliveredAt),
		AssignedLoadID: loadID,
		LastUpdatedAt:  dto.LastUpdatedAt,
	})
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func valueOf(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
