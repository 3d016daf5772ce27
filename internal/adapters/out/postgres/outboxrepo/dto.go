package outboxrepo

import (
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/outbox"

	"github.com/google/uuid"
)

// OutboxEventDTO is a row of outbox_events. idx_outbox_events_due serves the
// publisher's "oldest due PENDING rows" scan.
type OutboxEventDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AggregateID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	AggregateType string     `gorm:"type:varchar(64);not null"`
	EventType     string     `gorm:"type:varchar(128);not null"`
	Destination   string     `gorm:"type:varchar(255);not null"`
	Payload       []byte     `gorm:"type:bytea;not null"`
	Status        string     `gorm:"type:varchar(16);not null;index:idx_outbox_events_due,priority:1"`
	AttemptCount  int        `gorm:"type:int;not null;default:0"`
	CreatedAt     time.Time  `gorm:"type:timestamptz;not null;autoCreateTime:false;index:idx_outbox_events_due,priority:3"`
	LastAttemptAt *time.Time `gorm:"type:timestamptz"`
	ErrorMessage  string     `gorm:"type:text;not null;default:''"`
	AvailableAt   time.Time  `gorm:"type:timestamptz;not null;index:idx_outbox_events_due,priority:2"`
	ClaimedBy     string     `gorm:"type:varchar(255);not null;default:''"`
	ClaimedUntil  *time.Time `gorm:"type:timestamptz"`
}

func (OutboxEventDTO) TableName() string {
	return "outbox_events"
}

func fromDomain(e *outbox.Event) OutboxEventDTO {
	return OutboxEventDTO{
		ID:            e.ID().Bytes(),
		AggregateID:   e.AggregateID().Bytes(),
		AggregateType: e.AggregateType(),
		EventType:     e.EventType(),
		Destination:   e.Destination(),
		Payload:       e.Payload(),
		Status:        e.Status().String(),
		AttemptCount:  e.AttemptCount(),
		CreatedAt:     e.CreatedAt(),
		LastAttemptAt: optionalTime(e.LastAttemptAt()),
		ErrorMessage:  e.ErrorMessage(),
		AvailableAt:   e.AvailableAt(),
		ClaimedBy:     e.ClaimedBy(),
		ClaimedUntil:  optionalTime(e.ClaimedUntil()),
	}
}

func toDomain(dto OutboxEventDTO) (*outbox.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	aggregateID, err := kernel.UUIDFromBytes(dto.AggregateID[:])
	if err != nil {
		return nil, err
	}
	status, err := outbox.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return outbox.RestoreEvent(outbox.Snapshot{
		ID:            id,
		AggregateID:   aggregateID,
		AggregateType: dto.AggregateType,
		EventType:     dto.EventType,
		Destination:   dto.Destination,
		Payload:       dto.Payload,
		Status:        status,
		AttemptCount:  dto.AttemptCount,
		CreatedAt:     dto.CreatedAt,
		LastAttemptAt: valueOf(dto.LastAttemptAt),
		ErrorMessage:  dto.ErrorMessage,
		AvailableAt:   dto.AvailableAt,
		ClaimedBy:     dto.ClaimedBy,
		ClaimedUntil:  valueOf(dto.ClaimedUntil),
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
