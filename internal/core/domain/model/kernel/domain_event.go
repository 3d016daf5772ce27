package kernel

import "time"

// DomainEvent is a fact recorded by an aggregate during a state transition.
// The unit of work turns every recorded event into an outbox row inside the
// transaction that persists the aggregate. Payload is serialized as JSON.
type DomainEvent struct {
	ID            UUID
	AggregateID   UUID
	AggregateType string
	EventType     string
	OccurredAt    time.Time
	Payload       any
}

// EventSource is implemented by aggregates that record domain events.
type EventSource interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}

// EventRecorder buffers the events of one aggregate instance. Aggregates
// embed it as a private field and expose DomainEvents and ClearDomainEvents.
type EventRecorder struct {
	events []DomainEvent
}

// Record appends an event with a fresh identifier.
func (r *EventRecorder) Record(aggregateType string, aggregateID UUID, eventType string, at time.Time, payload any) {
	r.events = append(r.events, DomainEvent{
		ID:            NewUUID(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		OccurredAt:    at,
		Payload:       payload,
	})
}

// Events returns a copy of the buffered events in recording order.
func (r *EventRecorder) Events() []DomainEvent {
	out := make([]DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Clear drops all buffered events.
func (r *EventRecorder) Clear() {
	r.events = nil
}
