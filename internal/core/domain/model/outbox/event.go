package outbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// MaxErrorMessageLength bounds the stored delivery error.
const MaxErrorMessageLength = 2000

var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent constructor")

// Event is one outbox row: a domain event waiting to be published. It is
// written in the transaction that changed its aggregate and afterwards
// touched only by the publisher.
type Event struct {
	id            kernel.UUID
	aggregateID   kernel.UUID
	aggregateType string
	eventType     string
	destination   string
	payload       []byte
	status        Status
	attemptCount  int
	createdAt     time.Time
	lastAttemptAt time.Time
	errorMessage  string

	availableAt  time.Time
	claimedBy    string
	claimedUntil time.Time

	isConstructed bool
}

// NewEvent builds a PENDING row from a recorded domain event. The row keeps
// the domain event id, which becomes the envelope id consumers deduplicate on.
func NewEvent(e kernel.DomainEvent, destination string) (*Event, error) {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("payload", err)
	}

	ev := &Event{
		id:            e.ID,
		aggregateID:   e.AggregateID,
		aggregateType: strings.TrimSpace(e.AggregateType),
		eventType:     strings.TrimSpace(e.EventType),
		destination:   strings.TrimSpace(destination),
		payload:       payload,
		status:        StatusPending,
		createdAt:     e.OccurredAt.UTC().Truncate(time.Microsecond),
		isConstructed: true,
	}
	ev.availableAt = ev.createdAt

	if err := ev.validate(); err != nil {
		return nil, err
	}
	return ev, nil
}

// Snapshot is the persisted state of an outbox row.
type Snapshot struct {
	ID            kernel.UUID
	AggregateID   kernel.UUID
	AggregateType string
	EventType     string
	Destination   string
	Payload       []byte
	Status        Status
	AttemptCount  int
	CreatedAt     time.Time
	LastAttemptAt time.Time
	ErrorMessage  string
	AvailableAt   time.Time
	ClaimedBy     string
	ClaimedUntil  time.Time
}

func RestoreEvent(snap Snapshot) (*Event, error) {
	ev := &Event{
		id:            snap.ID,
		aggregateID:   snap.AggregateID,
		aggregateType: snap.AggregateType,
		eventType:     snap.EventType,
		destination:   snap.Destination,
		payload:       snap.Payload,
		status:        snap.Status,
		attemptCount:  snap.AttemptCount,
		createdAt:     snap.CreatedAt.UTC(),
		lastAttemptAt: snap.LastAttemptAt.UTC(),
		errorMessage:  snap.ErrorMessage,
		availableAt:   snap.AvailableAt.UTC(),
		claimedBy:     snap.ClaimedBy,
		claimedUntil:  snap.ClaimedUntil.UTC(),
		isConstructed: true,
	}

	errList := []error{ev.validate(), snap.Status.Validate()}
	if snap.AttemptCount < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("attemptCount", snap.AttemptCount, 0, "∞"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	return ev, nil
}

func (e *Event) validate() error {
	var errList []error
	if err := e.id.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("id", err))
	}
	if err := e.aggregateID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("aggregateID", err))
	}
	if e.aggregateType == "" {
		errList = append(errList, errs.NewValueIsRequiredError("aggregateType"))
	}
	if e.eventType == "" {
		errList = append(errList, errs.NewValueIsRequiredError("eventType"))
	}
	if e.destination == "" {
		errList = append(errList, errs.NewValueIsRequiredError("destination"))
	}
	if e.createdAt.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("createdAt"))
	}
	return errors.Join(errList...)
}

func (e *Event) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEventIsNotConstructed
	}
	return nil
}

func (e *Event) ID() kernel.UUID          { return e.id }
func (e *Event) AggregateID() kernel.UUID { return e.aggregateID }
func (e *Event) AggregateType() string    { return e.aggregateType }
func (e *Event) EventType() string        { return e.eventType }
func (e *Event) Destination() string      { return e.destination }
func (e *Event) Status() Status           { return e.status }
func (e *Event) AttemptCount() int        { return e.attemptCount }
func (e *Event) CreatedAt() time.Time     { return e.createdAt }
func (e *Event) LastAttemptAt() time.Time { return e.lastAttemptAt }
func (e *Event) ErrorMessage() string     { return e.errorMessage }
func (e *Event) AvailableAt() time.Time   { return e.availableAt }
func (e *Event) ClaimedBy() string        { return e.claimedBy }
func (e *Event) ClaimedUntil() time.Time  { return e.claimedUntil }

// Payload returns a copy of the JSON payload.
func (e *Event) Payload() []byte {
	return append([]byte(nil), e.payload...)
}

// IsDeadLetter reports whether the publisher gave up on the row.
func (e *Event) IsDeadLetter() bool {
	return e.status == StatusFailed
}

// MarkProcessed records a successful delivery.
func (e *Event) MarkProcessed(now time.Time) error {
	if e.status != StatusPending {
		return errs.NewInvalidStateTransitionError(e.status.String(), "mark processed")
	}
	e.attemptCount++
	e.lastAttemptAt = now.UTC().Truncate(time.Microsecond)
	e.status = StatusProcessed
	e.errorMessage = ""
	e.release()
	return nil
}

// MarkFailed records a failed delivery. The row stays PENDING and becomes
// available again after backoff(attempt) until maxAttempts is reached, then
// it is dead-lettered as FAILED.
func (e *Event) MarkFailed(now time.Time, cause error, maxAttempts int, backoff DelayFunc) error {
	if e.status != StatusPending {
		return errs.NewInvalidStateTransitionError(e.status.String(), "mark failed")
	}
	if maxAttempts < 1 {
		return errs.NewValueIsOutOfRangeError("maxAttempts", maxAttempts, 1, "∞")
	}

	now = now.UTC().Truncate(time.Microsecond)
	e.attemptCount++
	e.lastAttemptAt = now
	e.errorMessage = errorMessage(cause)
	e.release()

	if e.attemptCount >= maxAttempts {
		e.status = StatusFailed
		return nil
	}
	var wait time.Duration
	if backoff != nil {
		wait = backoff(e.attemptCount - 1)
	}
	e.availableAt = now.Add(wait)
	return nil
}

// Replay re-enqueues a dead letter as a new PENDING row with the same
// aggregate, type, destination and payload. The dead letter itself stays
// FAILED so the history of what happened is kept.
func (e *Event) Replay(now time.Time) (*Event, error) {
	if e.status != StatusFailed {
		return nil, errs.NewInvalidStateTransitionError(e.status.String(), "replay")
	}
	createdAt := now.UTC().Truncate(time.Microsecond)
	return &Event{
		id:            kernel.NewUUID(),
		aggregateID:   e.aggregateID,
		aggregateType: e.aggregateType,
		eventType:     e.eventType,
		destination:   e.destination,
		payload:       e.Payload(),
		status:        StatusPending,
		createdAt:     createdAt,
		availableAt:   createdAt,
		isConstructed: true,
	}, nil
}

func (e *Event) release() {
	e.claimedBy = ""
	e.claimedUntil = time.Time{}
}

func errorMessage(cause error) string {
	if cause == nil {
		return "unknown delivery error"
	}
	msg := cause.Error()
	if len(msg) > MaxErrorMessageLength {
		msg = strings.ToValidUTF8(msg[:MaxErrorMessageLength], "")
	}
	return msg
}

func (e *Event) String() string {
	return fmt.Sprintf("OutboxEvent(%s %s %s attempt=%d)", e.id, e.eventType, e.status, e.attemptCount)
}
