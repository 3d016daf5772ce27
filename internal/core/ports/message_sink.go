package ports

import (
	"context"

	"freight/internal/core/domain/model/outbox"
)

// Message is an encoded outbox row ready for a sink.
type Message struct {
	ID          string
	Destination string
	Key         string
	ContentType string
	Headers     map[string]string
	Body        []byte
}

// EventEncoder turns an outbox row into a wire message.
type EventEncoder interface {
	Encode(event *outbox.Event) (Message, error)
}

// MessageSink delivers messages to a broker. Deliveries are at-least-once;
// consumers deduplicate on Message.ID.
type MessageSink interface {
	Deliver(ctx context.Context, msg Message) error
	Close() error
}
