// Package envelope wraps outbox rows in CloudEvents 1.0 structured JSON.
//
// A load.booked row becomes:
//
//	{
//	  "specversion": "1.0",
//	  "id": "<outbox row id>",
//	  "source": "freight/load",
//	  "type": "load.booked",
//	  "subject": "<load id>",
//	  "time": "2026-05-04T09:00:00Z",
//	  "datacontenttype": "application/json",
//	  "aggregatetype": "load",
//	  "data": { ... }
//	}
package envelope

import (
	"encoding/json"
	"fmt"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/outbox"
	"freight/internal/core/ports"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

const (
	DefaultSource = "freight"

	// ContentType is the structured-mode media type of encoded messages.
	ContentType = cloudevents.ApplicationCloudEventsJSON

	extAggregateType = "aggregatetype"
)

type CloudEventsEncoder struct {
	source string
}

var _ ports.EventEncoder = CloudEventsEncoder{}

// NewCloudEventsEncoder uses source as the prefix of every event's source
// attribute. Blank means DefaultSource.
func NewCloudEventsEncoder(source string) CloudEventsEncoder {
	source = strings.TrimRight(strings.TrimSpace(source), "/")
	if source == "" {
		source = DefaultSource
	}
	return CloudEventsEncoder{source: source}
}

// Encode keeps the row id as the envelope id, so a redelivered row carries
// the id consumers already saw. The aggregate id is the message key, which
// keeps one aggregate's events on one partition.
func (e CloudEventsEncoder) Encode(ev *outbox.Event) (ports.Message, error) {
	ce := cloudevents.NewEvent()
	ce.SetID(ev.ID().String())
	ce.SetSource(e.source + "/" + ev.AggregateType())
	ce.SetType(ev.EventType())
	ce.SetSubject(ev.AggregateID().String())
	ce.SetTime(ev.CreatedAt())
	ce.SetExtension(extAggregateType, ev.AggregateType())
	if err := ce.SetData(cloudevents.ApplicationJSON, ev.Payload()); err != nil {
		return ports.Message{}, fmt.Errorf("failed to set event data: %w", err)
	}
	if err := ce.Validate(); err != nil {
		return ports.Message{}, fmt.Errorf("invalid cloudevent: %w", err)
	}

	body, err := json.Marshal(ce)
	if err != nil {
		return ports.Message{}, fmt.Errorf("failed to marshal cloudevent: %w", err)
	}

	return ports.Message{
		ID:          ce.ID(),
		Destination: ev.Destination(),
		Key:         ce.Subject(),
		ContentType: ContentType,
		Headers: map[string]string{
			"ce_id":          ce.ID(),
			"ce_type":        ce.Type(),
			"ce_source":      ce.Source(),
			"ce_specversion": ce.SpecVersion(),
			"content-type":   ContentType,
		},
		Body: body,
	}, nil
}

// Envelope is a decoded message as a consumer sees it.
type Envelope struct {
	ID            string
	Source        string
	EventType     string
	AggregateID   kernel.UUID
	AggregateType string
	Payload       []byte
}

// Decode parses a message body produced by Encode.
func Decode(body []byte) (Envelope, error) {
	var ce cloudevents.Event
	if err := json.Unmarshal(body, &ce); err != nil {
		return Envelope{}, fmt.Errorf("failed to unmarshal cloudevent: %w", err)
	}

	aggregateID, err := kernel.UUIDFromString(ce.Subject())
	if err != nil {
		return Envelope{}, err
	}

	aggregateType, _ := ce.Extensions()[extAggregateType].(string)
	return Envelope{
		ID:            ce.ID(),
		Source:        ce.Source(),
		EventType:     ce.Type(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		Payload:       ce.Data(),
	}, nil
}
