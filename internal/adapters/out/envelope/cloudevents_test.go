package envelope_test

import (
	"encoding/json"
	"testing"
	"time"

	"freight/internal/adapters/out/envelope"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/outbox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRow(t *testing.T) *outbox.Event {
	t.Helper()
	ev, err := outbox.NewEvent(kernel.DomainEvent{
		ID:            kernel.NewUUID(),
		AggregateID:   kernel.NewUUID(),
		AggregateType: "load",
		EventType:     "load.booked",
		OccurredAt:    time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC),
		Payload:       map[string]any{"reference": "L-1", "shipmentIds": []string{"a", "b"}},
	}, "freight.loads")
	require.NoError(t, err)
	return ev
}

func TestCloudEventsEncoder_RoundTrip(t *testing.T) {
	row := newRow(t)

	msg, err := envelope.NewCloudEventsEncoder("freight/").Encode(row)
	require.NoError(t, err)

	decoded, err := envelope.Decode(msg.Body)
	require.NoError(t, err)

	assert.Equal(t, row.ID().String(), decoded.ID)
	assert.Equal(t, row.AggregateID(), decoded.AggregateID)
	assert.Equal(t, "load", decoded.AggregateType)
	assert.Equal(t, "load.booked", decoded.EventType)
	assert.Equal(t, "freight/load", decoded.Source)
	assert.JSONEq(t, string(row.Payload()), string(decoded.Payload))
}

func TestCloudEventsEncoder_Message(t *testing.T) {
	row := newRow(t)

	msg, err := envelope.NewCloudEventsEncoder("").Encode(row)
	require.NoError(t, err)

	assert.Equal(t, row.ID().String(), msg.ID)
	assert.Equal(t, "freight.loads", msg.Destination)
	assert.Equal(t, row.AggregateID().String(), msg.Key)
	assert.Equal(t, envelope.ContentType, msg.ContentType)
	assert.Equal(t, "load.booked", msg.Headers["ce_type"])

	var structured map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &structured))
	assert.Equal(t, "1.0", structured["specversion"])
	assert.Equal(t, "freight/load", structured["source"])
	assert.Equal(t, "2026-05-04T09:00:00Z", structured["time"])
	assert.Equal(t, "application/json", structured["datacontenttype"])
	assert.Equal(t, map[string]any{"reference": "L-1", "shipmentIds": []any{"a", "b"}}, structured["data"])
}

func TestCloudEventsEncoder_ReplayedRowKeepsPayload(t *testing.T) {
	row := newRow(t)
	require.NoError(t, row.MarkFailed(time.Now(), assert.AnError, 1, nil))
	replayed, err := row.Replay(time.Now())
	require.NoError(t, err)

	msg, err := envelope.NewCloudEventsEncoder("").Encode(replayed)
	require.NoError(t, err)
	decoded, err := envelope.Decode(msg.Body)
	require.NoError(t, err)

	assert.NotEqual(t, row.ID().String(), decoded.ID)
	assert.JSONEq(t, string(row.Payload()), string(decoded.Payload))
}
