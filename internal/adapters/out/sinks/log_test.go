package sinks_test

import (
	"testing"

	"freight/internal/adapters/out/sinks"
	"freight/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogSink_Deliver(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := sinks.NewLogSink(zap.New(core))

	err := sink.Deliver(testContext(t), ports.Message{
		ID:          "evt-1",
		Destination: "freight.shipments",
		Key:         "shp-1",
		Body:        []byte(`{}`),
	})

	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "message delivered", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "freight.shipments", fields["destination"])
	assert.Equal(t, "evt-1", fields["id"])
	assert.Equal(t, "log", fields["sink"])
	assert.NoError(t, sink.Close())
}
