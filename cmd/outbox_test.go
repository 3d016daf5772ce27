package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintDeadLetters(t *testing.T) {
	lastAttempt := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	rows := []queries.ListDeadLettersQueryResponse{
		{
			ID:            kernel.NewUUID(),
			AggregateID:   kernel.NewUUID(),
			AggregateType: "load",
			EventType:     "load.booked",
			Destination:   "freight.loads",
			AttemptCount:  5,
			ErrorMessage:  "broker unavailable",
			LastAttemptAt: &lastAttempt,
		},
		{
			ID:            kernel.NewUUID(),
			AggregateID:   kernel.NewUUID(),
			AggregateType: "shipment",
			EventType:     "shipment.created",
			Destination:   "freight.shipments",
			AttemptCount:  1,
		},
	}

	var out bytes.Buffer
	require.NoError(t, printDeadLetters(&out, rows))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "2026-05-01T09:30:00Z")
	assert.Contains(t, lines[1], "broker unavailable")
	assert.Contains(t, lines[2], "shipment/"+rows[1].AggregateID.String())
	assert.Contains(t, lines[2], " - ")
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.True(t, names["outbox"])

	replay, _, err := rootCmd.Find([]string{"outbox", "replay"})
	require.NoError(t, err)
	assert.Error(t, replay.Args(replay, nil))
}
