package load_test

import (
	"testing"

	"freight/internal/core/domain/model/load"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_StringAndParse(t *testing.T) {
	for _, s := range []load.Status{
		load.Planned, load.Tendered, load.TenderAccepted, load.Booked,
		load.InTransit, load.Delivered, load.Cancelled,
	} {
		t.Run(s.String(), func(t *testing.T) {
			require.NoError(t, s.Validate())
			parsed, err := load.ParseStatus(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		})
	}

	_, err := load.ParseStatus("UNKNOWN")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.Error(t, load.Unknown.Validate())
	require.Error(t, load.Status(42).Validate())
}

func TestStatus_Transitions(t *testing.T) {
	tests := []struct {
		name string
		from load.Status
		op   func(load.Status) (load.Status, error)
		want load.Status
	}{
		{"tender", load.Planned, load.Status.Tender, load.Tendered},
		{"withdraw tender", load.Tendered, load.Status.WithdrawTender, load.Planned},
		{"accept tender", load.Tendered, load.Status.AcceptTender, load.TenderAccepted},
		{"book", load.TenderAccepted, load.Status.Book, load.Booked},
		{"ship", load.Booked, load.Status.Ship, load.InTransit},
		{"deliver", load.InTransit, load.Status.Deliver, load.Delivered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.from)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			_, err = tt.op(load.Delivered)
			require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
		})
	}
}

func TestStatus_Cancel(t *testing.T) {
	for _, s := range []load.Status{load.Planned, load.Tendered, load.TenderAccepted, load.Booked, load.InTransit} {
		got, err := s.Cancel()
		require.NoError(t, err, s.String())
		assert.Equal(t, load.Cancelled, got)
	}
	for _, s := range []load.Status{load.Delivered, load.Cancelled} {
		_, err := s.Cancel()
		require.ErrorIs(t, err, errs.ErrInvalidStateTransition, s.String())
	}
}

func TestStatus_Predicates(t *testing.T) {
	assert.False(t, load.Planned.RequiresCarrier())
	assert.False(t, load.Cancelled.RequiresCarrier())
	assert.True(t, load.Tendered.RequiresCarrier())
	assert.True(t, load.Delivered.RequiresCarrier())

	assert.True(t, load.TenderAccepted.IsDeletable())
	assert.False(t, load.Booked.IsDeletable())
}

func TestTender_Restore(t *testing.T) {
	t.Run("response without offer is rejected", func(t *testing.T) {
		_, err := load.RestoreTender(nil, &load.TenderResponse{Decision: load.DecisionAccepted})
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("derives status from offer and response", func(t *testing.T) {
		none, err := load.RestoreTender(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, load.TenderStatusNotTendered, none.Status())

		pending, err := load.RestoreTender(&load.TenderOffer{}, nil)
		require.NoError(t, err)
		assert.Equal(t, load.TenderStatusPending, pending.Status())

		declined, err := load.RestoreTender(&load.TenderOffer{}, &load.TenderResponse{Decision: load.DecisionDeclined})
		require.NoError(t, err)
		assert.Equal(t, load.TenderStatusDeclined, declined.Status())
	})

	t.Run("parse decision", func(t *testing.T) {
		d, err := load.ParseDecision("ACCEPTED")
		require.NoError(t, err)
		assert.Equal(t, load.DecisionAccepted, d)

		_, err = load.ParseDecision("MAYBE")
		require.Error(t, err)
	})
}
