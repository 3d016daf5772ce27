package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/load"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// SchedulePickupCommandHandler books a pickup slot with the carrier of a
// BOOKED load and stores the confirmed appointment.
type SchedulePickupCommandHandler struct {
	uowFactory LoadUoWFactory
	carriers   ports.CarrierRegistry
}

func NewSchedulePickupCommandHandler(
	uowFactory LoadUoWFactory,
	carriers ports.CarrierRegistry,
) SchedulePickupCommandHandler {
	return SchedulePickupCommandHandler{
		uowFactory: uowFactory,
		carriers:   carriers,
	}
}

func (h SchedulePickupCommandHandler) Handle(ctx context.Context, cmd SchedulePickupCommand) (*load.Load, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	l, read, err := peekLoad(ctx, h.uowFactory, cmd.LoadID(), cmd.Token())
	if err != nil {
		return nil, err
	}
	if l.Status() != load.Booked {
		return nil, errs.NewInvalidStateTransitionError(l.Status().String(), "schedule pickup")
	}

	adapter, err := h.carriers.Adapter(l.CarrierName())
	if err != nil {
		return nil, err
	}

	params := cmd.Params()
	location, ok := cmd.Location()
	if !ok {
		location = l.Origin()
	}

	confirmation, err := adapter.SchedulePickup(ctx, ports.PickupRequest{
		LoadID:       l.ID(),
		Reference:    l.Reference(),
		Location:     location,
		RequestedFor: params.RequestedFor,
		ContactName:  params.ContactName,
		ContactPhone: params.ContactPhone,
		Instructions: params.Instructions,
	})
	if err != nil {
		return nil, err
	}

	scheduledFor := confirmation.ScheduledFor
	if scheduledFor.IsZero() {
		scheduledFor = params.RequestedFor
	}
	pickup, err := load.NewPickup(
		confirmation.ConfirmationNumber,
		scheduledFor,
		location,
		params.ContactName,
		params.ContactPhone,
		params.Instructions,
	)
	if err != nil {
		return nil, err
	}

	return mutateLoad(ctx, h.uowFactory, l.ID(), read, func(now time.Time, l *load.Load) error {
		return l.SchedulePickup(now, pickup)
	})
}
