package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/load"
)

// CancelPickupCommandHandler removes the pickup appointment of a BOOKED load.
type CancelPickupCommandHandler struct {
	uowFactory LoadUoWFactory
}

func NewCancelPickupCommandHandler(uowFactory LoadUoWFactory) CancelPickupCommandHandler {
	return CancelPickupCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h CancelPickupCommandHandler) Handle(ctx context.Context, cmd CancelPickupCommand) (*load.Load, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateLoad(ctx, h.uowFactory, cmd.LoadID(), cmd.Token(), func(now time.Time, l *load.Load) error {
		return l.CancelPickup(now)
	})
}
