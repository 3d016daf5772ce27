package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/load"
)

// UnassignCarrierCommandHandler clears the carrier of a PLANNED load.
type UnassignCarrierCommandHandler struct {
	uowFactory LoadUoWFactory
}

func NewUnassignCarrierCommandHandler(uowFactory LoadUoWFactory) UnassignCarrierCommandHandler {
	return UnassignCarrierCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h UnassignCarrierCommandHandler) Handle(ctx context.Context, cmd UnassignCarrierCommand) (*load.Load, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateLoad(ctx, h.uowFactory, cmd.LoadID(), cmd.Token(), func(now time.Time, l *load.Load) error {
		return l.UnassignCarrier(now)
	})
}
