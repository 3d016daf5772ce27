package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/load"
)

// ShipLoadCommandHandler confirms that the carrier collected the load.
type ShipLoadCommandHandler struct {
	uowFactory LoadUoWFactory
}

func NewShipLoadCommandHandler(uowFactory LoadUoWFactory) ShipLoadCommandHandler {
	return ShipLoadCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h ShipLoadCommandHandler) Handle(ctx context.Context, cmd ShipLoadCommand) (*load.Load, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateLoad(ctx, h.uowFactory, cmd.LoadID(), cmd.Token(), func(now time.Time, l *load.Load) error {
		return l.Ship(now)
	})
}
