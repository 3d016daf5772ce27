package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/load"
)

type ConfirmDeliveryCommandHandler struct {
	uowFactory LoadUoWFactory
}

func NewConfirmDeliveryCommandHandler(uowFactory LoadUoWFactory) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) (*load.Load, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateLoad(ctx, h.uowFactory, cmd.LoadID(), cmd.Token(), func(now time.Time, l *load.Load) error {
		return l.ConfirmDelivery(now)
	})
}
