package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/load"
)

// CreateLoadCommandHandler creates a PLANNED load and puts every listed
// shipment on it in the same transaction. A shipment that is missing or
// already on another load fails the whole command.
type CreateLoadCommandHandler struct {
	uowFactory UoWFactory
}

func NewCreateLoadCommandHandler(uowFactory UoWFactory) CreateLoadCommandHandler {
	return CreateLoadCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h CreateLoadCommandHandler) Handle(ctx context.Context, cmd CreateLoadCommand) (*load.Load, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	l, err := load.NewLoad(now, cmd.Params())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = assignShipments(ctx, uow.ShipmentRepository(), now, l.ID(), l.ShipmentIDs()); err != nil {
		return nil, err
	}

	if err = uow.LoadRepository().Add(ctx, l); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return l, nil
}
