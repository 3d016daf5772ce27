package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/load"
)

// AddShipmentsToLoadCommandHandler extends a PLANNED load and assigns the new
// shipments to it atomically.
type AddShipmentsToLoadCommandHandler struct {
	uowFactory UoWFactory
}

func NewAddShipmentsToLoadCommandHandler(uowFactory UoWFactory) AddShipmentsToLoadCommandHandler {
	return AddShipmentsToLoadCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h AddShipmentsToLoadCommandHandler) Handle(ctx context.Context, cmd AddShipmentsToLoadCommand) (*load.Load, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	loadRepo := uow.LoadRepository()
	l, read, err := readLoad(ctx, loadRepo, cmd.LoadID(), cmd.Token())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err = l.AddShipments(now, cmd.ShipmentIDs()); err != nil {
		return nil, err
	}

	if err = assignShipments(ctx, uow.ShipmentRepository(), now, l.ID(), cmd.ShipmentIDs()); err != nil {
		return nil, err
	}

	if err = loadRepo.Update(ctx, l, read); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return l, nil
}
