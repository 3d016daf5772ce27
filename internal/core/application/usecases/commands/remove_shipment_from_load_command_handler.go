package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
)

// RemoveShipmentFromLoadCommandHandler drops a shipment from a PLANNED load
// and releases the shipment in the same transaction.
type RemoveShipmentFromLoadCommandHandler struct {
	uowFactory UoWFactory
}

func NewRemoveShipmentFromLoadCommandHandler(uowFactory UoWFactory) RemoveShipmentFromLoadCommandHandler {
	return RemoveShipmentFromLoadCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h RemoveShipmentFromLoadCommandHandler) Handle(
	ctx context.Context,
	cmd RemoveShipmentFromLoadCommand,
) (*load.Load, error) {
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
	if err = l.RemoveShipment(now, cmd.ShipmentID()); err != nil {
		return nil, err
	}

	err = releaseShipments(ctx, uow.ShipmentRepository(), now, l.ID(), []kernel.UUID{cmd.ShipmentID()})
	if err != nil {
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
