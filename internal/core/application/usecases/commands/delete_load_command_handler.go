package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/load"
)

// DeleteLoadCommandHandler removes a load that was never booked. The
// load.deleted event is written to the outbox in the same transaction as the
// row removal, and the load's shipments are released.
type DeleteLoadCommandHandler struct {
	uowFactory UoWFactory
}

func NewDeleteLoadCommandHandler(uowFactory UoWFactory) DeleteLoadCommandHandler {
	return DeleteLoadCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h DeleteLoadCommandHandler) Handle(ctx context.Context, cmd DeleteLoadCommand) (*load.Load, error) {
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
	if err = l.MarkDeleted(now); err != nil {
		return nil, err
	}

	if err = releaseShipments(ctx, uow.ShipmentRepository(), now, l.ID(), l.ShipmentIDs()); err != nil {
		return nil, err
	}

	if err = loadRepo.Delete(ctx, l, read); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return l, nil
}
