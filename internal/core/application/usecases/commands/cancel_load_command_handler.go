package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/load"
)

// CancelLoadCommandHandler cancels a non-terminal load and releases its
// shipments so they can be planned onto another load.
type CancelLoadCommandHandler struct {
	uowFactory UoWFactory
}

func NewCancelLoadCommandHandler(uowFactory UoWFactory) CancelLoadCommandHandler {
	return CancelLoadCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h CancelLoadCommandHandler) Handle(ctx context.Context, cmd CancelLoadCommand) (*load.Load, error) {
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
	if err = l.Cancel(now, cmd.Reason()); err != nil {
		return nil, err
	}

	if err = releaseShipments(ctx, uow.ShipmentRepository(), now, l.ID(), l.ShipmentIDs()); err != nil {
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
