package commands

import (
	"context"
	"errors"
	"time"

	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// CreateShipmentCommandHandler creates the shipment of an order exactly once.
// Repeating the command returns the stored shipment and writes nothing; when
// two callers race, the unique order id lets one insert win and the other
// reads the winner's row.
type CreateShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	carriers   ports.CarrierRegistry
}

func NewCreateShipmentCommandHandler(
	uowFactory ShipmentUoWFactory,
	carriers ports.CarrierRegistry,
) CreateShipmentCommandHandler {
	return CreateShipmentCommandHandler{
		uowFactory: uowFactory,
		carriers:   carriers,
	}
}

// Handle returns the shipment and whether this call created it.
func (h CreateShipmentCommandHandler) Handle(
	ctx context.Context,
	cmd CreateShipmentCommand,
) (*shipment.Shipment, bool, error) {
	if err := cmd.Validate(); err != nil {
		return nil, false, err
	}

	existing, err := h.uowFactory.Create().ShipmentRepository().GetByOrderID(ctx, cmd.OrderID())
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, err
	}

	if _, err = h.carriers.Adapter(cmd.CarrierName()); err != nil {
		return nil, false, err
	}

	s, err := h.insert(ctx, cmd)
	if errors.Is(err, errs.ErrObjectAlreadyExists) {
		existing, err = h.uowFactory.Create().ShipmentRepository().GetByOrderID(ctx, cmd.OrderID())
		return existing, false, err
	}
	if err != nil {
		return nil, false, err
	}

	return s, true, nil
}

func (h CreateShipmentCommandHandler) insert(ctx context.Context, cmd CreateShipmentCommand) (*shipment.Shipment, error) {
	s, err := shipment.NewShipment(time.Now(), cmd.OrderID(), cmd.CarrierName())
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

	if err = uow.ShipmentRepository().Add(ctx, s); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return s, nil
}
