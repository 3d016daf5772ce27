package commands

import (
	"context"
	"errors"
	"time"

	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// DispatchShipmentCommandHandler registers a CREATED shipment with its
// carrier and stores the returned tracking number. The route is taken from
// the load the shipment is on, if any.
type DispatchShipmentCommandHandler struct {
	uowFactory UoWFactory
	carriers   ports.CarrierRegistry
}

func NewDispatchShipmentCommandHandler(
	uowFactory UoWFactory,
	carriers ports.CarrierRegistry,
) DispatchShipmentCommandHandler {
	return DispatchShipmentCommandHandler{
		uowFactory: uowFactory,
		carriers:   carriers,
	}
}

func (h DispatchShipmentCommandHandler) Handle(
	ctx context.Context,
	cmd DispatchShipmentCommand,
) (*shipment.Shipment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	s, read, err := readShipment(ctx, uow.ShipmentRepository(), cmd.ShipmentID(), cmd.Token())
	if err != nil {
		return nil, err
	}
	if s.Status() != shipment.Created {
		return nil, errs.NewInvalidStateTransitionError(s.Status().String(), "dispatch")
	}

	trackingNumber := cmd.Params().TrackingNumber
	if trackingNumber == "" {
		trackingNumber, err = h.register(ctx, uow, s, cmd.Params())
		if err != nil {
			return nil, err
		}
	}

	return mutateShipment(ctx, shipmentUoWs{h.uowFactory}, s.ID(), read,
		func(now time.Time, s *shipment.Shipment) (bool, error) {
			return always(s.Dispatch(now, trackingNumber))
		})
}

func (h DispatchShipmentCommandHandler) register(
	ctx context.Context,
	uow UoW,
	s *shipment.Shipment,
	params DispatchParams,
) (string, error) {
	adapter, err := h.carriers.Adapter(s.CarrierName())
	if err != nil {
		return "", err
	}

	pkg := ports.Package{
		ShipmentID:  s.ID(),
		OrderID:     s.OrderID(),
		WeightGrams: params.WeightGrams,
		Description: params.Description,
	}
	if s.IsAssignedToLoad() {
		l, err := uow.LoadRepository().Get(ctx, s.AssignedLoadID())
		switch {
		case err == nil:
			pkg.Origin = l.Origin()
			pkg.Destination = l.Destination()
		case !errors.Is(err, errs.ErrObjectNotFound):
			return "", err
		}
	}

	return adapter.CreateShipment(ctx, pkg)
}

// shipmentUoWs narrows a UoWFactory for the shipment-only helpers.
type shipmentUoWs struct {
	factory UoWFactory
}

func (f shipmentUoWs) Create() ShipmentUoW {
	return f.factory.Create()
}
