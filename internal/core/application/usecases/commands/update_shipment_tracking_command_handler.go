package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/shipment"
)

// UpdateShipmentTrackingCommandHandler merges tracking scans into a shipment.
// An update that adds nothing new is not written.
type UpdateShipmentTrackingCommandHandler struct {
	uowFactory ShipmentUoWFactory
}

func NewUpdateShipmentTrackingCommandHandler(uowFactory ShipmentUoWFactory) UpdateShipmentTrackingCommandHandler {
	return UpdateShipmentTrackingCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h UpdateShipmentTrackingCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateShipmentTrackingCommand,
) (*shipment.Shipment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateShipment(ctx, h.uowFactory, cmd.ShipmentID(), cmd.Token(),
		func(now time.Time, s *shipment.Shipment) (bool, error) {
			return s.ApplyTrackingUpdate(now, cmd.Events(), cmd.Outcome())
		})
}
