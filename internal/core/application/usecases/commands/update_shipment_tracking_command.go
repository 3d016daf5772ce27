package commands

import (
	"errors"
	"slices"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/errs"
)

var ErrUpdateShipmentTrackingCommandIsNotConstructed = errors.New(
	"UpdateShipmentTrackingCommand must be created via NewUpdateShipmentTrackingCommand constructor",
)

// UpdateShipmentTrackingCommand applies a tracking update pushed by a carrier
// or an operator.
type UpdateShipmentTrackingCommand struct {
	aggregateTarget
	events  []shipment.TrackingEvent
	outcome shipment.TrackingOutcome
}

func NewUpdateShipmentTrackingCommand(
	shipmentID kernel.UUID,
	events []shipment.TrackingEvent,
	outcome shipment.TrackingOutcome,
	token kernel.ConcurrencyToken,
) (UpdateShipmentTrackingCommand, error) {
	target, err := newAggregateTarget(shipmentID, token)
	if err != nil {
		return UpdateShipmentTrackingCommand{}, err
	}
	if outcome == shipment.OutcomeUnknown {
		return UpdateShipmentTrackingCommand{}, errs.NewValueIsRequiredError("outcome")
	}
	for _, e := range events {
		if e.OccurredAt.IsZero() {
			return UpdateShipmentTrackingCommand{}, errs.NewValueIsRequiredError("occurredAt")
		}
	}

	return UpdateShipmentTrackingCommand{
		aggregateTarget: target,
		events:          slices.Clone(events),
		outcome:         outcome,
	}, nil
}

func (c UpdateShipmentTrackingCommand) Validate() error {
	return c.validate(ErrUpdateShipmentTrackingCommandIsNotConstructed)
}

func (c UpdateShipmentTrackingCommand) ShipmentID() kernel.UUID           { return c.id }
func (c UpdateShipmentTrackingCommand) Outcome() shipment.TrackingOutcome { return c.outcome }

func (c UpdateShipmentTrackingCommand) Events() []shipment.TrackingEvent {
	return slices.Clone(c.events)
}
