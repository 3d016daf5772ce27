package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
)

var ErrRemoveShipmentFromLoadCommandIsNotConstructed = errors.New(
	"RemoveShipmentFromLoadCommand must be created via NewRemoveShipmentFromLoadCommand constructor",
)

type RemoveShipmentFromLoadCommand struct {
	aggregateTarget
	shipmentID kernel.UUID
}

func NewRemoveShipmentFromLoadCommand(
	loadID, shipmentID kernel.UUID,
	token kernel.ConcurrencyToken,
) (RemoveShipmentFromLoadCommand, error) {
	target, err := newAggregateTarget(loadID, token)
	if err != nil {
		return RemoveShipmentFromLoadCommand{}, err
	}
	if err = shipmentID.Validate(); err != nil {
		return RemoveShipmentFromLoadCommand{}, err
	}

	return RemoveShipmentFromLoadCommand{aggregateTarget: target, shipmentID: shipmentID}, nil
}

func (c RemoveShipmentFromLoadCommand) Validate() error {
	return c.validate(ErrRemoveShipmentFromLoadCommandIsNotConstructed)
}

func (c RemoveShipmentFromLoadCommand) LoadID() kernel.UUID {
	return c.id
}

func (c RemoveShipmentFromLoadCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}
