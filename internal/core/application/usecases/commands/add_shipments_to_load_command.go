package commands

import (
	"errors"
	"slices"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

var ErrAddShipmentsToLoadCommandIsNotConstructed = errors.New(
	"AddShipmentsToLoadCommand must be created via NewAddShipmentsToLoadCommand constructor",
)

type AddShipmentsToLoadCommand struct {
	aggregateTarget
	shipmentIDs []kernel.UUID
}

func NewAddShipmentsToLoadCommand(
	loadID kernel.UUID,
	shipmentIDs []kernel.UUID,
	token kernel.ConcurrencyToken,
) (AddShipmentsToLoadCommand, error) {
	target, err := newAggregateTarget(loadID, token)
	if err != nil {
		return AddShipmentsToLoadCommand{}, err
	}
	if len(shipmentIDs) == 0 {
		return AddShipmentsToLoadCommand{}, errs.NewValueIsRequiredError("shipmentIDs")
	}

	return AddShipmentsToLoadCommand{aggregateTarget: target, shipmentIDs: slices.Clone(shipmentIDs)}, nil
}

func (c AddShipmentsToLoadCommand) Validate() error {
	return c.validate(ErrAddShipmentsToLoadCommandIsNotConstructed)
}

func (c AddShipmentsToLoadCommand) LoadID() kernel.UUID {
	return c.id
}

func (c AddShipmentsToLoadCommand) ShipmentIDs() []kernel.UUID {
	return slices.Clone(c.shipmentIDs)
}
