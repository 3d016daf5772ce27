package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
)

var ErrShipLoadCommandIsNotConstructed = errors.New(
	"ShipLoadCommand must be created via NewShipLoadCommand constructor",
)

type ShipLoadCommand struct {
	aggregateTarget
}

func NewShipLoadCommand(loadID kernel.UUID, token kernel.ConcurrencyToken) (ShipLoadCommand, error) {
	target, err := newAggregateTarget(loadID, token)
	if err != nil {
		return ShipLoadCommand{}, err
	}
	return ShipLoadCommand{aggregateTarget: target}, nil
}

func (c ShipLoadCommand) Validate() error {
	return c.validate(ErrShipLoadCommandIsNotConstructed)
}

func (c ShipLoadCommand) LoadID() kernel.UUID {
	return c.id
}
