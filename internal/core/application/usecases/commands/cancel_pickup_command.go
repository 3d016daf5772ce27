package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
)

var ErrCancelPickupCommandIsNotConstructed = errors.New(
	"CancelPickupCommand must be created via NewCancelPickupCommand constructor",
)

type CancelPickupCommand struct {
	aggregateTarget
}

func NewCancelPickupCommand(loadID kernel.UUID, token kernel.ConcurrencyToken) (CancelPickupCommand, error) {
	target, err := newAggregateTarget(loadID, token)
	if err != nil {
		return CancelPickupCommand{}, err
	}
	return CancelPickupCommand{aggregateTarget: target}, nil
}

func (c CancelPickupCommand) Validate() error {
	return c.validate(ErrCancelPickupCommandIsNotConstructed)
}

func (c CancelPickupCommand) LoadID() kernel.UUID {
	return c.id
}
