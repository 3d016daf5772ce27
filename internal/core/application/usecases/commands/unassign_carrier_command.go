package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
)

var ErrUnassignCarrierCommandIsNotConstructed = errors.New(
	"UnassignCarrierCommand must be created via NewUnassignCarrierCommand constructor",
)

type UnassignCarrierCommand struct {
	aggregateTarget
}

func NewUnassignCarrierCommand(loadID kernel.UUID, token kernel.ConcurrencyToken) (UnassignCarrierCommand, error) {
	target, err := newAggregateTarget(loadID, token)
	if err != nil {
		return UnassignCarrierCommand{}, err
	}
	return UnassignCarrierCommand{aggregateTarget: target}, nil
}

func (c UnassignCarrierCommand) Validate() error {
	return c.validate(ErrUnassignCarrierCommandIsNotConstructed)
}

func (c UnassignCarrierCommand) LoadID() kernel.UUID {
	return c.id
}
