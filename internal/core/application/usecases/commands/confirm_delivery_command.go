package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

type ConfirmDeliveryCommand struct {
	aggregateTarget
}

func NewConfirmDeliveryCommand(loadID kernel.UUID, token kernel.ConcurrencyToken) (ConfirmDeliveryCommand, error) {
	target, err := newAggregateTarget(loadID, token)
	if err != nil {
		return ConfirmDeliveryCommand{}, err
	}
	return ConfirmDeliveryCommand{aggregateTarget: target}, nil
}

func (c ConfirmDeliveryCommand) Validate() error {
	return c.validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

func (c ConfirmDeliveryCommand) LoadID() kernel.UUID {
	return c.id
}
