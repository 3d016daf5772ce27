package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
)

var ErrCancelTenderCommandIsNotConstructed = errors.New(
	"CancelTenderCommand must be created via NewCancelTenderCommand constructor",
)

type CancelTenderCommand struct {
	aggregateTarget
}

func NewCancelTenderCommand(loadID kernel.UUID, token kernel.ConcurrencyToken) (CancelTenderCommand, error) {
	target, err := newAggregateTarget(loadID, token)
	if err != nil {
		return CancelTenderCommand{}, err
	}
	return CancelTenderCommand{aggregateTarget: target}, nil
}

func (c CancelTenderCommand) Validate() error {
	return c.validate(ErrCancelTenderCommandIsNotConstructed)
}

func (c CancelTenderCommand) LoadID() kernel.UUID {
	return c.id
}
