package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
)

var ErrDeleteLoadCommandIsNotConstructed = errors.New(
	"DeleteLoadCommand must be created via NewDeleteLoadCommand constructor",
)

type DeleteLoadCommand struct {
	aggregateTarget
}

func NewDeleteLoadCommand(loadID kernel.UUID, token kernel.ConcurrencyToken) (DeleteLoadCommand, error) {
	target, err := newAggregateTarget(loadID, token)
	if err != nil {
		return DeleteLoadCommand{}, err
	}
	return DeleteLoadCommand{aggregateTarget: target}, nil
}

func (c DeleteLoadCommand) Validate() error {
	return c.validate(ErrDeleteLoadCommandIsNotConstructed)
}

func (c DeleteLoadCommand) LoadID() kernel.UUID {
	return c.id
}
