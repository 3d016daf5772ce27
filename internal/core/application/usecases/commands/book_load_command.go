package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
)

var ErrBookLoadCommandIsNotConstructed = errors.New(
	"BookLoadCommand must be created via NewBookLoadCommand constructor",
)

type BookLoadCommand struct {
	aggregateTarget
}

func NewBookLoadCommand(loadID kernel.UUID, token kernel.ConcurrencyToken) (BookLoadCommand, error) {
	target, err := newAggregateTarget(loadID, token)
	if err != nil {
		return BookLoadCommand{}, err
	}
	return BookLoadCommand{aggregateTarget: target}, nil
}

func (c BookLoadCommand) Validate() error {
	return c.validate(ErrBookLoadCommandIsNotConstructed)
}

func (c BookLoadCommand) LoadID() kernel.UUID {
	return c.id
}
