package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
)

var ErrCancelLoadCommandIsNotConstructed = errors.New(
	"CancelLoadCommand must be created via NewCancelLoadCommand constructor",
)

type CancelLoadCommand struct {
	aggregateTarget
	reason string
}

func NewCancelLoadCommand(loadID kernel.UUID, reason string, token kernel.ConcurrencyToken) (CancelLoadCommand, error) {
	target, err := newAggregateTarget(loadID, token)
	if err != nil {
		return CancelLoadCommand{}, err
	}
	return CancelLoadCommand{aggregateTarget: target, reason: strings.TrimSpace(reason)}, nil
}

func (c CancelLoadCommand) Validate() error {
	return c.validate(ErrCancelLoadCommandIsNotConstructed)
}

func (c CancelLoadCommand) LoadID() kernel.UUID {
	return c.id
}

func (c CancelLoadCommand) Reason() string {
	return c.reason
}
