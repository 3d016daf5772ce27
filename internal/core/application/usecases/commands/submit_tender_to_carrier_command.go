package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
)

var ErrSubmitTenderToCarrierCommandIsNotConstructed = errors.New(
	"SubmitTenderToCarrierCommand must be created via NewSubmitTenderToCarrierCommand constructor",
)

type SubmitTenderToCarrierCommand struct {
	aggregateTarget
}

func NewSubmitTenderToCarrierCommand(
	loadID kernel.UUID,
	token kernel.ConcurrencyToken,
) (SubmitTenderToCarrierCommand, error) {
	target, err := newAggregateTarget(loadID, token)
	if err != nil {
		return SubmitTenderToCarrierCommand{}, err
	}
	return SubmitTenderToCarrierCommand{aggregateTarget: target}, nil
}

func (c SubmitTenderToCarrierCommand) Validate() error {
	return c.validate(ErrSubmitTenderToCarrierCommandIsNotConstructed)
}

func (c SubmitTenderToCarrierCommand) LoadID() kernel.UUID {
	return c.id
}
