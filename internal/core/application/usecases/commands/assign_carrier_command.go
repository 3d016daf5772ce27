package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

var ErrAssignCarrierCommandIsNotConstructed = errors.New(
	"AssignCarrierCommand must be created via NewAssignCarrierCommand constructor",
)

type AssignCarrierCommand struct {
	aggregateTarget
	carrierName string
}

func NewAssignCarrierCommand(
	loadID kernel.UUID,
	carrierName string,
	token kernel.ConcurrencyToken,
) (AssignCarrierCommand, error) {
	target, err := newAggregateTarget(loadID, token)
	if err != nil {
		return AssignCarrierCommand{}, err
	}

	name := kernel.NormalizeCarrierName(carrierName)
	if name == "" {
		return AssignCarrierCommand{}, errs.NewValueIsRequiredError("carrierName")
	}

	return AssignCarrierCommand{aggregateTarget: target, carrierName: name}, nil
}

func (c AssignCarrierCommand) Validate() error {
	return c.validate(ErrAssignCarrierCommandIsNotConstructed)
}

func (c AssignCarrierCommand) LoadID() kernel.UUID {
	return c.id
}

// CarrierName is the normalized carrier name.
func (c AssignCarrierCommand) CarrierName() string {
	return c.carrierName
}
