package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
)

var ErrRateLoadCommandIsNotConstructed = errors.New(
	"RateLoadCommand must be created via NewRateLoadCommand constructor",
)

// RateLoadCommand asks a carrier to quote a load. With an empty carrier name
// the load's assigned carrier is asked.
type RateLoadCommand struct {
	aggregateTarget
	carrierName string
}

func NewRateLoadCommand(loadID kernel.UUID, carrierName string) (RateLoadCommand, error) {
	target, err := newAggregateTarget(loadID, kernel.ConcurrencyToken{})
	if err != nil {
		return RateLoadCommand{}, err
	}
	return RateLoadCommand{aggregateTarget: target, carrierName: kernel.NormalizeCarrierName(carrierName)}, nil
}

func (c RateLoadCommand) Validate() error {
	return c.validate(ErrRateLoadCommandIsNotConstructed)
}

func (c RateLoadCommand) LoadID() kernel.UUID {
	return c.id
}

func (c RateLoadCommand) CarrierName() string {
	return c.carrierName
}
