package commands

import (
	"errors"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

var ErrSchedulePickupCommandIsNotConstructed = errors.New(
	"SchedulePickupCommand must be created via NewSchedulePickupCommand constructor",
)

// PickupParams describes the requested appointment. A zero Location means the
// load's origin.
type PickupParams struct {
	RequestedFor time.Time
	Location     kernel.Location
	ContactName  string
	ContactPhone string
	Instructions string
}

type SchedulePickupCommand struct {
	aggregateTarget
	params      PickupParams
	hasLocation bool
}

func NewSchedulePickupCommand(
	loadID kernel.UUID,
	params PickupParams,
	token kernel.ConcurrencyToken,
) (SchedulePickupCommand, error) {
	target, err := newAggregateTarget(loadID, token)
	if err != nil {
		return SchedulePickupCommand{}, err
	}
	if params.RequestedFor.IsZero() {
		return SchedulePickupCommand{}, errs.NewValueIsRequiredError("requestedFor")
	}

	params.RequestedFor = params.RequestedFor.UTC()
	params.ContactName = strings.TrimSpace(params.ContactName)
	params.ContactPhone = strings.TrimSpace(params.ContactPhone)
	params.Instructions = strings.TrimSpace(params.Instructions)
	return SchedulePickupCommand{
		aggregateTarget: target,
		params:          params,
		hasLocation:     params.Location.Validate() == nil,
	}, nil
}

func (c SchedulePickupCommand) Validate() error {
	return c.validate(ErrSchedulePickupCommandIsNotConstructed)
}

func (c SchedulePickupCommand) LoadID() kernel.UUID {
	return c.id
}

func (c SchedulePickupCommand) Params() PickupParams {
	return c.params
}

// Location returns the requested pickup location, or false when the load's
// origin should be used.
func (c SchedulePickupCommand) Location() (kernel.Location, bool) {
	return c.params.Location, c.hasLocation
}
