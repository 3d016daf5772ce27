package commands

import (
	"errors"
	"slices"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrCreateLoadCommandIsNotConstructed = errors.New(
	"CreateLoadCommand must be created via NewCreateLoadCommand constructor",
)

// CreateLoadCommand plans a new load over existing shipments.
type CreateLoadCommand struct { //nolint:recvcheck //using for validation
	params load.Params

	guard guard.ConstructorGuard
}

func NewCreateLoadCommand(params load.Params) (CreateLoadCommand, error) {
	cmd := CreateLoadCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setReference(params.Reference),
		cmd.setShipmentIDs(params.ShipmentIDs),
	); err != nil {
		return CreateLoadCommand{}, err
	}

	cmd.params.Origin = params.Origin
	cmd.params.Destination = params.Destination
	cmd.params.RequestedPickupDate = params.RequestedPickupDate
	cmd.params.RequestedDeliveryDate = params.RequestedDeliveryDate
	cmd.params.Notes = params.Notes
	return cmd, nil
}

func (c CreateLoadCommand) Validate() error {
	return c.guard.Validate(ErrCreateLoadCommandIsNotConstructed)
}

func (c CreateLoadCommand) Reference() string {
	return c.params.Reference
}

func (c CreateLoadCommand) ShipmentIDs() []kernel.UUID {
	return slices.Clone(c.params.ShipmentIDs)
}

func (c CreateLoadCommand) RequestedPickupDate() time.Time {
	return c.params.RequestedPickupDate
}

// Params returns the fields for load.NewLoad.
func (c CreateLoadCommand) Params() load.Params {
	p := c.params
	p.ShipmentIDs = c.ShipmentIDs()
	return p
}

func (c *CreateLoadCommand) setReference(reference string) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return errs.NewValueIsRequiredError("reference")
	}

	c.params.Reference = reference
	return nil
}

func (c *CreateLoadCommand) setShipmentIDs(ids []kernel.UUID) error {
	if len(ids) == 0 {
		return errs.NewValueIsRequiredError("shipmentIDs")
	}
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	c.params.ShipmentIDs = slices.Clone(ids)
	return nil
}
