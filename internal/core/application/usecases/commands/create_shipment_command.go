package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrCreateShipmentCommandIsNotConstructed = errors.New(
	"CreateShipmentCommand must be created via NewCreateShipmentCommand constructor",
)

// CreateShipmentCommand registers the shipment of an order. The order id is
// the idempotency key.
type CreateShipmentCommand struct { //nolint:recvcheck //using for validation
	orderID     string
	carrierName string

	guard guard.ConstructorGuard
}

func NewCreateShipmentCommand(orderID, carrierName string) (CreateShipmentCommand, error) {
	cmd := CreateShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCarrierName(carrierName),
	); err != nil {
		return CreateShipmentCommand{}, err
	}

	return cmd, nil
}

func (c CreateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateShipmentCommandIsNotConstructed)
}

func (c CreateShipmentCommand) OrderID() string {
	return c.orderID
}

func (c CreateShipmentCommand) CarrierName() string {
	return c.carrierName
}

func (c *CreateShipmentCommand) setOrderID(orderID string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return errs.NewValueIsRequiredError("orderID")
	}

	c.orderID = orderID
	return nil
}

func (c *CreateShipmentCommand) setCarrierName(carrierName string) error {
	name := kernel.NormalizeCarrierName(carrierName)
	if name == "" {
		return errs.NewValueIsRequiredError("carrierName")
	}

	c.carrierName = name
	return nil
}
