package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

var ErrDispatchShipmentCommandIsNotConstructed = errors.New(
	"DispatchShipmentCommand must be created via NewDispatchShipmentCommand constructor",
)

// DispatchParams describes the parcel handed to the carrier. A non-empty
// TrackingNumber records a shipment the carrier already accepted, and the
// carrier is not called.
type DispatchParams struct {
	TrackingNumber string
	WeightGrams    int
	Description    string
}

type DispatchShipmentCommand struct {
	aggregateTarget
	params DispatchParams
}

func NewDispatchShipmentCommand(
	shipmentID kernel.UUID,
	params DispatchParams,
	token kernel.ConcurrencyToken,
) (DispatchShipmentCommand, error) {
	target, err := newAggregateTarget(shipmentID, token)
	if err != nil {
		return DispatchShipmentCommand{}, err
	}
	if params.WeightGrams < 0 {
		return DispatchShipmentCommand{}, errs.NewValueIsOutOfRangeError("weightGrams", params.WeightGrams, 0, "∞")
	}

	params.TrackingNumber = strings.TrimSpace(params.TrackingNumber)
	params.Description = strings.TrimSpace(params.Description)
	return DispatchShipmentCommand{aggregateTarget: target, params: params}, nil
}

func (c DispatchShipmentCommand) Validate() error {
	return c.validate(ErrDispatchShipmentCommandIsNotConstructed)
}

func (c DispatchShipmentCommand) ShipmentID() kernel.UUID {
	return c.id
}

func (c DispatchShipmentCommand) Params() DispatchParams {
	return c.params
}
