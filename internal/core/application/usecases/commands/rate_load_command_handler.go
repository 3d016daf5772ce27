package commands

import (
	"context"

	"freight/internal/core/domain/model/load"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// RateLoadCommandHandler returns a carrier quote. The load is not modified.
type RateLoadCommandHandler struct {
	uowFactory LoadUoWFactory
	carriers   ports.CarrierRegistry
}

func NewRateLoadCommandHandler(uowFactory LoadUoWFactory, carriers ports.CarrierRegistry) RateLoadCommandHandler {
	return RateLoadCommandHandler{
		uowFactory: uowFactory,
		carriers:   carriers,
	}
}

func (h RateLoadCommandHandler) Handle(ctx context.Context, cmd RateLoadCommand) (ports.ShippingCost, error) {
	if err := cmd.Validate(); err != nil {
		return ports.ShippingCost{}, err
	}

	l, _, err := peekLoad(ctx, h.uowFactory, cmd.LoadID(), cmd.Token())
	if err != nil {
		return ports.ShippingCost{}, err
	}

	carrierName := cmd.CarrierName()
	if carrierName == "" {
		carrierName = l.CarrierName()
	}
	if carrierName == "" {
		return ports.ShippingCost{}, errs.NewValueIsInvalidErrorWithCause("carrierName", load.ErrCarrierRequired)
	}

	adapter, err := h.carriers.Adapter(carrierName)
	if err != nil {
		return ports.ShippingCost{}, err
	}

	return adapter.RateLoad(ctx, ports.RateRequest{
		LoadID:        l.ID(),
		Reference:     l.Reference(),
		Origin:        l.Origin(),
		Destination:   l.Destination(),
		ShipmentCount: len(l.ShipmentIDs()),
		PickupDate:    l.RequestedPickupDate(),
	})
}
