package commands

import (
	"context"
	"fmt"
	"time"

	"freight/internal/core/domain/model/load"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// SubmitTenderToCarrierCommandHandler sends a PENDING tender to the carrier
// and records the carrier's synchronous answer as the tender decision.
//
// The carrier is called outside the transaction. The decision is then stored
// against the version read before the call, so a load changed meanwhile fails
// with a PreconditionFailedError instead of being overwritten.
type SubmitTenderToCarrierCommandHandler struct {
	uowFactory LoadUoWFactory
	carriers   ports.CarrierRegistry
}

func NewSubmitTenderToCarrierCommandHandler(
	uowFactory LoadUoWFactory,
	carriers ports.CarrierRegistry,
) SubmitTenderToCarrierCommandHandler {
	return SubmitTenderToCarrierCommandHandler{
		uowFactory: uowFactory,
		carriers:   carriers,
	}
}

func (h SubmitTenderToCarrierCommandHandler) Handle(
	ctx context.Context,
	cmd SubmitTenderToCarrierCommand,
) (*load.Load, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	l, read, err := peekLoad(ctx, h.uowFactory, cmd.LoadID(), cmd.Token())
	if err != nil {
		return nil, err
	}

	tender := l.TenderDetails()
	offer, ok := tender.Offer()
	if !ok || tender.Status() != load.TenderStatusPending {
		return nil, errs.NewInvalidStateTransitionError(
			fmt.Sprintf("%s/%s", l.Status(), tender.Status()), "submit tender to carrier")
	}

	adapter, err := h.carriers.Adapter(l.CarrierName())
	if err != nil {
		return nil, err
	}

	result, err := adapter.TenderLoad(ctx, ports.TenderRequest{
		LoadID:      l.ID(),
		Reference:   l.Reference(),
		Origin:      l.Origin(),
		Destination: l.Destination(),
		PickupDate:  l.RequestedPickupDate(),
		ExpiresAt:   offer.ExpiresAt,
		Notes:       offer.Notes,
	})
	if err != nil {
		return nil, err
	}

	decision := load.DecisionDeclined
	if result.Accepted {
		decision = load.DecisionAccepted
	}

	return mutateLoad(ctx, h.uowFactory, l.ID(), read, func(now time.Time, l *load.Load) error {
		return l.RecordTenderDecision(now, decision, adapter.Name(), result.Reason)
	})
}
