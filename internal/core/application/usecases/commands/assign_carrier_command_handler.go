package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/load"
	"freight/internal/core/ports"
)

// AssignCarrierCommandHandler sets the carrier of a PLANNED load. Only
// carriers with a registered adapter can be assigned, so every later tender,
// pickup and tracking call has somewhere to go.
type AssignCarrierCommandHandler struct {
	uowFactory LoadUoWFactory
	carriers   ports.CarrierRegistry
}

func NewAssignCarrierCommandHandler(uowFactory LoadUoWFactory, carriers ports.CarrierRegistry) AssignCarrierCommandHandler {
	return AssignCarrierCommandHandler{
		uowFactory: uowFactory,
		carriers:   carriers,
	}
}

func (h AssignCarrierCommandHandler) Handle(ctx context.Context, cmd AssignCarrierCommand) (*load.Load, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if _, err := h.carriers.Adapter(cmd.CarrierName()); err != nil {
		return nil, err
	}

	return mutateLoad(ctx, h.uowFactory, cmd.LoadID(), cmd.Token(), func(now time.Time, l *load.Load) error {
		return l.AssignCarrier(now, cmd.CarrierName())
	})
}
