package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/load"
)

// CancelTenderCommandHandler withdraws a pending tender; the load keeps its carrier.
type CancelTenderCommandHandler struct {
	uowFactory LoadUoWFactory
}

func NewCancelTenderCommandHandler(uowFactory LoadUoWFactory) CancelTenderCommandHandler {
	return CancelTenderCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h CancelTenderCommandHandler) Handle(ctx context.Context, cmd CancelTenderCommand) (*load.Load, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateLoad(ctx, h.uowFactory, cmd.LoadID(), cmd.Token(), func(now time.Time, l *load.Load) error {
		return l.CancelTender(now)
	})
}
