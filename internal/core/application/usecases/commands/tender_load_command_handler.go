package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/load"
)

// TenderLoadCommandHandler offers a load to its assigned carrier. The offer
// stays PENDING until a decision is recorded or the carrier answers through
// SubmitTenderToCarrierCommandHandler.
type TenderLoadCommandHandler struct {
	uowFactory LoadUoWFactory
}

func NewTenderLoadCommandHandler(uowFactory LoadUoWFactory) TenderLoadCommandHandler {
	return TenderLoadCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h TenderLoadCommandHandler) Handle(ctx context.Context, cmd TenderLoadCommand) (*load.Load, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateLoad(ctx, h.uowFactory, cmd.LoadID(), cmd.Token(), func(now time.Time, l *load.Load) error {
		return l.Tender(now, cmd.ExpiresAt(), cmd.Notes())
	})
}
