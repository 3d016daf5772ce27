package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/load"
)

// RecordTenderDecisionCommandHandler stores a carrier's answer received out of
// band, for example by phone or EDI.
type RecordTenderDecisionCommandHandler struct {
	uowFactory LoadUoWFactory
}

func NewRecordTenderDecisionCommandHandler(uowFactory LoadUoWFactory) RecordTenderDecisionCommandHandler {
	return RecordTenderDecisionCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h RecordTenderDecisionCommandHandler) Handle(
	ctx context.Context,
	cmd RecordTenderDecisionCommand,
) (*load.Load, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateLoad(ctx, h.uowFactory, cmd.LoadID(), cmd.Token(), func(now time.Time, l *load.Load) error {
		return l.RecordTenderDecision(now, cmd.Decision(), cmd.RespondedBy(), cmd.Reason())
	})
}
