package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/outbox"
)

// ReplayDeadLetterCommandHandler re-enqueues a FAILED outbox row as a new
// PENDING row. The dead letter is kept unchanged.
type ReplayDeadLetterCommandHandler struct {
	uowFactory OutboxUoWFactory
}

func NewReplayDeadLetterCommandHandler(uowFactory OutboxUoWFactory) ReplayDeadLetterCommandHandler {
	return ReplayDeadLetterCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h ReplayDeadLetterCommandHandler) Handle(ctx context.Context, cmd ReplayDeadLetterCommand) (*outbox.Event, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outboxRepo := uow.OutboxRepository()
	deadLetter, err := outboxRepo.Get(ctx, cmd.EventID())
	if err != nil {
		return nil, err
	}

	replayed, err := deadLetter.Replay(time.Now())
	if err != nil {
		return nil, err
	}

	if err = outboxRepo.Add(ctx, replayed); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return replayed, nil
}
