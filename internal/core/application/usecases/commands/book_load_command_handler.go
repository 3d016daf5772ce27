package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/load"
)

type BookLoadCommandHandler struct {
	uowFactory LoadUoWFactory
}

func NewBookLoadCommandHandler(uowFactory LoadUoWFactory) BookLoadCommandHandler {
	return BookLoadCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h BookLoadCommandHandler) Handle(ctx context.Context, cmd BookLoadCommand) (*load.Load, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateLoad(ctx, h.uowFactory, cmd.LoadID(), cmd.Token(), func(now time.Time, l *load.Load) error {
		return l.Book(now)
	})
}
