package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrReplayDeadLetterCommandIsNotConstructed = errors.New(
	"ReplayDeadLetterCommand must be created via NewReplayDeadLetterCommand constructor",
)

type ReplayDeadLetterCommand struct {
	eventID kernel.UUID

	guard guard.ConstructorGuard
}

func NewReplayDeadLetterCommand(eventID kernel.UUID) (ReplayDeadLetterCommand, error) {
	if err := eventID.Validate(); err != nil {
		return ReplayDeadLetterCommand{}, err
	}
	return ReplayDeadLetterCommand{eventID: eventID, guard: guard.NewConstructorGuard()}, nil
}

func (c ReplayDeadLetterCommand) Validate() error {
	return c.guard.Validate(ErrReplayDeadLetterCommandIsNotConstructed)
}

func (c ReplayDeadLetterCommand) EventID() kernel.UUID {
	return c.eventID
}
