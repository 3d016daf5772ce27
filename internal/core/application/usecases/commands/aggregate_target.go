package commands

import (
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

// aggregateTarget is the part every mutating command shares: the aggregate it
// addresses and the optional token the caller last saw. A zero token skips the
// check.
type aggregateTarget struct { //nolint:recvcheck //using for validation
	id    kernel.UUID
	token kernel.ConcurrencyToken

	guard guard.ConstructorGuard
}

func newAggregateTarget(id kernel.UUID, token kernel.ConcurrencyToken) (aggregateTarget, error) {
	if err := id.Validate(); err != nil {
		return aggregateTarget{}, err
	}
	return aggregateTarget{id: id, token: token, guard: guard.NewConstructorGuard()}, nil
}

func (t aggregateTarget) validate(notConstructed error) error {
	return t.guard.Validate(notConstructed)
}

// Token returns the caller's concurrency token.
func (t aggregateTarget) Token() kernel.ConcurrencyToken {
	return t.token
}
