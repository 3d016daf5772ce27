package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

const DefaultDeadLetterLimit = 100

var ErrListDeadLettersQueryIsNotConstructed = errors.New(
	"ListDeadLettersQuery must be created via NewListDeadLettersQuery constructor",
)

// ListDeadLettersQuery lists FAILED outbox rows, most recent attempt first.
type ListDeadLettersQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewListDeadLettersQuery uses DefaultDeadLetterLimit when limit is zero.
func NewListDeadLettersQuery(limit int) (ListDeadLettersQuery, error) {
	if limit == 0 {
		limit = DefaultDeadLetterLimit
	}
	if limit < 0 {
		return ListDeadLettersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "∞")
	}
	return ListDeadLettersQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q ListDeadLettersQuery) Validate() error {
	return q.guard.Validate(ErrListDeadLettersQueryIsNotConstructed)
}

func (q ListDeadLettersQuery) Limit() int {
	return q.limit
}

type ListDeadLettersQueryResponse struct {
	ID            kernel.UUID
	AggregateID   kernel.UUID
	AggregateType string
	EventType     string
	Destination   string
	AttemptCount  int
	ErrorMessage  string
	CreatedAt     time.Time
	LastAttemptAt *time.Time
}
