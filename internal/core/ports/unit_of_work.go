package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Aggregates written through
// its repositories have their recorded domain events stored as outbox rows by
// Commit, inside the same transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit appends the outbox rows of every tracked aggregate, then commits.
	Commit(ctx context.Context) error

	Rollback(ctx context.Context) error

	LoadRepository() LoadRepository
	ShipmentRepository() ShipmentRepository
	OutboxRepository() OutboxRepository
}
