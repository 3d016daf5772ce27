// Package ports defines the contracts between the freight domain and its
// infrastructure: repositories, the unit of work, carrier adapters and the
// message sink the outbox publisher delivers to.
package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
)

// LoadRepository defines the persistence contract for load aggregates.
type LoadRepository interface {
	// Add persists a new load.
	Add(ctx context.Context, aggregate *load.Load) error

	// Update persists a mutated load, provided the stored row still carries
	// the expected concurrency token. A moved row yields
	// errs.PreconditionFailedError.
	Update(ctx context.Context, aggregate *load.Load, expected kernel.ConcurrencyToken) error

	// Delete removes a load marked as deleted, under the same token rule as Update.
	Delete(ctx context.Context, aggregate *load.Load, expected kernel.ConcurrencyToken) error

	// Get returns errs.ObjectNotFoundError for unknown ids.
	Get(ctx context.Context, id kernel.UUID) (*load.Load, error)
}
