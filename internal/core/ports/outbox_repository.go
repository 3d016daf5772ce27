package ports

import (
	"context"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/outbox"
)

// OutboxRepository stores outbox rows and hands them out to publishers.
type OutboxRepository interface {
	// Add inserts a new row.
	Add(ctx context.Context, event *outbox.Event) error

	// Get returns errs.ObjectNotFoundError for unknown ids.
	Get(ctx context.Context, id kernel.UUID) (*outbox.Event, error)

	// Claim leases up to limit PENDING rows that are due at now and not leased
	// by a live publisher, oldest first. Rows leased by one owner are skipped
	// by every other owner until the lease expires.
	Claim(ctx context.Context, owner string, now time.Time, lease time.Duration, limit int) ([]*outbox.Event, error)

	// SaveOutcome writes a delivery outcome for a row the owner still holds.
	// A row that is no longer PENDING or was re-claimed by another owner
	// yields errs.PreconditionFailedError.
	SaveOutcome(ctx context.Context, event *outbox.Event, owner string) error
}
