package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for shipment aggregates.
type ShipmentRepository interface {
	// Add persists a new shipment. A second shipment for the same order fails
	// with errs.ObjectAlreadyExistsError.
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update persists a mutated shipment if its stored token still equals expected.
	Update(ctx context.Context, aggregate *shipment.Shipment, expected kernel.ConcurrencyToken) error

	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// GetByOrderID looks a shipment up by its idempotency key.
	GetByOrderID(ctx context.Context, orderID string) (*shipment.Shipment, error)

	// ListTracked pages through DISPATCHED and IN_TRANSIT shipments ordered by
	// id, starting after the given id. The zero UUID starts from the beginning.
	ListTracked(ctx context.Context, after kernel.UUID, limit int) ([]*shipment.Shipment, error)
}
