package postgres

import (
	"fmt"

	"freight/internal/adapters/out/postgres/loadrepo"
	"freight/internal/adapters/out/postgres/outboxrepo"
	"freight/internal/adapters/out/postgres/shipmentrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the loads, shipments and outbox_events tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&loadrepo.LoadDTO{},
		&shipmentrepo.ShipmentDTO{},
		&outboxrepo.OutboxEventDTO{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
