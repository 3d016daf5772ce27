// Package postgres provides the GORM-based Unit of Work and the transactional
// outbox. Repositories obtained from a unit of work register every aggregate
// they write; Commit turns the domain events those aggregates recorded into
// outbox_events rows in the same transaction, so an aggregate change and its
// events are stored together or not at all.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	l, err := uow.LoadRepository().Get(ctx, id)
//	...
//	if err := uow.LoadRepository().Update(ctx, l, token); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
package postgres

import (
	"context"
	"fmt"

	"freight/internal/adapters/out/postgres/loadrepo"
	"freight/internal/adapters/out/postgres/outboxrepo"
	"freight/internal/adapters/out/postgres/shipmentrepo"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/outbox"
	"freight/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work whose
// domain events still have to reach the outbox.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate kernel.EventSource
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection
// pool and one outbox routing table.
type GormUnitOfWorkFactory struct {
	db     *gorm.DB
	router outbox.Router
}

func NewGormUnitOfWorkFactory(db *gorm.DB, router outbox.Router) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, router: router}
}

// Create produces a new UnitOfWork with its own transaction state.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		router:            f.router,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction. Repositories used
// before Begin execute directly on the pool.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	router            outbox.Router
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it again while a transaction is open
// is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit writes the outbox rows for all events recorded by tracked
// aggregates and commits. The aggregates' event buffers are cleared only
// after a successful commit; on failure the transaction is rolled back.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	if err := uow.appendOutbox(ctx); err != nil {
		_ = uow.tx.Rollback().Error
		uow.tx = nil
		return err
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return err
	}

	for _, tracked := range uow.trackedAggregates {
		tracked.Aggregate.ClearDomainEvents()
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Rollback discards the transaction and forgets tracked aggregates. Their
// recorded events stay on the aggregates.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) LoadRepository() ports.LoadRepository {
	return loadrepo.NewGormLoadRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	return shipmentrepo.NewGormShipmentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

// TrackAggregate registers an aggregate written through one of the
// repositories. An aggregate written twice is tracked once.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate kernel.EventSource) {
	for _, tracked := range uow.trackedAggregates {
		if tracked.Aggregate == aggregate {
			return
		}
	}
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) appendOutbox(ctx context.Context) error {
	repo := outboxrepo.NewGormOutboxRepository(uow.tx)
	for _, tracked := range uow.trackedAggregates {
		for _, domainEvent := range tracked.Aggregate.DomainEvents() {
			destination := uow.router.Destination(domainEvent.AggregateType, domainEvent.EventType)
			event, err := outbox.NewEvent(domainEvent, destination)
			if err != nil {
				return fmt.Errorf("outbox event %s of %s: %w", domainEvent.EventType, tracked.ID, err)
			}
			if err = repo.Add(ctx, event); err != nil {
				return err
			}
		}
	}
	return nil
}
