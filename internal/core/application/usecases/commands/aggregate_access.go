package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
)

// readLoad fetches a load and checks the caller's token against it. The
// returned token is the version read, which the conditional update expects.
func readLoad(
	ctx context.Context,
	repo ports.LoadRepository,
	id kernel.UUID,
	token kernel.ConcurrencyToken,
) (*load.Load, kernel.ConcurrencyToken, error) {
	l, err := repo.Get(ctx, id)
	if err != nil {
		return nil, kernel.ConcurrencyToken{}, err
	}

	read := l.ConcurrencyToken()
	if err = token.Check(load.AggregateType, id, read); err != nil {
		return nil, kernel.ConcurrencyToken{}, err
	}
	return l, read, nil
}

// peekLoad reads a load outside a transaction. Handlers that call a carrier
// use it first and then mutate with the token they read, so a change made
// during the carrier call is rejected instead of overwritten.
func peekLoad(
	ctx context.Context,
	factory LoadUoWFactory,
	id kernel.UUID,
	token kernel.ConcurrencyToken,
) (*load.Load, kernel.ConcurrencyToken, error) {
	return readLoad(ctx, factory.Create().LoadRepository(), id, token)
}

// mutateLoad runs apply against one load in its own unit of work.
func mutateLoad(
	ctx context.Context,
	factory LoadUoWFactory,
	id kernel.UUID,
	token kernel.ConcurrencyToken,
	apply func(now time.Time, l *load.Load) error,
) (*load.Load, error) {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	loadRepo := uow.LoadRepository()
	l, read, err := readLoad(ctx, loadRepo, id, token)
	if err != nil {
		return nil, err
	}

	if err = apply(time.Now(), l); err != nil {
		return nil, err
	}

	if err = loadRepo.Update(ctx, l, read); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return l, nil
}

func readShipment(
	ctx context.Context,
	repo ports.ShipmentRepository,
	id kernel.UUID,
	token kernel.ConcurrencyToken,
) (*shipment.Shipment, kernel.ConcurrencyToken, error) {
	s, err := repo.Get(ctx, id)
	if err != nil {
		return nil, kernel.ConcurrencyToken{}, err
	}

	read := s.ConcurrencyToken()
	if err = token.Check(shipment.AggregateType, id, read); err != nil {
		return nil, kernel.ConcurrencyToken{}, err
	}
	return s, read, nil
}

// mutateShipment runs apply against one shipment in its own unit of work.
// When apply reports no change nothing is written.
func mutateShipment(
	ctx context.Context,
	factory ShipmentUoWFactory,
	id kernel.UUID,
	token kernel.ConcurrencyToken,
	apply func(now time.Time, s *shipment.Shipment) (bool, error),
) (*shipment.Shipment, error) {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	shipmentRepo := uow.ShipmentRepository()
	s, read, err := readShipment(ctx, shipmentRepo, id, token)
	if err != nil {
		return nil, err
	}

	changed, err := apply(time.Now(), s)
	if err != nil {
		return nil, err
	}
	if !changed {
		return s, nil
	}

	if err = shipmentRepo.Update(ctx, s, read); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// always adapts an operation that modifies the shipment whenever it succeeds.
func always(err error) (bool, error) {
	return err == nil, err
}
