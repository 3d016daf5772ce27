package commands

import (
	"context"
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// assignShipments puts each shipment on the load. Shipments already on it are
// left untouched.
func assignShipments(
	ctx context.Context,
	repo ports.ShipmentRepository,
	now time.Time,
	loadID kernel.UUID,
	ids []kernel.UUID,
) error {
	for _, id := range ids {
		s, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		read := s.ConcurrencyToken()
		if err = s.AssignToLoad(now, loadID); err != nil {
			return err
		}
		if read.IsEqual(s.ConcurrencyToken()) {
			continue
		}

		if err = repo.Update(ctx, s, read); err != nil {
			return err
		}
	}
	return nil
}

// releaseShipments takes the shipments off the load. Shipments that no longer
// exist or were moved elsewhere are skipped.
func releaseShipments(
	ctx context.Context,
	repo ports.ShipmentRepository,
	now time.Time,
	loadID kernel.UUID,
	ids []kernel.UUID,
) error {
	for _, id := range ids {
		s, err := repo.Get(ctx, id)
		if errors.Is(err, errs.ErrObjectNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if !s.AssignedLoadID().IsEqual(loadID) {
			continue
		}

		read := s.ConcurrencyToken()
		if err = s.UnassignFromLoad(now, loadID); err != nil {
			return err
		}
		if err = repo.Update(ctx, s, read); err != nil {
			return err
		}
	}
	return nil
}
