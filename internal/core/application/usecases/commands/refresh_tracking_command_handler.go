package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"

	"go.uber.org/zap"
)

// Tracking sweep outcomes reported to ports.TrackingMetrics.
const (
	trackingUpdated   = "updated"
	trackingUnchanged = "unchanged"
	trackingFailed    = "failed"
)

// RefreshTrackingResult summarizes one sweep.
type RefreshTrackingResult struct {
	Checked   int
	Updated   int
	Unchanged int
	Failed    int
}

// RefreshTrackingCommandHandler sweeps DISPATCHED and IN_TRANSIT shipments in
// id order, one page at a time, and applies what each carrier reports. Every
// shipment is stored in its own unit of work; a shipment whose carrier call or
// update fails, or panics, is logged and left for the next sweep.
type RefreshTrackingCommandHandler struct {
	uowFactory ShipmentUoWFactory
	carriers   ports.CarrierRegistry
	metrics    ports.TrackingMetrics
	logger     *zap.Logger
}

func NewRefreshTrackingCommandHandler(
	uowFactory ShipmentUoWFactory,
	carriers ports.CarrierRegistry,
	metrics ports.TrackingMetrics,
	logger *zap.Logger,
) RefreshTrackingCommandHandler {
	return RefreshTrackingCommandHandler{
		uowFactory: uowFactory,
		carriers:   carriers,
		metrics:    metrics,
		logger:     logger.With(zap.String("component", "tracking_refresh")),
	}
}

func (h RefreshTrackingCommandHandler) Handle(
	ctx context.Context,
	cmd RefreshTrackingCommand,
) (RefreshTrackingResult, error) {
	var result RefreshTrackingResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	var after kernel.UUID
	for {
		page, err := h.uowFactory.Create().ShipmentRepository().ListTracked(ctx, after, cmd.PageSize())
		if err != nil {
			return result, err
		}

		for _, s := range page {
			if err = ctx.Err(); err != nil {
				return result, err
			}

			result.Checked++
			outcome := h.refresh(ctx, s)
			switch outcome {
			case trackingUpdated:
				result.Updated++
			case trackingUnchanged:
				result.Unchanged++
			default:
				result.Failed++
			}
			h.metrics.TrackingChecked(s.CarrierName(), outcome)
		}

		if len(page) < cmd.PageSize() {
			return result, nil
		}
		after = page[len(page)-1].ID()
	}
}

func (h RefreshTrackingCommandHandler) refresh(ctx context.Context, s *shipment.Shipment) (outcome string) {
	log := h.logger.With(
		zap.String("shipment_id", s.ID().String()),
		zap.String("carrier", s.CarrierName()),
		zap.String("tracking_number", s.TrackingNumber()),
	)
	defer func() {
		if r := recover(); r != nil {
			log.Error("tracking refresh panicked", zap.Any("panic", r), zap.Stack("stack"))
			outcome = trackingFailed
		}
	}()

	adapter, err := h.carriers.Adapter(s.CarrierName())
	if err != nil {
		log.Warn("no carrier adapter for tracked shipment", zap.Error(err))
		return trackingFailed
	}

	update, err := adapter.GetTrackingStatus(ctx, s.TrackingNumber())
	if err != nil {
		log.Warn("tracking status request failed", zap.Error(err))
		return trackingFailed
	}
	if update == nil {
		return trackingUnchanged
	}

	changed := false
	_, err = mutateShipment(ctx, h.uowFactory, s.ID(), s.ConcurrencyToken(),
		func(now time.Time, current *shipment.Shipment) (bool, error) {
			var applyErr error
			changed, applyErr = current.ApplyTrackingUpdate(now, update.Events(), update.Outcome)
			return changed, applyErr
		})
	if err != nil {
		log.Warn("tracking update not applied", zap.Error(err))
		return trackingFailed
	}

	if !changed {
		return trackingUnchanged
	}
	log.Info("tracking updated", zap.Stringer("outcome", update.Outcome))
	return trackingUpdated
}
