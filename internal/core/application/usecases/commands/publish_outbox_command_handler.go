package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/outbox"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts    = 5
	DefaultLease          = 10 * time.Minute
	DefaultPublishTimeout = 5 * time.Second
)

// PublisherConfig controls retries and leases of the outbox publisher.
type PublisherConfig struct {
	// Owner identifies this publisher instance in claimed rows.
	Owner          string
	MaxAttempts    int
	Lease          time.Duration
	PublishTimeout time.Duration
	Backoff        outbox.DelayFunc
}

func (c PublisherConfig) withDefaults() PublisherConfig {
	if c.Owner == "" {
		c.Owner = "freight-publisher"
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Lease <= 0 {
		c.Lease = DefaultLease
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = DefaultPublishTimeout
	}
	if c.Backoff == nil {
		c.Backoff = outbox.Exponential(time.Second, 5*time.Minute)
	}
	return c
}

// PublishOutboxResult summarizes one pass.
type PublishOutboxResult struct {
	Claimed      int
	Delivered    int
	Retried      int
	DeadLettered int
	// Lost counts rows left undelivered because their lease ran out and rows
	// whose outcome could not be saved because another instance took them over.
	Lost int
}

// PublishOutboxCommandHandler claims due outbox rows, delivers them to the
// message sink and stores each outcome. Delivery is at least once: a crash
// between delivery and saving the outcome redelivers the row with the same
// envelope id after its lease expires.
type PublishOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	encoder    ports.EventEncoder
	sink       ports.MessageSink
	metrics    ports.OutboxMetrics
	config     PublisherConfig
	logger     *zap.Logger
}

func NewPublishOutboxCommandHandler(
	uowFactory OutboxUoWFactory,
	encoder ports.EventEncoder,
	sink ports.MessageSink,
	metrics ports.OutboxMetrics,
	config PublisherConfig,
	logger *zap.Logger,
) PublishOutboxCommandHandler {
	config = config.withDefaults()
	return PublishOutboxCommandHandler{
		uowFactory: uowFactory,
		encoder:    encoder,
		sink:       sink,
		metrics:    metrics,
		config:     config,
		logger:     logger.With(zap.String("component", "outbox_publisher"), zap.String("owner", config.Owner)),
	}
}

func (h PublishOutboxCommandHandler) Handle(ctx context.Context, cmd PublishOutboxCommand) (PublishOutboxResult, error) {
	var result PublishOutboxResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	repo := h.uowFactory.Create().OutboxRepository()
	claimedAt := time.Now()
	claimed, err := repo.Claim(ctx, h.config.Owner, claimedAt, h.config.Lease, cmd.BatchSize())
	if err != nil {
		return result, err
	}
	result.Claimed = len(claimed)
	leaseEnd := claimedAt.Add(h.config.Lease)

	for _, ev := range claimed {
		if err = ctx.Err(); err != nil {
			return result, err
		}
		h.publish(ctx, repo, ev, leaseEnd, &result)
	}

	return result, nil
}

func (h PublishOutboxCommandHandler) publish(
	ctx context.Context,
	repo ports.OutboxRepository,
	ev *outbox.Event,
	leaseEnd time.Time,
	result *PublishOutboxResult,
) {
	log := h.logger.With(
		zap.String("event_id", ev.ID().String()),
		zap.String("event_type", ev.EventType()),
		zap.String("destination", ev.Destination()),
	)

	if until := ev.ClaimedUntil(); !until.IsZero() && until.Before(leaseEnd) {
		leaseEnd = until
	}
	// Past the lease another instance may claim the row, so it must not be sent from here.
	remaining := time.Until(leaseEnd)
	if remaining <= 0 {
		result.Lost++
		log.Warn("outbox lease expired before delivery", zap.Time("claimed_until", leaseEnd))
		return
	}

	start := time.Now()
	deliveryErr := h.deliver(ctx, ev, min(h.config.PublishTimeout, remaining))
	took := time.Since(start)

	var err error
	if deliveryErr == nil {
		err = ev.MarkProcessed(time.Now())
	} else {
		err = ev.MarkFailed(time.Now(), deliveryErr, h.config.MaxAttempts, h.config.Backoff)
	}
	if err == nil {
		// A delivered message must be recorded even when the pass is being cancelled.
		err = repo.SaveOutcome(context.WithoutCancel(ctx), ev, h.config.Owner)
	}
	if err != nil {
		result.Lost++
		log.Error("outbox outcome not saved", zap.Error(err), zap.NamedError("delivery_error", deliveryErr))
		return
	}

	switch {
	case deliveryErr == nil:
		result.Delivered++
		h.metrics.Delivered(ev.Destination(), took)
		log.Debug("outbox event delivered", zap.Int("attempt", ev.AttemptCount()))
	case ev.IsDeadLetter():
		result.DeadLettered++
		h.metrics.DeadLettered(ev.Destination(), took)
		log.Error("outbox event dead-lettered", zap.Int("attempt", ev.AttemptCount()), zap.Error(deliveryErr))
	default:
		result.Retried++
		h.metrics.Retried(ev.Destination(), took)
		log.Warn("outbox delivery failed, will retry",
			zap.Int("attempt", ev.AttemptCount()),
			zap.Time("available_at", ev.AvailableAt()),
			zap.Error(deliveryErr),
		)
	}
}

// deliver encodes and sends one row. Encoding failures count as delivery
// failures so a poison row ends up dead-lettered.
func (h PublishOutboxCommandHandler) deliver(ctx context.Context, ev *outbox.Event, timeout time.Duration) error {
	msg, err := h.encoder.Encode(ev)
	if err != nil {
		return errs.NewDeliveryFailureError(ev.ID(), ev.Destination(), err)
	}

	deliverCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err = h.sink.Deliver(deliverCtx, msg); err != nil {
		return errs.NewDeliveryFailureError(ev.ID(), ev.Destination(), err)
	}
	return nil
}
