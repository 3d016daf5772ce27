package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/outbox"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryOutbox hands out due PENDING rows and keeps saved outcomes in place.
type memoryOutbox struct {
	rows  []*outbox.Event
	saves int
}

func (m *memoryOutbox) Add(_ context.Context, ev *outbox.Event) error {
	m.rows = append(m.rows, ev)
	return nil
}

func (m *memoryOutbox) Get(_ context.Context, id kernel.UUID) (*outbox.Event, error) {
	for _, ev := range m.rows {
		if ev.ID() == id {
			return ev, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("eventID", id)
}

func (m *memoryOutbox) Claim(_ context.Context, _ string, now time.Time, _ time.Duration, limit int) ([]*outbox.Event, error) {
	var claimed []*outbox.Event
	for _, ev := range m.rows {
		if len(claimed) == limit {
			break
		}
		if ev.Status() == outbox.StatusPending && !ev.AvailableAt().After(now) {
			claimed = append(claimed, ev)
		}
	}
	return claimed, nil
}

func (m *memoryOutbox) SaveOutcome(context.Context, *outbox.Event, string) error {
	m.saves++
	return nil
}

func newOutboxEvent(t *testing.T) *outbox.Event {
	t.Helper()
	ev, err := outbox.NewEvent(kernel.DomainEvent{
		ID:            kernel.NewUUID(),
		AggregateID:   kernel.NewUUID(),
		AggregateType: "load",
		EventType:     "load.created",
		OccurredAt:    time.Now().Add(-time.Second),
		Payload:       map[string]string{"reference": "L-1"},
	}, "freight.loads")
	require.NoError(t, err)
	return ev
}

func outboxFactory(repo ports.OutboxRepository) *MockOutboxUoWFactory {
	uow := new(MockUoW)
	uow.On("OutboxRepository").Return(repo)
	factory := new(MockOutboxUoWFactory)
	factory.On("Create").Return(uow)
	return factory
}

func passingEncoder() *MockEventEncoder {
	encoder := new(MockEventEncoder)
	encoder.On("Encode", mock.Anything).Return(ports.Message{Destination: "freight.loads", Body: []byte("{}")}, nil)
	return encoder
}

func tolerantMetrics() *MockOutboxMetrics {
	metrics := new(MockOutboxMetrics)
	metrics.On("Delivered", mock.Anything, mock.Anything).Maybe()
	metrics.On("Retried", mock.Anything, mock.Anything).Maybe()
	metrics.On("DeadLettered", mock.Anything, mock.Anything).Maybe()
	return metrics
}

func publishOnce(
	t *testing.T,
	handler commands.PublishOutboxCommandHandler,
	batchSize int,
) commands.PublishOutboxResult {
	t.Helper()
	cmd, err := commands.NewPublishOutboxCommand(batchSize)
	require.NoError(t, err)
	result, err := handler.Handle(testContext(t), cmd)
	require.NoError(t, err)
	return result
}

func TestPublishOutboxCommandHandler_Handle_Delivered(t *testing.T) {
	ctx := testContext(t)
	ev := newOutboxEvent(t)
	msg := ports.Message{ID: ev.ID().String(), Destination: ev.Destination(), Body: ev.Payload()}

	repo := new(MockOutboxRepository)
	encoder := new(MockEventEncoder)
	sink := new(MockMessageSink)
	metrics := new(MockOutboxMetrics)
	mock.InOrder(
		repo.On("Claim", ctx, "publisher-1", mock.AnythingOfType("time.Time"), 10*time.Second, 50).
			Return([]*outbox.Event{ev}, nil).Once(),
		encoder.On("Encode", ev).Return(msg, nil).Once(),
		sink.On("Deliver", mock.Anything, msg).Return(nil).Once(),
		repo.On("SaveOutcome", mock.Anything, ev, "publisher-1").Return(nil).Once(),
		metrics.On("Delivered", "freight.loads", mock.AnythingOfType("time.Duration")).Once(),
	)

	handler := commands.NewPublishOutboxCommandHandler(outboxFactory(repo), encoder, sink, metrics,
		commands.PublisherConfig{Owner: "publisher-1", Lease: 10 * time.Second}, zap.NewNop())

	result := publishOnce(t, handler, 50)

	assert.Equal(t, commands.PublishOutboxResult{Claimed: 1, Delivered: 1}, result)
	assert.Equal(t, outbox.StatusProcessed, ev.Status())
	assert.Equal(t, 1, ev.AttemptCount())
	repo.AssertExpectations(t)
	sink.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestPublishOutboxCommandHandler_Handle_DeadLettersAfterMaxAttempts(t *testing.T) {
	ev := newOutboxEvent(t)
	repo := &memoryOutbox{rows: []*outbox.Event{ev}}

	sink := new(MockMessageSink)
	sink.On("Deliver", mock.Anything, mock.Anything).Return(errors.New("broker down")).Times(3)

	handler := commands.NewPublishOutboxCommandHandler(outboxFactory(repo), passingEncoder(), sink, tolerantMetrics(),
		commands.PublisherConfig{MaxAttempts: 3, Backoff: outbox.Fixed(0)}, zap.NewNop())

	assert.Equal(t, commands.PublishOutboxResult{Claimed: 1, Retried: 1}, publishOnce(t, handler, 10))
	assert.Equal(t, commands.PublishOutboxResult{Claimed: 1, Retried: 1}, publishOnce(t, handler, 10))
	assert.Equal(t, commands.PublishOutboxResult{Claimed: 1, DeadLettered: 1}, publishOnce(t, handler, 10))
	assert.Equal(t, commands.PublishOutboxResult{}, publishOnce(t, handler, 10))

	assert.Equal(t, outbox.StatusFailed, ev.Status())
	assert.True(t, ev.IsDeadLetter())
	assert.Equal(t, 3, ev.AttemptCount())
	assert.Contains(t, ev.ErrorMessage(), "broker down")
	assert.Equal(t, 3, repo.saves)
	sink.AssertExpectations(t)
}

func TestPublishOutboxCommandHandler_Handle_RecoversBeforeMaxAttempts(t *testing.T) {
	ev := newOutboxEvent(t)
	repo := &memoryOutbox{rows: []*outbox.Event{ev}}

	sink := new(MockMessageSink)
	sink.On("Deliver", mock.Anything, mock.Anything).Return(errors.New("timeout")).Twice()
	sink.On("Deliver", mock.Anything, mock.Anything).Return(nil).Once()

	handler := commands.NewPublishOutboxCommandHandler(outboxFactory(repo), passingEncoder(), sink, tolerantMetrics(),
		commands.PublisherConfig{MaxAttempts: 5, Backoff: outbox.Fixed(0)}, zap.NewNop())

	for i := 0; i < 3; i++ {
		publishOnce(t, handler, 10)
	}

	assert.Equal(t, outbox.StatusProcessed, ev.Status())
	assert.Equal(t, 3, ev.AttemptCount())
	assert.Empty(t, ev.ErrorMessage())
	assert.Equal(t, commands.PublishOutboxResult{}, publishOnce(t, handler, 10))
}

func TestPublishOutboxCommandHandler_Handle_BackoffDelaysRetry(t *testing.T) {
	ev := newOutboxEvent(t)
	repo := &memoryOutbox{rows: []*outbox.Event{ev}}

	sink := new(MockMessageSink)
	sink.On("Deliver", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	handler := commands.NewPublishOutboxCommandHandler(outboxFactory(repo), passingEncoder(), sink, tolerantMetrics(),
		commands.PublisherConfig{Backoff: outbox.Fixed(time.Hour)}, zap.NewNop())

	assert.Equal(t, 1, publishOnce(t, handler, 10).Retried)
	assert.Equal(t, commands.PublishOutboxResult{}, publishOnce(t, handler, 10))
	assert.Equal(t, outbox.StatusPending, ev.Status())
	assert.True(t, ev.AvailableAt().After(time.Now().Add(59*time.Minute)))
}

func TestPublishOutboxCommandHandler_Handle_EncodeFailureIsRetried(t *testing.T) {
	ev := newOutboxEvent(t)
	repo := &memoryOutbox{rows: []*outbox.Event{ev}}

	encoder := new(MockEventEncoder)
	encoder.On("Encode", ev).Return(ports.Message{}, errors.New("unsupported payload")).Once()
	sink := new(MockMessageSink)

	handler := commands.NewPublishOutboxCommandHandler(outboxFactory(repo), encoder, sink, tolerantMetrics(),
		commands.PublisherConfig{Backoff: outbox.Fixed(0)}, zap.NewNop())

	result := publishOnce(t, handler, 10)

	assert.Equal(t, 1, result.Retried)
	assert.Contains(t, ev.ErrorMessage(), "unsupported payload")
	sink.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestPublishOutboxCommandHandler_Handle_LostLease(t *testing.T) {
	ev := newOutboxEvent(t)

	repo := new(MockOutboxRepository)
	repo.On("Claim", mock.Anything, mock.Anything, mock.Anything, mock.Anything, 10).
		Return([]*outbox.Event{ev}, nil).Once()
	repo.On("SaveOutcome", mock.Anything, ev, "freight-publisher").
		Return(errs.NewPreconditionFailedError("outbox_event", ev.ID(), "PENDING", "PROCESSED")).Once()
	sink := new(MockMessageSink)
	sink.On("Deliver", mock.Anything, mock.Anything).Return(nil).Once()
	metrics := new(MockOutboxMetrics)

	handler := commands.NewPublishOutboxCommandHandler(outboxFactory(repo), passingEncoder(), sink, metrics,
		commands.PublisherConfig{}, zap.NewNop())

	result := publishOnce(t, handler, 10)

	assert.Equal(t, commands.PublishOutboxResult{Claimed: 1, Lost: 1}, result)
	metrics.AssertNotCalled(t, "Delivered", mock.Anything, mock.Anything)
}

func TestPublishOutboxCommandHandler_Handle_StopsDeliveringWhenLeaseRunsOut(t *testing.T) {
	const lease = 300 * time.Millisecond
	rows := []*outbox.Event{newOutboxEvent(t), newOutboxEvent(t), newOutboxEvent(t)}
	repo := &memoryOutbox{rows: rows}

	type delivery struct {
		startedAt time.Time
		deadline  time.Time
	}
	var deliveries []delivery

	// The sink ignores its context and takes two thirds of the lease per message.
	sink := new(MockMessageSink)
	sink.On("Deliver", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			deliveries = append(deliveries, delivery{startedAt: time.Now(), deadline: deadline})
			time.Sleep(200 * time.Millisecond)
		}).
		Return(nil)

	handler := commands.NewPublishOutboxCommandHandler(outboxFactory(repo), passingEncoder(), sink, tolerantMetrics(),
		commands.PublisherConfig{Lease: lease, PublishTimeout: 5 * time.Second, Backoff: outbox.Fixed(0)}, zap.NewNop())

	result := publishOnce(t, handler, 10)

	require.NotEmpty(t, deliveries)
	leaseEnd := deliveries[0].startedAt.Add(lease)
	for _, d := range deliveries {
		assert.True(t, d.startedAt.Before(leaseEnd), "delivery started after the lease ran out")
		assert.False(t, d.deadline.After(leaseEnd), "delivery deadline outlives the lease")
	}
	assert.Equal(t, 3, result.Claimed)
	assert.GreaterOrEqual(t, result.Lost, 1)
	assert.Equal(t, len(deliveries), result.Delivered+result.Retried)

	last := rows[2]
	assert.Equal(t, outbox.StatusPending, last.Status())
	assert.Zero(t, last.AttemptCount())
}

func TestPublishOutboxCommandHandler_Handle_ExpiredLeaseIsNotDelivered(t *testing.T) {
	ev := newOutboxEvent(t)
	repo := &memoryOutbox{rows: []*outbox.Event{ev}}
	sink := new(MockMessageSink)

	handler := commands.NewPublishOutboxCommandHandler(outboxFactory(repo), passingEncoder(), sink, tolerantMetrics(),
		commands.PublisherConfig{Lease: time.Nanosecond}, zap.NewNop())

	result := publishOnce(t, handler, 10)

	assert.Equal(t, commands.PublishOutboxResult{Claimed: 1, Lost: 1}, result)
	assert.Equal(t, outbox.StatusPending, ev.Status())
	assert.Zero(t, repo.saves)
	sink.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestPublishOutboxCommandHandler_Handle_ClaimError(t *testing.T) {
	repo := new(MockOutboxRepository)
	repo.On("Claim", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).Once()

	handler := commands.NewPublishOutboxCommandHandler(outboxFactory(repo), passingEncoder(), new(MockMessageSink),
		new(MockOutboxMetrics), commands.PublisherConfig{}, zap.NewNop())

	cmd, err := commands.NewPublishOutboxCommand(10)
	require.NoError(t, err)

	_, err = handler.Handle(testContext(t), cmd)

	require.EqualError(t, err, "connection refused")
}

func TestReplayDeadLetterCommandHandler_Handle(t *testing.T) {
	t.Run("should enqueue a copy of the dead letter", func(t *testing.T) {
		ctx := testContext(t)
		deadLetter := newOutboxEvent(t)
		require.NoError(t, deadLetter.MarkFailed(time.Now(), errors.New("broker down"), 1, nil))

		repo := new(MockOutboxRepository)
		uow := new(MockUoW)
		var added *outbox.Event
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OutboxRepository").Return(repo).Once(),
			repo.On("Get", ctx, deadLetter.ID()).Return(deadLetter, nil).Once(),
			repo.On("Add", ctx, mock.AnythingOfType("*outbox.Event")).
				Run(func(args mock.Arguments) { added = args.Get(1).(*outbox.Event) }).
				Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)
		factory := new(MockOutboxUoWFactory)
		factory.On("Create").Return(uow).Once()

		cmd, err := commands.NewReplayDeadLetterCommand(deadLetter.ID())
		require.NoError(t, err)

		replayed, err := commands.NewReplayDeadLetterCommandHandler(factory).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Same(t, added, replayed)
		assert.NotEqual(t, deadLetter.ID(), replayed.ID())
		assert.Equal(t, outbox.StatusPending, replayed.Status())
		assert.Equal(t, deadLetter.Payload(), replayed.Payload())
		assert.Equal(t, outbox.StatusFailed, deadLetter.Status())
		uow.AssertExpectations(t)
	})

	t.Run("should refuse a row that is not dead-lettered", func(t *testing.T) {
		ctx := testContext(t)
		pending := newOutboxEvent(t)

		repo := new(MockOutboxRepository)
		repo.On("Get", ctx, pending.ID()).Return(pending, nil).Once()
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OutboxRepository").Return(repo).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		factory := new(MockOutboxUoWFactory)
		factory.On("Create").Return(uow).Once()

		cmd, err := commands.NewReplayDeadLetterCommand(pending.ID())
		require.NoError(t, err)

		_, err = commands.NewReplayDeadLetterCommandHandler(factory).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
		repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})
}
