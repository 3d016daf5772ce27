package jobs

import (
	"context"
	"errors"
	"sync"

	"freight/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OutboxPublisher is the part of commands.PublishOutboxCommandHandler the job uses.
type OutboxPublisher interface {
	Handle(ctx context.Context, cmd commands.PublishOutboxCommand) (commands.PublishOutboxResult, error)
}

// OutboxPublisherJob runs one outbox publishing pass per tick.
type OutboxPublisherJob struct {
	handler  OutboxPublisher
	schedule string
	cmd      commands.PublishOutboxCommand
	runner   *runner
	logger   *zap.Logger
}

func NewOutboxPublisherJob(
	handler OutboxPublisher,
	schedule string,
	batchSize int,
	logger *zap.Logger,
) (*OutboxPublisherJob, error) {
	cmd, err := commands.NewPublishOutboxCommand(batchSize)
	if err != nil {
		return nil, err
	}

	logger = logger.With(zap.String("component", "outbox_publisher_job"))
	return &OutboxPublisherJob{
		handler:  handler,
		schedule: schedule,
		cmd:      cmd,
		runner:   newRunner(logger),
		logger:   logger,
	}, nil
}

func (j *OutboxPublisherJob) Start() error {
	if err := j.runner.start(j.schedule, j.run); err != nil {
		return err
	}
	j.logger.Info("Outbox publisher job started", zap.String("schedule", j.schedule))
	return nil
}

func (j *OutboxPublisherJob) Stop() {
	j.runner.stop()
	j.logger.Info("Outbox publisher job stopped")
}

func (j *OutboxPublisherJob) run(ctx context.Context) {
	res, err := j.handler.Handle(ctx, j.cmd)
	if err != nil {
		j.logger.Error("Outbox publisher job failed", zap.Error(err))
		return
	}
	if res.Claimed == 0 {
		return
	}

	j.logger.Info("outbox batch published",
		zap.Int("claimed", res.Claimed),
		zap.Int("delivered", res.Delivered),
		zap.Int("retried", res.Retried),
		zap.Int("dead_lettered", res.DeadLettered),
		zap.Int("lost", res.Lost),
	)
}

// runner owns the cron scheduler of one job. Every start gets a fresh
// scheduler and a context that stop cancels, so a stopped job can be started
// again. Overlapping ticks are skipped.
type runner struct {
	logger *zap.Logger

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

func newRunner(logger *zap.Logger) *runner {
	return &runner{logger: logger}
}

func (r *runner) start(schedule string, fn func(ctx context.Context)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		return errors.New("job is already running")
	}

	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(cronLogger{r.logger}), cron.SkipIfStillRunning(cronLogger{r.logger})),
	)
	ctx, cancel := context.WithCancel(context.Background())
	if _, err := c.AddFunc(schedule, func() { fn(ctx) }); err != nil {
		cancel()
		return err
	}
	c.Start()

	r.cron, r.cancel = c, cancel
	return nil
}

// stop cancels the running tick and waits for it to return. Stopping a job
// that is not running does nothing.
func (r *runner) stop() {
	r.mu.Lock()
	c, cancel := r.cron, r.cancel
	r.cron, r.cancel = nil, nil
	r.mu.Unlock()

	if c == nil {
		return
	}
	cancel()
	<-c.Stop().Done()
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
