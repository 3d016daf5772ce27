package jobs

import (
	"context"

	"freight/internal/core/application/usecases/commands"

	"go.uber.org/zap"
)

// TrackingRefresher is the part of commands.RefreshTrackingCommandHandler the job uses.
type TrackingRefresher interface {
	Handle(ctx context.Context, cmd commands.RefreshTrackingCommand) (commands.RefreshTrackingResult, error)
}

// TrackingRefreshJob sweeps tracked shipments once per tick.
type TrackingRefreshJob struct {
	handler  TrackingRefresher
	schedule string
	cmd      commands.RefreshTrackingCommand
	runner   *runner
	logger   *zap.Logger
}

func NewTrackingRefreshJob(
	handler TrackingRefresher,
	schedule string,
	pageSize int,
	logger *zap.Logger,
) (*TrackingRefreshJob, error) {
	cmd, err := commands.NewRefreshTrackingCommand(pageSize)
	if err != nil {
		return nil, err
	}

	logger = logger.With(zap.String("component", "tracking_refresh_job"))
	return &TrackingRefreshJob{
		handler:  handler,
		schedule: schedule,
		cmd:      cmd,
		runner:   newRunner(logger),
		logger:   logger,
	}, nil
}

func (j *TrackingRefreshJob) Start() error {
	if err := j.runner.start(j.schedule, j.run); err != nil {
		return err
	}
	j.logger.Info("Tracking refresh job started", zap.String("schedule", j.schedule))
	return nil
}

func (j *TrackingRefreshJob) Stop() {
	j.runner.stop()
	j.logger.Info("Tracking refresh job stopped")
}

func (j *TrackingRefreshJob) run(ctx context.Context) {
	res, err := j.handler.Handle(ctx, j.cmd)
	if err != nil {
		j.logger.Error("Tracking refresh job failed", zap.Error(err))
		return
	}

	j.logger.Info("tracking sweep finished",
		zap.Int("checked", res.Checked),
		zap.Int("updated", res.Updated),
		zap.Int("unchanged", res.Unchanged),
		zap.Int("failed", res.Failed),
	)
}
