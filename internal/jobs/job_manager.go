package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	outboxPublisherJob *OutboxPublisherJob
	trackingRefreshJob *TrackingRefreshJob
}

func NewJobManager(outboxPublisherJob *OutboxPublisherJob, trackingRefreshJob *TrackingRefreshJob) *JobManager {
	return &JobManager{
		outboxPublisherJob: outboxPublisherJob,
		trackingRefreshJob: trackingRefreshJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxPublisherJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox publisher job: %w", err)
	}

	if err := jm.trackingRefreshJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.outboxPublisherJob.Stop()
		return fmt.Errorf("failed to start tracking refresh job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ticks to finish.
func (jm *JobManager) StopAll() {
	jm.trackingRefreshJob.Stop()
	jm.outboxPublisherJob.Stop()
}
