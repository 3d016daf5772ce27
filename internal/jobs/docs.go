// Package jobs provides scheduled background tasks for the freight service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, seconds field enabled) and
// run independently of each other and of request handling.
//
// # Available Jobs
//
//  1. OutboxPublisherJob - claims due outbox rows, delivers them to the message sink
//     and records delivered, retried and dead-lettered outcomes
//  2. TrackingRefreshJob - polls carriers for DISPATCHED and IN_TRANSIT shipments and
//     applies new tracking events
//
// # Usage
//
//	publisher, err := jobs.NewOutboxPublisherJob(publishHandler, "*/2 * * * * *", 100, logger)
//	tracker, err := jobs.NewTrackingRefreshJob(refreshHandler, "0 */5 * * * *", 50, logger)
//
//	jobManager := jobs.NewJobManager(publisher, tracker)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// A tick that is still running when the next one fires causes the next one to
// be skipped. Stopping a job cancels the context of the running tick and waits
// for it to return.
//
// # Error Handling
//
// A failed pass is logged and retried on the next tick. Per-row and
// per-shipment failures are handled inside the command handlers.
package jobs
