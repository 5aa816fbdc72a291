// Package jobs provides scheduled background tasks for the workflow engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to run the dispatch passes on a configurable schedule.
//
// # Available Jobs
//
// 1. TriggerProcessingJob - Runs the trigger dispatch pass over unprocessed transition events
// 2. NotificationProcessingJob - Runs the notification dispatch pass over unnotified events
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(triggersHandler, notificationsHandler, "5mins", logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Both passes run on the same named interval ("1min" through "1day", see
// CronSpec for the full set). The schedule is a safety net: the in-process
// consumer already runs both passes right after a transition is recorded,
// so the cron ticks mainly pick up events that became overdue since then.
//
// # Error Handling
//
// - Pass failures are logged and retried on the next tick
// - Both passes are single-flight, so overlapping ticks collapse
// - Failed job starts will stop any already running jobs
package jobs
