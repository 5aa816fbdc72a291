package jobs

import (
	"fmt"
	"log/slog"

	"statusflow/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	triggerProcessingJob      *TriggerProcessingJob
	notificationProcessingJob *NotificationProcessingJob
}

// NewJobManager creates a new job manager with all required jobs.
// Both dispatch passes share the same configured interval.
func NewJobManager(
	triggersHandler *commands.ProcessTriggersCommandHandler,
	notificationsHandler *commands.ProcessNotificationsCommandHandler,
	interval string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		triggerProcessingJob:      NewTriggerProcessingJob(triggersHandler, interval, logger),
		notificationProcessingJob: NewNotificationProcessingJob(notificationsHandler, interval, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.triggerProcessingJob.Start(); err != nil {
		return fmt.Errorf("failed to start trigger processing job: %w", err)
	}

	if err := jm.notificationProcessingJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.triggerProcessingJob.Stop()
		return fmt.Errorf("failed to start notification processing job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.triggerProcessingJob.Stop()
	jm.notificationProcessingJob.Stop()
}
