package jobs

import (
	"context"
	"log/slog"

	"statusflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// NotificationProcessingJob runs the notification dispatch pass on the
// configured schedule, independently of the trigger pass.
type NotificationProcessingJob struct {
	handler  *commands.ProcessNotificationsCommandHandler
	interval string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewNotificationProcessingJob creates a scheduled job for notification dispatch.
func NewNotificationProcessingJob(
	handler *commands.ProcessNotificationsCommandHandler,
	interval string,
	logger *slog.Logger,
) *NotificationProcessingJob {
	return &NotificationProcessingJob{
		handler:  handler,
		interval: interval,
		cron:     cron.New(),
		logger:   logger.With("component", "notification_processing_job"),
	}
}

// Start schedules the notification dispatch pass.
func (j *NotificationProcessingJob) Start() error {
	spec, err := CronSpec(j.interval)
	if err != nil {
		return err
	}

	_, err = j.cron.AddFunc(spec, func() {
		ctx := context.Background()
		cmd := commands.NewProcessNotificationsCommand()

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Notification processing job failed", "error", handleErr)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification processing job started", "interval", j.interval)
	return nil
}

// Stop stops the notification processing job.
func (j *NotificationProcessingJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Notification processing job stopped")
}
