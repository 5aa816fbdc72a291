package jobs

import (
	"context"
	"log/slog"

	"statusflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// TriggerProcessingJob runs the trigger dispatch pass on the configured
// schedule. The pass itself is single-flight, so a slow pass and the next
// tick cannot run concurrently.
type TriggerProcessingJob struct {
	handler  *commands.ProcessTriggersCommandHandler
	interval string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewTriggerProcessingJob creates a scheduled job for trigger dispatch.
// The interval is one of the named schedule options; see CronSpec.
func NewTriggerProcessingJob(
	handler *commands.ProcessTriggersCommandHandler,
	interval string,
	logger *slog.Logger,
) *TriggerProcessingJob {
	return &TriggerProcessingJob{
		handler:  handler,
		interval: interval,
		cron:     cron.New(),
		logger:   logger.With("component", "trigger_processing_job"),
	}
}

// Start schedules the trigger dispatch pass.
func (j *TriggerProcessingJob) Start() error {
	spec, err := CronSpec(j.interval)
	if err != nil {
		return err
	}

	_, err = j.cron.AddFunc(spec, func() {
		ctx := context.Background()
		cmd := commands.NewProcessTriggersCommand()

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Trigger processing job failed", "error", handleErr)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Trigger processing job started", "interval", j.interval)
	return nil
}

// Stop stops the trigger processing job.
func (j *TriggerProcessingJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Trigger processing job stopped")
}
