// Package pubsub consumes recorded-transition announcements and runs the
// dispatch passes immediately. The cron schedule remains the safety net; this
// consumer only shortens the latency between a recorded transition and its
// automated reactions.
package pubsub

import (
	"context"
	"log/slog"

	outpubsub "statusflow/internal/adapters/out/pubsub"
	"statusflow/internal/core/application/usecases/commands"

	"github.com/ThreeDotsLabs/watermill/message"
)

// TransitionConsumer runs the trigger and notification passes whenever a
// transition is recorded. Both passes are single-flight internally, so a
// burst of messages collapses into passes already in progress.
type TransitionConsumer struct {
	subscriber           message.Subscriber
	triggersHandler      *commands.ProcessTriggersCommandHandler
	notificationsHandler *commands.ProcessNotificationsCommandHandler
	logger               *slog.Logger
}

// NewTransitionConsumer creates a consumer over the given subscriber.
func NewTransitionConsumer(
	subscriber message.Subscriber,
	triggersHandler *commands.ProcessTriggersCommandHandler,
	notificationsHandler *commands.ProcessNotificationsCommandHandler,
	logger *slog.Logger,
) *TransitionConsumer {
	return &TransitionConsumer{
		subscriber:           subscriber,
		triggersHandler:      triggersHandler,
		notificationsHandler: notificationsHandler,
		logger:               logger.With("component", "transition_consumer"),
	}
}

// Run subscribes to recorded transitions and processes them until the
// context is canceled or the subscriber closes.
func (c *TransitionConsumer) Run(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, outpubsub.TopicTransitionRecorded)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			c.handle(ctx, msg)
		}
	}
}

func (c *TransitionConsumer) handle(ctx context.Context, msg *message.Message) {
	// The passes scan every unstamped event, so the payload only identifies
	// what woke us up.
	defer msg.Ack()

	triggersCmd := commands.NewProcessTriggersCommand()
	if err := c.triggersHandler.Handle(ctx, triggersCmd); err != nil {
		c.logger.ErrorContext(ctx, "Trigger pass failed", "message_id", msg.UUID, "error", err)
	}

	notificationsCmd := commands.NewProcessNotificationsCommand()
	if err := c.notificationsHandler.Handle(ctx, notificationsCmd); err != nil {
		c.logger.ErrorContext(ctx, "Notification pass failed", "message_id", msg.UUID, "error", err)
	}
}
