package commands

import (
	"errors"

	"statusflow/internal/pkg/guard"
)

// ProcessNotificationsCommand runs one pass of the notification dispatcher
// over all transition events without a notified stamp.
//
// Example:
//
//	cmd := NewProcessNotificationsCommand()
//	handler := NewProcessNotificationsCommandHandler(uowFactory, mailer, evaluator, logger)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Notification pass failed: %v", err)
//	}
type ProcessNotificationsCommand struct {
	guard guard.ConstructorGuard
}

var (
	ErrProcessNotificationsCommandIsNotConstructed = errors.New(
		"ProcessNotificationsCommand must be created via NewProcessNotificationsCommand constructor",
	)
)

// NewProcessNotificationsCommand creates a command to run one notification pass.
func NewProcessNotificationsCommand() ProcessNotificationsCommand {
	command := ProcessNotificationsCommand{
		guard: guard.NewConstructorGuard(),
	}

	return command
}

// Validate ensures the command was created through the constructor.
// Returns ErrProcessNotificationsCommandIsNotConstructed if validation fails.
func (c *ProcessNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrProcessNotificationsCommandIsNotConstructed)
}
