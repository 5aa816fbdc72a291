package commands

import (
	"errors"

	"statusflow/internal/pkg/guard"
)

// ProcessTriggersCommand runs one pass of the trigger dispatcher over all
// unprocessed transition events.
//
// Example:
//
//	cmd := NewProcessTriggersCommand()
//	handler := NewProcessTriggersCommandHandler(uowFactory, orderClient, evaluator, logger)
//
//	// Run periodically from the scheduler
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Trigger pass failed: %v", err)
//	}
type ProcessTriggersCommand struct {
	guard guard.ConstructorGuard
}

var (
	ErrProcessTriggersCommandIsNotConstructed = errors.New(
		"ProcessTriggersCommand must be created via NewProcessTriggersCommand constructor",
	)
)

// NewProcessTriggersCommand creates a command to run one trigger pass.
// This is a parameterless command that processes all unstamped events.
func NewProcessTriggersCommand() ProcessTriggersCommand {
	command := ProcessTriggersCommand{
		guard: guard.NewConstructorGuard(),
	}

	return command
}

// Validate ensures the command was created through the constructor.
// Returns ErrProcessTriggersCommandIsNotConstructed if validation fails.
func (c *ProcessTriggersCommand) Validate() error {
	return c.guard.Validate(ErrProcessTriggersCommandIsNotConstructed)
}
