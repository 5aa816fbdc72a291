package commands

import (
	"errors"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/pkg/guard"
)

var ErrDeleteStatusCommandIsNotConstructed = errors.New(
	"DeleteStatusCommand must be created via NewDeleteStatusCommand constructor",
)

// DeleteStatusCommand represents a request to remove a custom status from the
// directory. When the status still holds live orders, a reassignment target
// must be supplied so those orders can be retagged before the row is removed.
//
// Example:
//
//	// Plain delete of an unused status
//	cmd, _ := NewDeleteStatusCommand(statusID, nil)
//
//	// Delete with reassignment of outstanding orders
//	target := otherStatusID
//	cmd, _ := NewDeleteStatusCommand(statusID, &target)
type DeleteStatusCommand struct { //nolint:recvcheck //using for validation
	statusID   kernel.UUID
	reassignTo *kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeleteStatusCommand creates a command to delete a status, optionally
// naming the status that inherits its outstanding orders.
func NewDeleteStatusCommand(statusID kernel.UUID, reassignTo *kernel.UUID) (DeleteStatusCommand, error) {
	cmd := DeleteStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := statusID.Validate(); err != nil {
		return DeleteStatusCommand{}, err
	}
	cmd.statusID = statusID

	if reassignTo != nil {
		if err := reassignTo.Validate(); err != nil {
			return DeleteStatusCommand{}, err
		}
		target := *reassignTo
		cmd.reassignTo = &target
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DeleteStatusCommand) Validate() error {
	return c.guard.Validate(ErrDeleteStatusCommandIsNotConstructed)
}

// StatusID returns the identifier of the status to delete.
func (c DeleteStatusCommand) StatusID() kernel.UUID {
	return c.statusID
}

// ReassignTo returns the reassignment target, or nil when none was given.
func (c DeleteStatusCommand) ReassignTo() *kernel.UUID {
	return c.reassignTo
}
