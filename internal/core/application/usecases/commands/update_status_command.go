package commands

import (
	"errors"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/status"
	"statusflow/internal/pkg/guard"
)

var ErrUpdateStatusCommandIsNotConstructed = errors.New(
	"UpdateStatusCommand must be created via NewUpdateStatusCommand constructor",
)

// StatusAttrs carries the editable configuration of a status, the way the
// admin surface saves a whole status form at once. The slug and kind are
// not editable after creation.
type StatusAttrs struct {
	Name                 string
	Description          string
	Enabled              bool
	DaysEstimation       int
	SortOrder            int
	Color                string
	Background           string
	Icon                 string
	IsPaid               bool
	EnabledInBulkActions bool
	EnabledInReports     bool
	NextStatuses         []status.Ref
	EmailRule            status.EmailRule
	TriggerRules         []status.TriggerRule
}

// UpdateStatusCommand represents a request to replace the editable
// configuration of an existing status.
type UpdateStatusCommand struct { //nolint:recvcheck //using for validation
	statusID kernel.UUID
	attrs    StatusAttrs

	guard guard.ConstructorGuard
}

// NewUpdateStatusCommand creates a command to update a status.
// Validates that the id is valid, the name is non-empty and the days
// estimation is not negative.
func NewUpdateStatusCommand(statusID kernel.UUID, attrs StatusAttrs) (UpdateStatusCommand, error) {
	cmd := UpdateStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setStatusID(statusID); err != nil {
		return UpdateStatusCommand{}, err
	}
	if attrs.Name == "" {
		return UpdateStatusCommand{}, ErrNameIsRequired
	}
	if attrs.DaysEstimation < 0 {
		return UpdateStatusCommand{}, errors.New("days estimation must not be negative")
	}

	cmd.attrs = attrs
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateStatusCommandIsNotConstructed)
}

// StatusID returns the identifier of the status to update.
func (c UpdateStatusCommand) StatusID() kernel.UUID {
	return c.statusID
}

// Attrs returns the replacement configuration.
func (c UpdateStatusCommand) Attrs() StatusAttrs {
	return c.attrs
}

func (c *UpdateStatusCommand) setStatusID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.statusID = id
	return nil
}
