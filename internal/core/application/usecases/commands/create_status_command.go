package commands

import (
	"errors"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/status"
	"statusflow/internal/pkg/guard"
)

var (
	ErrCreateStatusCommandIsNotConstructed = errors.New(
		"CreateStatusCommand must be created via NewCreateStatusCommand constructor",
	)
	ErrSlugIsRequired = errors.New("slug is required")
	ErrNameIsRequired = errors.New("name is required")
)

// CreateStatusCommand represents a request to add a new custom status to the
// workflow directory. The slug is normalized before validation, so inputs
// differing only in case, whitespace or the reserved prefix collapse to the
// same slug.
//
// Example:
//
//	statusID := kernel.NewUUID()
//	cmd, err := NewCreateStatusCommand(statusID, "Awaiting Pickup", "Awaiting Pickup", "Ready at the store", 3)
//	if err != nil {
//	    return fmt.Errorf("invalid status data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create status: %w", err)
//	}
type CreateStatusCommand struct { //nolint:recvcheck //using for validation
	statusID       kernel.UUID
	slug           string
	name           string
	description    string
	daysEstimation int

	guard guard.ConstructorGuard
}

// NewCreateStatusCommand creates a command to add a custom status.
// Validates that the id is valid, the normalized slug and the name are
// non-empty, and the days estimation is not negative.
func NewCreateStatusCommand(
	statusID kernel.UUID,
	slug string,
	name string,
	description string,
	daysEstimation int,
) (CreateStatusCommand, error) {
	cmd := CreateStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setStatusID(statusID),
		cmd.setSlug(slug),
		cmd.setName(name),
		cmd.setDaysEstimation(daysEstimation),
	); err != nil {
		return CreateStatusCommand{}, err
	}

	cmd.description = description
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateStatusCommand) Validate() error {
	return c.guard.Validate(ErrCreateStatusCommandIsNotConstructed)
}

// StatusID returns the identifier for the new status.
func (c CreateStatusCommand) StatusID() kernel.UUID {
	return c.statusID
}

// Slug returns the normalized slug.
func (c CreateStatusCommand) Slug() string {
	return c.slug
}

// Name returns the display name.
func (c CreateStatusCommand) Name() string {
	return c.name
}

// Description returns the free-text description.
func (c CreateStatusCommand) Description() string {
	return c.description
}

// DaysEstimation returns the expected dwell time in days.
func (c CreateStatusCommand) DaysEstimation() int {
	return c.daysEstimation
}

func (c *CreateStatusCommand) setStatusID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.statusID = id
	return nil
}

func (c *CreateStatusCommand) setSlug(slug string) error {
	normalized := status.NormalizeSlug(slug)
	if normalized == "" {
		return ErrSlugIsRequired
	}
	c.slug = normalized
	return nil
}

func (c *CreateStatusCommand) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *CreateStatusCommand) setDaysEstimation(days int) error {
	if days < 0 {
		return errors.New("days estimation must not be negative")
	}
	c.daysEstimation = days
	return nil
}
