package commands

import (
	"errors"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/status"
	"statusflow/internal/pkg/guard"
)

var (
	ErrRecordTransitionCommandIsNotConstructed = errors.New(
		"RecordTransitionCommand must be created via NewRecordTransitionCommand constructor",
	)
	ErrToStatusIsRequired = errors.New("to status slug is required")
)

// RecordTransitionCommand represents one observed order-status transition
// reported by the host order system's lifecycle hook.
//
// With overwrite enabled (the default for live reporting), a repeated
// transition supersedes the still-unresolved event for the same triple with
// a brand-new event. With overwrite disabled, the existing unresolved event
// is reused instead.
type RecordTransitionCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	fromSlug  string
	toSlug    string
	overwrite bool

	guard guard.ConstructorGuard
}

// NewRecordTransitionCommand creates a command to record a transition.
// The from slug may be empty when the origin state is outside the workflow;
// the to slug is required. Both slugs are normalized.
func NewRecordTransitionCommand(
	orderID kernel.UUID,
	fromSlug string,
	toSlug string,
	overwrite bool,
) (RecordTransitionCommand, error) {
	cmd := RecordTransitionCommand{
		overwrite: overwrite,
		guard:     guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return RecordTransitionCommand{}, err
	}
	cmd.orderID = orderID

	cmd.fromSlug = status.NormalizeSlug(fromSlug)

	cmd.toSlug = status.NormalizeSlug(toSlug)
	if cmd.toSlug == "" {
		return RecordTransitionCommand{}, ErrToStatusIsRequired
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordTransitionCommand) Validate() error {
	return c.guard.Validate(ErrRecordTransitionCommandIsNotConstructed)
}

// OrderID returns the order whose transition was observed.
func (c RecordTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// FromSlug returns the normalized origin slug, possibly empty.
func (c RecordTransitionCommand) FromSlug() string {
	return c.fromSlug
}

// ToSlug returns the normalized destination slug.
func (c RecordTransitionCommand) ToSlug() string {
	return c.toSlug
}

// Overwrite reports whether a duplicate unresolved event is superseded
// rather than reused.
func (c RecordTransitionCommand) Overwrite() bool {
	return c.overwrite
}
