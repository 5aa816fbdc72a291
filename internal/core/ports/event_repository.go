package ports

import (
	"context"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/transition"
)

// StampFilter narrows an event query by the state of a processed stamp.
type StampFilter int

const (
	// StampAny does not filter on the stamp.
	StampAny StampFilter = iota

	// StampEmpty matches events whose stamp is still unset.
	StampEmpty

	// StampSet matches events whose stamp has been written.
	StampSet
)

// EventFilter selects transition events. Zero-value fields are ignored;
// set fields combine with AND.
type EventFilter struct {
	TriggerProcessed StampFilter
	Notified         StampFilter
	OrderID          *kernel.UUID
	FromStatusID     *kernel.UUID
	ToStatusID       *kernel.UUID
	OlderThanDays    int
}

// EventRepository defines the persistence contract for transition events.
// The processed stamps require set-if-null semantics on update so a stamp
// written by one pass is never cleared by another.
type EventRepository interface {
	// Add persists a new transition event.
	Add(ctx context.Context, aggregate *transition.Event) error

	// Update persists the processed stamps of an existing event.
	Update(ctx context.Context, aggregate *transition.Event) error

	// Get retrieves a transition event by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*transition.Event, error)

	// Query retrieves the events matching the filter, oldest first.
	Query(ctx context.Context, filter EventFilter) ([]*transition.Event, error)

	// Delete removes a transition event by its unique identifier.
	Delete(ctx context.Context, id kernel.UUID) error
}
