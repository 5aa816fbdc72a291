package transition

import (
	"errors"
	"time"

	"statusflow/internal/core/domain/model/kernel"
)

var (
	// ErrEventIsNotConstructed is returned when an Event instance was not
	// created through NewEvent or RestoreEvent.
	ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent or RestoreEvent constructor")
)

// Event is an append-mostly record of one observed order-status transition.
//
// Events are immutable except for the two processed-at stamps, which are
// monotonic: once set they are never cleared. The trigger dispatcher stamps
// TriggerProcessedAt after any trigger rule fired for the event; the
// notification dispatcher stamps NotifiedAt after any email rule matched.
// The two stamps are independent so the dispatchers can run in either order.
type Event struct {
	id           kernel.UUID
	orderID      kernel.UUID
	fromStatusID kernel.UUID
	toStatusID   kernel.UUID
	occurredAt   time.Time

	triggerProcessedAt *time.Time
	notifiedAt         *time.Time

	isConstructed bool
}

// NewEvent creates a new transition event with both processed stamps unset.
// The occurredAt date may be backdated by the reporting side.
func NewEvent(
	id kernel.UUID,
	orderID kernel.UUID,
	fromStatusID kernel.UUID,
	toStatusID kernel.UUID,
	occurredAt time.Time,
) (*Event, error) {
	e := &Event{
		occurredAt:    occurredAt,
		isConstructed: true,
	}

	if err := errors.Join(
		e.setID(id),
		e.setOrderID(orderID),
		e.setToStatusID(toStatusID),
	); err != nil {
		return nil, err
	}

	// The origin may be unknown when the transition was observed from a
	// state outside the workflow; the condition evaluator treats a zero
	// origin as non-evaluable.
	e.fromStatusID = fromStatusID

	return e, nil
}

// RestoreEvent reconstructs a transition event from persistence.
func RestoreEvent(
	id kernel.UUID,
	orderID kernel.UUID,
	fromStatusID kernel.UUID,
	toStatusID kernel.UUID,
	occurredAt time.Time,
	triggerProcessedAt *time.Time,
	notifiedAt *time.Time,
) (*Event, error) {
	e, err := NewEvent(id, orderID, fromStatusID, toStatusID, occurredAt)
	if err != nil {
		return nil, err
	}

	e.triggerProcessedAt = triggerProcessedAt
	e.notifiedAt = notifiedAt
	return e, nil
}

// Validate ensures the Event instance was properly constructed.
func (e *Event) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEventIsNotConstructed
	}
	return nil
}

// IsEqual compares two events by their unique identifiers.
func (e *Event) IsEqual(other *Event) bool {
	return other != nil && e.id.IsEqual(other.id)
}

// ID returns the event's unique identifier.
func (e *Event) ID() kernel.UUID {
	return e.id
}

// OrderID returns the order whose transition was observed.
func (e *Event) OrderID() kernel.UUID {
	return e.orderID
}

// FromStatusID returns the origin status of the transition.
func (e *Event) FromStatusID() kernel.UUID {
	return e.fromStatusID
}

// ToStatusID returns the destination status of the transition.
func (e *Event) ToStatusID() kernel.UUID {
	return e.toStatusID
}

// OccurredAt returns the date the transition was observed or recorded.
func (e *Event) OccurredAt() time.Time {
	return e.occurredAt
}

// TriggerProcessedAt returns when a trigger rule fired for this event,
// or nil while the event is still unresolved for the trigger dispatcher.
func (e *Event) TriggerProcessedAt() *time.Time {
	return e.triggerProcessedAt
}

// NotifiedAt returns when an email rule matched this event, or nil while
// the event is still unresolved for the notification dispatcher.
func (e *Event) NotifiedAt() *time.Time {
	return e.notifiedAt
}

// IsTriggerProcessed reports whether a trigger rule already fired.
func (e *Event) IsTriggerProcessed() bool {
	return e.triggerProcessedAt != nil
}

// IsNotified reports whether an email rule already matched.
func (e *Event) IsNotified() bool {
	return e.notifiedAt != nil
}

// MarkTriggerProcessed stamps the trigger processing time. The stamp is
// monotonic: the first call wins and later calls report false.
func (e *Event) MarkTriggerProcessed(at time.Time) bool {
	if e.triggerProcessedAt != nil {
		return false
	}
	e.triggerProcessedAt = &at
	return true
}

// MarkNotified stamps the notification time. The stamp is monotonic:
// the first call wins and later calls report false.
func (e *Event) MarkNotified(at time.Time) bool {
	if e.notifiedAt != nil {
		return false
	}
	e.notifiedAt = &at
	return true
}

// AgeInDays returns the whole days elapsed between the event date and today,
// comparing calendar dates rather than clock instants.
func (e *Event) AgeInDays(today time.Time) int {
	occurred := truncateToDate(e.occurredAt)
	now := truncateToDate(today)
	return int(now.Sub(occurred).Hours() / 24)
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func (e *Event) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *Event) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.orderID = id
	return nil
}

func (e *Event) setToStatusID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.toStatusID = id
	return nil
}
