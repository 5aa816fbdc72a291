// Package eventrepo provides data transfer objects and mapping functions for
// transition event persistence. The table carries a partial unique index so
// the database itself rejects a duplicate unprocessed event for the same
// order and status pair, backing up the handler-level dedup check under
// concurrent recording.
package eventrepo

import (
	"time"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/transition"

	"github.com/google/uuid"
)

// EventDTO represents the database structure for persisting transition events.
// FromStatusID is the zero uuid when the origin status was never part of the
// directory; the dedup index still covers it because the zero value is stored,
// not NULL.
type EventDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID            uuid.UUID  `gorm:"type:uuid;index;uniqueIndex:idx_unprocessed_transition,where:trigger_processed_at IS NULL"`
	FromStatusID       uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_unprocessed_transition,where:trigger_processed_at IS NULL"`
	ToStatusID         uuid.UUID  `gorm:"type:uuid;index;uniqueIndex:idx_unprocessed_transition,where:trigger_processed_at IS NULL"`
	OccurredAt         time.Time  `gorm:"not null;index"`
	TriggerProcessedAt *time.Time `gorm:"index"`
	NotifiedAt         *time.Time `gorm:"index"`
}

// TableName specifies the database table name for transition events.
func (EventDTO) TableName() string {
	return "transition_events"
}

// fromDomain converts a transition event to its database representation.
func fromDomain(event *transition.Event) EventDTO {
	return EventDTO{
		ID:                 event.ID().Bytes(),
		OrderID:            event.OrderID().Bytes(),
		FromStatusID:       event.FromStatusID().Bytes(),
		ToStatusID:         event.ToStatusID().Bytes(),
		OccurredAt:         event.OccurredAt(),
		TriggerProcessedAt: event.TriggerProcessedAt(),
		NotifiedAt:         event.NotifiedAt(),
	}
}

// toDomain converts a database DTO to a transition event using RestoreEvent.
func toDomain(dto EventDTO) (*transition.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	// A zero origin means the transition came from outside the directory;
	// it stays zero on the domain side.
	var fromStatusID kernel.UUID
	if dto.FromStatusID != uuid.Nil {
		fromStatusID, err = kernel.UUIDFromBytes(dto.FromStatusID[:])
		if err != nil {
			return nil, err
		}
	}

	toStatusID, err := kernel.UUIDFromBytes(dto.ToStatusID[:])
	if err != nil {
		return nil, err
	}

	return transition.RestoreEvent(
		id,
		orderID,
		fromStatusID,
		toStatusID,
		dto.OccurredAt,
		dto.TriggerProcessedAt,
		dto.NotifiedAt,
	)
}
