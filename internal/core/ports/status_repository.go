package ports

import (
	"context"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/status"
)

// StatusRepository defines the persistence contract for status aggregates.
// Provides CRUD access to the status directory addressable by id and slug.
type StatusRepository interface {
	// Add persists a new status aggregate to storage.
	Add(ctx context.Context, aggregate *status.Status) error

	// Update persists changes to an existing status aggregate.
	Update(ctx context.Context, aggregate *status.Status) error

	// Get retrieves a status aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*status.Status, error)

	// GetBySlug retrieves a status aggregate by its normalized slug.
	GetBySlug(ctx context.Context, slug string) (*status.Status, error)

	// GetAll retrieves every status in the directory, ordered for display.
	GetAll(ctx context.Context) ([]*status.Status, error)

	// Delete removes a status row. Domain rules (core protection, reassignment)
	// are enforced by the calling command handler, not the repository.
	Delete(ctx context.Context, id kernel.UUID) error
}
