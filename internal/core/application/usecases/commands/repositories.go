// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"statusflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// StatusRepoFactory provides access to the status repository within a transaction.
	StatusRepoFactory interface {
		StatusRepository() ports.StatusRepository
	}

	// EventRepoFactory provides access to the event repository within a transaction.
	EventRepoFactory interface {
		EventRepository() ports.EventRepository
	}

	// StatusUoW manages transactions for directory-only operations.
	// Used when commands only modify status aggregates.
	StatusUoW interface {
		TxManager
		StatusRepoFactory
	}

	// StatusUoWFactory creates new directory unit of work instances.
	StatusUoWFactory interface {
		Create() StatusUoW
	}

	// UoW manages transactions across the status directory and the event log.
	// Used for commands that read the directory while stamping events, or
	// that record events against directory lookups.
	UoW interface {
		TxManager
		StatusRepoFactory
		EventRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
