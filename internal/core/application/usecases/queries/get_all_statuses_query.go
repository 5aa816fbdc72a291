// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/pkg/guard"
)

var (
	ErrGetAllStatusesQueryIsNotConstructed = errors.New(
		"GetAllStatusesQuery must be created via NewGetAllStatusesQuery constructor",
	)
)

// GetAllStatusesQuery retrieves the full status directory for listing.
// Returns flat read models ordered for display; rule configuration is
// served by the aggregate endpoints, not by this list view.
//
// Example:
//
//	query := NewGetAllStatusesQuery()
//	handler := NewGetAllStatusesQueryHandler(db)
//
//	statuses, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve statuses: %w", err)
//	}
type GetAllStatusesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAllStatusesQuery creates a query to retrieve the status directory.
func NewGetAllStatusesQuery() GetAllStatusesQuery {
	return GetAllStatusesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAllStatusesQueryIsNotConstructed if validation fails.
func (q GetAllStatusesQuery) Validate() error {
	return q.guard.Validate(ErrGetAllStatusesQueryIsNotConstructed)
}

// GetAllStatusesQueryResponse is one status row in the directory read model.
type GetAllStatusesQueryResponse struct {
	ID                   kernel.UUID
	Slug                 string
	Name                 string
	Description          string
	Kind                 string
	Enabled              bool
	DaysEstimation       int
	SortOrder            int
	Color                string
	Background           string
	Icon                 string
	IsPaid               bool
	EnabledInBulkActions bool
	EnabledInReports     bool
	OrdersCount          int
}
