package queries

import (
	"context"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/status"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAllStatusesQueryHandler retrieves the status directory from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
//
// Example:
//
//	handler := NewGetAllStatusesQueryHandler(db)
//	query := NewGetAllStatusesQuery()
//
//	statuses, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get statuses: %v", err)
//	    return err
//	}
type GetAllStatusesQueryHandler struct {
	db *gorm.DB
}

// NewGetAllStatusesQueryHandler creates a handler for directory listing queries.
// Requires a GORM database connection for query execution.
func NewGetAllStatusesQueryHandler(db *gorm.DB) GetAllStatusesQueryHandler {
	return GetAllStatusesQueryHandler{db: db}
}

// Handle executes the query to retrieve all statuses ordered for display.
// Core statuses are reported enabled regardless of the stored flag.
func (h GetAllStatusesQueryHandler) Handle(
	ctx context.Context,
	query GetAllStatusesQuery,
) ([]GetAllStatusesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	statuses := make([]GetAllStatusesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			slug,
			name,
			description,
			kind,
			enabled,
			days_estimation,
			sort_order,
			color,
			background,
			icon,
			is_paid,
			enabled_in_bulk_actions,
			enabled_in_reports,
			orders_count
		FROM statuses
		ORDER BY sort_order, name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var row GetAllStatusesQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&row.Slug,
			&row.Name,
			&row.Description,
			&row.Kind,
			&row.Enabled,
			&row.DaysEstimation,
			&row.SortOrder,
			&row.Color,
			&row.Background,
			&row.Icon,
			&row.IsPaid,
			&row.EnabledInBulkActions,
			&row.EnabledInReports,
			&row.OrdersCount,
		)
		if err != nil {
			return nil, err
		}

		statusID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		row.ID = statusID

		if row.Kind == string(status.KindCore) {
			row.Enabled = true
		}

		statuses = append(statuses, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return statuses, nil
}
