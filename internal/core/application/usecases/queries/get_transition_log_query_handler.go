package queries

import (
	"context"
	"database/sql"

	"statusflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetTransitionLogQueryHandler retrieves transition events from the database.
// Joins the status directory to resolve status ids into slugs; events keep
// pointing at deleted statuses, so both joins are outer joins.
type GetTransitionLogQueryHandler struct {
	db *gorm.DB
}

// NewGetTransitionLogQueryHandler creates a handler for transition log queries.
// Requires a GORM database connection for query execution.
func NewGetTransitionLogQueryHandler(db *gorm.DB) GetTransitionLogQueryHandler {
	return GetTransitionLogQueryHandler{db: db}
}

// Handle executes the query to retrieve transition events, newest first.
func (h GetTransitionLogQueryHandler) Handle(
	ctx context.Context,
	query GetTransitionLogQuery,
) ([]GetTransitionLogQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlQuery := `
		SELECT
			e.id,
			e.order_id,
			COALESCE(f.slug, ''),
			COALESCE(t.slug, ''),
			COALESCE(t.name, ''),
			e.occurred_at,
			e.trigger_processed_at,
			e.notified_at
		FROM transition_events e
		LEFT JOIN statuses f ON f.id = e.from_status_id
		LEFT JOIN statuses t ON t.id = e.to_status_id
	`
	args := make([]any, 0, 2)

	if query.OrderID() != nil {
		sqlQuery += ` WHERE e.order_id = ?`
		args = append(args, query.OrderID().String())
	}

	sqlQuery += ` ORDER BY e.occurred_at DESC LIMIT ?`
	args = append(args, query.Limit())

	rows, err := h.db.WithContext(ctx).Raw(sqlQuery, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]GetTransitionLogQueryResponse, 0)

	for rows.Next() {
		var row GetTransitionLogQueryResponse
		var id, orderID uuid.UUID
		var triggerProcessedAt, notifiedAt sql.NullTime

		err = rows.Scan(
			&id,
			&orderID,
			&row.FromStatusSlug,
			&row.ToStatusSlug,
			&row.ToStatusName,
			&row.OccurredAt,
			&triggerProcessedAt,
			&notifiedAt,
		)
		if err != nil {
			return nil, err
		}

		eventID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		row.ID = eventID

		eventOrderID, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}
		row.OrderID = eventOrderID

		if triggerProcessedAt.Valid {
			at := triggerProcessedAt.Time
			row.TriggerProcessedAt = &at
		}
		if notifiedAt.Valid {
			at := notifiedAt.Time
			row.NotifiedAt = &at
		}

		events = append(events, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
