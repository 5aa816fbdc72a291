package queries

import (
	"errors"
	"time"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/pkg/errs"
	"statusflow/internal/pkg/guard"
)

const (
	defaultTransitionLogLimit = 100
	maxTransitionLogLimit     = 1000
)

var (
	ErrGetTransitionLogQueryIsNotConstructed = errors.New(
		"GetTransitionLogQuery must be created via NewGetTransitionLogQuery constructor",
	)
)

// GetTransitionLogQuery retrieves recorded transition events, newest first,
// optionally narrowed to one order.
//
// Example:
//
//	query, err := NewGetTransitionLogQuery(&orderID, 50)
//	if err != nil {
//	    return err
//	}
//
//	log, err := handler.Handle(ctx, query)
type GetTransitionLogQuery struct {
	orderID *kernel.UUID
	limit   int

	guard guard.ConstructorGuard
}

// NewGetTransitionLogQuery creates a query for the transition log.
// A nil orderID retrieves events across all orders. A zero limit falls
// back to the default page size; the limit is capped at the maximum.
func NewGetTransitionLogQuery(orderID *kernel.UUID, limit int) (GetTransitionLogQuery, error) {
	if orderID != nil {
		if err := orderID.Validate(); err != nil {
			return GetTransitionLogQuery{}, errs.NewValueIsInvalidErrorWithCause("order id", err)
		}
	}

	if limit < 0 {
		return GetTransitionLogQuery{}, errs.NewValueIsInvalidError("limit must not be negative")
	}
	if limit == 0 {
		limit = defaultTransitionLogLimit
	}
	if limit > maxTransitionLogLimit {
		limit = maxTransitionLogLimit
	}

	return GetTransitionLogQuery{
		orderID: orderID,
		limit:   limit,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetTransitionLogQueryIsNotConstructed if validation fails.
func (q GetTransitionLogQuery) Validate() error {
	return q.guard.Validate(ErrGetTransitionLogQueryIsNotConstructed)
}

// OrderID returns the optional order filter.
func (q GetTransitionLogQuery) OrderID() *kernel.UUID {
	return q.orderID
}

// Limit returns the page size.
func (q GetTransitionLogQuery) Limit() int {
	return q.limit
}

// GetTransitionLogQueryResponse is one transition event in the log read
// model. FromStatusSlug is empty when the origin status was never part of
// the directory. The stamp fields are nil until the matching dispatcher
// pass has scanned the event.
type GetTransitionLogQueryResponse struct {
	ID                 kernel.UUID
	OrderID            kernel.UUID
	FromStatusSlug     string
	ToStatusSlug       string
	ToStatusName       string
	OccurredAt         time.Time
	TriggerProcessedAt *time.Time
	NotifiedAt         *time.Time
}
