package commands

import (
	"context"

	"statusflow/internal/core/ports"
	"statusflow/internal/pkg/errs"
)

// DeleteStatusCommandHandler handles the business logic for removing a status.
//
// Domain rules enforced here:
//   - Core statuses can never be deleted
//   - A status still holding live orders requires a valid reassignment
//     target; the outstanding orders are retagged through the order system
//     before the status row is removed
//   - The reassignment target must exist and differ from the deleted status
type DeleteStatusCommandHandler struct {
	uowFactory  StatusUoWFactory
	orderClient ports.OrderClient
}

// NewDeleteStatusCommandHandler creates a handler for status deletion operations.
// Requires the order system client for order counting and bulk reassignment.
func NewDeleteStatusCommandHandler(
	uowFactory StatusUoWFactory,
	orderClient ports.OrderClient,
) DeleteStatusCommandHandler {
	return DeleteStatusCommandHandler{
		uowFactory:  uowFactory,
		orderClient: orderClient,
	}
}

// Handle processes the status deletion command.
func (h DeleteStatusCommandHandler) Handle(ctx context.Context, cmd DeleteStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	statusRepo := uow.StatusRepository()

	aggregate, err := statusRepo.Get(ctx, cmd.StatusID())
	if err != nil {
		return err
	}

	if aggregate.IsCore() {
		return errs.NewOperationForbiddenError("delete core status " + aggregate.Slug())
	}

	// Recompute the cached count on demand; fall back to the cache when the
	// order system is unreachable.
	count, countErr := h.orderClient.CountByStatus(ctx, aggregate.PrefixedSlug())
	if countErr != nil {
		count = aggregate.OrdersCount()
	}

	if count > 0 {
		reassignTo := cmd.ReassignTo()
		if reassignTo == nil {
			return errs.NewOperationForbiddenError(
				"delete status " + aggregate.Slug() + " with outstanding orders and no reassignment target",
			)
		}
		if reassignTo.IsEqual(cmd.StatusID()) {
			return errs.NewConflictError("reassignment target equals the deleted status")
		}

		target, targetErr := statusRepo.Get(ctx, *reassignTo)
		if targetErr != nil {
			return errs.NewConflictErrorWithCause("reassignment target is invalid", targetErr)
		}

		if _, err = h.orderClient.Reassign(ctx, aggregate.PrefixedSlug(), target.PrefixedSlug()); err != nil {
			return errs.NewCollaboratorCallError("order system", err)
		}
	}

	if err = statusRepo.Delete(ctx, cmd.StatusID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
