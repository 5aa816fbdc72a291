package commands

import (
	"context"
	"errors"

	"statusflow/internal/core/domain/model/status"
	"statusflow/internal/pkg/errs"
)

// CreateStatusCommandHandler handles the business logic for adding a custom
// status to the directory. Rejects slugs that are already taken.
//
// Example:
//
//	handler := NewCreateStatusCommandHandler(uowFactory)
//	cmd, _ := NewCreateStatusCommand(kernel.NewUUID(), "awaiting-pickup", "Awaiting Pickup", "", 3)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("status creation failed: %w", err)
//	}
type CreateStatusCommandHandler struct {
	uowFactory StatusUoWFactory
}

// NewCreateStatusCommandHandler creates a handler for status creation operations.
func NewCreateStatusCommandHandler(uowFactory StatusUoWFactory) CreateStatusCommandHandler {
	return CreateStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the status creation command.
// Fails with a conflict error when the normalized slug already exists in
// the directory.
func (h CreateStatusCommandHandler) Handle(ctx context.Context, cmd CreateStatusCommand) error {
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

	existing, err := statusRepo.GetBySlug(ctx, cmd.Slug())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if existing != nil {
		return errs.NewConflictError("slug already in use: " + cmd.Slug())
	}

	aggregate, err := status.NewStatus(cmd.StatusID(), cmd.Slug(), cmd.Name())
	if err != nil {
		return err
	}

	aggregate.SetDescription(cmd.Description())
	if err = aggregate.SetDaysEstimation(cmd.DaysEstimation()); err != nil {
		return err
	}

	if err = statusRepo.Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
