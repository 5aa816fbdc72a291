package commands

import (
	"context"
)

// UpdateStatusCommandHandler handles the business logic for replacing the
// editable configuration of a status. The slug and kind remain untouched;
// all other attributes are overwritten from the command.
type UpdateStatusCommandHandler struct {
	uowFactory StatusUoWFactory
}

// NewUpdateStatusCommandHandler creates a handler for status update operations.
func NewUpdateStatusCommandHandler(uowFactory StatusUoWFactory) UpdateStatusCommandHandler {
	return UpdateStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the status update command.
// Returns a not-found error for unknown status ids.
func (h UpdateStatusCommandHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) error {
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

	attrs := cmd.Attrs()
	if err = aggregate.SetName(attrs.Name); err != nil {
		return err
	}
	if err = aggregate.SetDaysEstimation(attrs.DaysEstimation); err != nil {
		return err
	}

	aggregate.SetDescription(attrs.Description)
	aggregate.SetEnabled(attrs.Enabled)
	aggregate.SetSortOrder(attrs.SortOrder)
	aggregate.SetAppearance(attrs.Color, attrs.Background, attrs.Icon)
	aggregate.SetIsPaid(attrs.IsPaid)
	aggregate.SetBulkActionFlags(attrs.EnabledInBulkActions, attrs.EnabledInReports)
	aggregate.SetNextStatuses(attrs.NextStatuses)
	aggregate.SetEmailRule(attrs.EmailRule)
	aggregate.SetTriggerRules(attrs.TriggerRules)

	if err = statusRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
