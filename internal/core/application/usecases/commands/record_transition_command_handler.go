package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/transition"
	"statusflow/internal/core/ports"
	"statusflow/internal/pkg/errs"
)

// RecordTransitionCommandHandler appends an observed transition to the event
// log, deduplicated against still-unresolved events for the same
// (order, from, to) triple, and announces the new event so the immediate
// dispatch pass can react without waiting for the next tick.
//
// Example:
//
//	handler := NewRecordTransitionCommandHandler(uowFactory, publisher, logger)
//	cmd, _ := NewRecordTransitionCommand(orderID, "processing", "completed", true)
//	event, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to record transition: %w", err)
//	}
type RecordTransitionCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.TransitionPublisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewRecordTransitionCommandHandler creates a handler for transition recording.
func NewRecordTransitionCommandHandler(
	uowFactory UoWFactory,
	publisher ports.TransitionPublisher,
	logger *slog.Logger,
) RecordTransitionCommandHandler {
	return RecordTransitionCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "record_transition"),
		now:        time.Now,
	}
}

// NewRecordTransitionCommandHandlerWithClock creates a handler with an
// injected clock for tests.
func NewRecordTransitionCommandHandlerWithClock(
	uowFactory UoWFactory,
	publisher ports.TransitionPublisher,
	logger *slog.Logger,
	now func() time.Time,
) RecordTransitionCommandHandler {
	handler := NewRecordTransitionCommandHandler(uowFactory, publisher, logger)
	handler.now = now
	return handler
}

// Handle processes the transition recording command.
// Returns the recorded event: a brand-new one, or the existing unresolved
// event for the same triple when overwrite is disabled.
func (h RecordTransitionCommandHandler) Handle(
	ctx context.Context,
	cmd RecordTransitionCommand,
) (*transition.Event, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	statusRepo := uow.StatusRepository()
	eventRepo := uow.EventRepository()

	toStatus, err := statusRepo.GetBySlug(ctx, cmd.ToSlug())
	if err != nil {
		return nil, err
	}
	toID := toStatus.ID()

	// The origin may be unknown to the directory; record a zero origin then.
	var fromID kernel.UUID
	if cmd.FromSlug() != "" {
		fromStatus, fromErr := statusRepo.GetBySlug(ctx, cmd.FromSlug())
		if fromErr != nil && !errors.Is(fromErr, errs.ErrObjectNotFound) {
			return nil, fromErr
		}
		if fromStatus != nil {
			fromID = fromStatus.ID()
		}
	}

	orderID := cmd.OrderID()
	existing, err := eventRepo.Query(ctx, ports.EventFilter{
		TriggerProcessed: ports.StampEmpty,
		OrderID:          &orderID,
		FromStatusID:     &fromID,
		ToStatusID:       &toID,
	})
	if err != nil {
		return nil, err
	}

	if len(existing) > 0 {
		if !cmd.Overwrite() {
			if err = uow.Commit(ctx); err != nil {
				return nil, err
			}
			return existing[0], nil
		}

		// The new event supersedes the unresolved duplicates. Removing them
		// keeps the dedup index free for the replacement row.
		for _, stale := range existing {
			if err = eventRepo.Delete(ctx, stale.ID()); err != nil {
				return nil, err
			}
		}
	}

	event, err := transition.NewEvent(kernel.NewUUID(), orderID, fromID, toID, h.now())
	if err != nil {
		return nil, err
	}

	if err = eventRepo.Add(ctx, event); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	// Announce after commit so subscribers always observe the persisted event.
	// A broken announcement only delays processing until the next tick.
	if err = h.publisher.PublishRecorded(ctx, event); err != nil {
		h.logger.ErrorContext(ctx, "Failed to announce recorded transition",
			"event_id", event.ID().String(), "error", err)
	}

	return event, nil
}
