package commands

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/status"
	"statusflow/internal/core/domain/model/transition"
	"statusflow/internal/core/domain/services"
	"statusflow/internal/core/ports"
)

// ProcessTriggersCommandHandler runs the trigger dispatcher: it scans every
// transition event without a trigger stamp against the trigger rules of every
// status in the directory, executes the matching actions against the external
// order system, and stamps each event once its full scan is complete.
//
// Dispatch rules:
//   - All rules of all statuses are evaluated for every event; a match does
//     not stop the scan, so several rules may fire on one transition
//   - The stamp is written once per event, after the full scan, and only
//     when at least one rule matched; unmatched events stay unstamped and
//     are rescanned by later passes
//   - Action failures against the order system are logged and never block
//     the stamp: a transition is processed once, not retried until the
//     collaborator recovers
//
// Only one pass runs at a time. A pass started while another is in flight
// returns immediately without touching the event log.
type ProcessTriggersCommandHandler struct {
	uowFactory  UoWFactory
	orderClient ports.OrderClient
	evaluator   services.ConditionEvaluator
	logger      *slog.Logger
	now         func() time.Time
	running     *sync.Mutex
}

// NewProcessTriggersCommandHandler creates a handler for trigger dispatch passes.
func NewProcessTriggersCommandHandler(
	uowFactory UoWFactory,
	orderClient ports.OrderClient,
	evaluator services.ConditionEvaluator,
	logger *slog.Logger,
) ProcessTriggersCommandHandler {
	return ProcessTriggersCommandHandler{
		uowFactory:  uowFactory,
		orderClient: orderClient,
		evaluator:   evaluator,
		logger:      logger.With("component", "trigger_dispatch"),
		now:         time.Now,
		running:     &sync.Mutex{},
	}
}

// NewProcessTriggersCommandHandlerWithClock creates a handler with an
// injected clock. Used by tests to pin the stamp time.
func NewProcessTriggersCommandHandlerWithClock(
	uowFactory UoWFactory,
	orderClient ports.OrderClient,
	evaluator services.ConditionEvaluator,
	logger *slog.Logger,
	now func() time.Time,
) ProcessTriggersCommandHandler {
	handler := NewProcessTriggersCommandHandler(uowFactory, orderClient, evaluator, logger)
	handler.now = now

	return handler
}

// Handle processes one trigger dispatch pass.
func (h *ProcessTriggersCommandHandler) Handle(ctx context.Context, cmd ProcessTriggersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if !h.running.TryLock() {
		return nil
	}
	defer h.running.Unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	statusRepo := uow.StatusRepository()
	eventRepo := uow.EventRepository()

	statuses, err := statusRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	statusesByID := make(map[kernel.UUID]*status.Status, len(statuses))
	for _, s := range statuses {
		statusesByID[s.ID()] = s
	}

	events, err := eventRepo.Query(ctx, ports.EventFilter{TriggerProcessed: ports.StampEmpty})
	if err != nil {
		return err
	}

	for _, event := range events {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		matched := false
		for _, owning := range statuses {
			if !owning.Enabled() {
				continue
			}

			for _, rule := range owning.TriggerRules() {
				if !h.evaluator.Matches(rule.Condition(), event, owning) {
					continue
				}

				matched = true
				h.execute(ctx, rule, event, owning, statusesByID)
			}
		}

		if !matched {
			continue
		}

		if event.MarkTriggerProcessed(h.now()) {
			if updateErr := eventRepo.Update(ctx, event); updateErr != nil {
				return updateErr
			}
		}
	}

	return uow.Commit(ctx)
}

// execute performs one matched rule's action. Collaborator failures are
// logged, never returned: a failed action does not keep the event unstamped.
func (h *ProcessTriggersCommandHandler) execute(
	ctx context.Context,
	rule status.TriggerRule,
	event *transition.Event,
	owning *status.Status,
	statusesByID map[kernel.UUID]*status.Status,
) {
	switch rule.Kind() {
	case status.TriggerChangeStatus:
		target, ok := statusesByID[rule.ToStatus()]
		if !ok {
			h.logger.WarnContext(ctx, "Trigger rule points at a missing status",
				"rule_id", rule.ID(), "status", owning.Slug(), "to_status_id", rule.ToStatus())
			return
		}

		note := "Status changed automatically by a trigger rule on status " + owning.Name()
		if err := h.orderClient.SetStatus(ctx, event.OrderID(), target.PrefixedSlug(), note); err != nil {
			h.logger.ErrorContext(ctx, "Failed to change order status",
				"order_id", event.OrderID(), "to", target.Slug(), "error", err)
		}

	case status.TriggerResendInvoice:
		if err := h.orderClient.ResendInvoice(ctx, event.OrderID(), rule.ResendTarget()); err != nil {
			h.logger.ErrorContext(ctx, "Failed to resend invoice",
				"order_id", event.OrderID(), "target", rule.ResendTarget(), "error", err)
		}
	}
}
