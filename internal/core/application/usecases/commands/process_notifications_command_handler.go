package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"statusflow/internal/core/domain/model/status"
	"statusflow/internal/core/domain/model/transition"
	"statusflow/internal/core/domain/services"
	"statusflow/internal/core/ports"
)

// ProcessNotificationsCommandHandler runs the notification dispatcher: it
// scans every transition event without a notified stamp against the email
// rule of every status, sends mail for matching enabled rules, and stamps
// each event once its scan is complete.
//
// The notified stamp follows the same contract as the trigger stamp: written
// once per event after the full scan, only when at least one rule matched,
// and regardless of whether the send itself succeeded. A matched but
// disabled rule, or a rule with no valid recipients, still counts toward
// the stamp without producing mail.
//
// Only one pass runs at a time; an overlapping pass returns immediately.
type ProcessNotificationsCommandHandler struct {
	uowFactory UoWFactory
	mailer     ports.Mailer
	evaluator  services.ConditionEvaluator
	logger     *slog.Logger
	now        func() time.Time
	running    *sync.Mutex
}

// NewProcessNotificationsCommandHandler creates a handler for notification passes.
func NewProcessNotificationsCommandHandler(
	uowFactory UoWFactory,
	mailer ports.Mailer,
	evaluator services.ConditionEvaluator,
	logger *slog.Logger,
) ProcessNotificationsCommandHandler {
	return ProcessNotificationsCommandHandler{
		uowFactory: uowFactory,
		mailer:     mailer,
		evaluator:  evaluator,
		logger:     logger.With("component", "notification_dispatch"),
		now:        time.Now,
		running:    &sync.Mutex{},
	}
}

// NewProcessNotificationsCommandHandlerWithClock creates a handler with an
// injected clock. Used by tests to pin the stamp time.
func NewProcessNotificationsCommandHandlerWithClock(
	uowFactory UoWFactory,
	mailer ports.Mailer,
	evaluator services.ConditionEvaluator,
	logger *slog.Logger,
	now func() time.Time,
) ProcessNotificationsCommandHandler {
	handler := NewProcessNotificationsCommandHandler(uowFactory, mailer, evaluator, logger)
	handler.now = now

	return handler
}

// Handle processes one notification dispatch pass.
func (h *ProcessNotificationsCommandHandler) Handle(ctx context.Context, cmd ProcessNotificationsCommand) error {
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

	events, err := eventRepo.Query(ctx, ports.EventFilter{Notified: ports.StampEmpty})
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

			rule := owning.EmailRule()
			if !h.evaluator.Matches(rule.Condition(), event, owning) {
				continue
			}

			matched = true
			h.send(ctx, rule, event, owning)
		}

		if !matched {
			continue
		}

		if event.MarkNotified(h.now()) {
			if updateErr := eventRepo.Update(ctx, event); updateErr != nil {
				return updateErr
			}
		}
	}

	return uow.Commit(ctx)
}

// send delivers the mail for one matched rule. Disabled rules and rules
// without recipients produce no mail; send failures are logged, never
// returned, so they do not keep the event unstamped.
func (h *ProcessNotificationsCommandHandler) send(
	ctx context.Context,
	rule status.EmailRule,
	event *transition.Event,
	owning *status.Status,
) {
	if !rule.Enabled() {
		return
	}

	recipients := rule.Recipients()
	if len(recipients) == 0 {
		h.logger.WarnContext(ctx, "Email rule matched but has no valid recipients",
			"status", owning.Slug(), "order_id", event.OrderID())
		return
	}

	message := ports.MailMessage{
		Recipients:  recipients,
		Subject:     rule.Subject(),
		Body:        h.buildBody(rule, event, owning),
		Attachments: rule.Attachments(),
	}
	if message.Subject == "" {
		message.Subject = fmt.Sprintf("Order status changed to %s", owning.Name())
	}

	if err := h.mailer.Send(ctx, message); err != nil {
		h.logger.ErrorContext(ctx, "Failed to send status notification",
			"status", owning.Slug(), "order_id", event.OrderID(), "error", err)
	}
}

func (h *ProcessNotificationsCommandHandler) buildBody(
	rule status.EmailRule,
	event *transition.Event,
	owning *status.Status,
) string {
	var b strings.Builder
	b.WriteString(rule.Body())

	if rule.IncludeOrderDetails() {
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "Order: %s\n", event.OrderID())
		fmt.Fprintf(&b, "New status: %s\n", owning.Name())
		fmt.Fprintf(&b, "Changed at: %s\n", event.OccurredAt().Format(time.RFC1123))
	}

	return b.String()
}
