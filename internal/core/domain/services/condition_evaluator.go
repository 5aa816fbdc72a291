package services

import (
	"time"

	"statusflow/internal/core/domain/model/status"
	"statusflow/internal/core/domain/model/transition"
)

// ConditionEvaluator is a domain service that matches a rule condition
// against a transition event. It is pure and side-effect free: the only
// external input is the clock used by overdue checks.
//
// Matching rules:
//   - A disabled condition matches unconditionally (disabled = "no filter")
//   - Without full identity (owning status id, event from/to ids) nothing
//     can be evaluated and the condition does not match
//   - A condition with no sub-conditions matches any transition
//   - A from-statuses set requires the event origin to be a member and the
//     event destination to be the owning status
//   - An overdue clause requires the event age to reach the owning status's
//     days estimation, and its verdict replaces the from-statuses verdict
//     rather than combining with it
//
// Example usage:
//
//	evaluator := services.NewConditionEvaluator()
//	if evaluator.Matches(rule.Condition(), event, owningStatus) {
//	    // execute the rule
//	}
type ConditionEvaluator struct {
	now func() time.Time
}

// NewConditionEvaluator creates an evaluator using the system clock.
func NewConditionEvaluator() ConditionEvaluator {
	return ConditionEvaluator{now: time.Now}
}

// NewConditionEvaluatorWithClock creates an evaluator with an injected clock.
// Used by tests to pin "today" for overdue checks.
func NewConditionEvaluatorWithClock(now func() time.Time) ConditionEvaluator {
	return ConditionEvaluator{now: now}
}

// Matches reports whether the condition holds for the event, evaluated in
// the context of the status owning the rule.
func (e ConditionEvaluator) Matches(
	condition status.Condition,
	event *transition.Event,
	owning *status.Status,
) bool {
	if !condition.Enabled() {
		return true
	}

	if owning == nil || event == nil {
		return false
	}
	if owning.ID().Validate() != nil ||
		event.ToStatusID().Validate() != nil ||
		event.FromStatusID().Validate() != nil {
		return false
	}

	fromStatuses := condition.FromStatuses()
	matched := len(fromStatuses) == 0 && !condition.IfOverdue()

	if len(fromStatuses) > 0 {
		matched = condition.HasFromStatus(event.FromStatusID()) &&
			owning.ID().IsEqual(event.ToStatusID())
	}

	// The overdue verdict intentionally replaces the from-statuses verdict.
	// Compatibility with the long-standing rule semantics; see DESIGN.md.
	if condition.IfOverdue() && owning.DaysEstimation() > 0 {
		matched = event.AgeInDays(e.now()) >= owning.DaysEstimation()
	}

	return matched
}
