package status

import (
	"fmt"
	"strings"

	"statusflow/internal/core/domain/model/kernel"
)

// Condition is the predicate shared by email rules and trigger rules.
// It gates whether a rule fires for a given transition event.
//
// Semantics, evaluated by services.ConditionEvaluator:
//   - enabled == false means "no filter": the condition always matches
//   - a non-empty fromStatuses set requires the event's origin to be a member
//     and the event's destination to be the status owning the rule
//   - ifOverdue requires the event's age in days to reach the owning status's
//     days estimation (which must be positive for the clause to have effect)
type Condition struct {
	enabled      bool
	fromStatuses []kernel.UUID
	ifOverdue    bool
	description  string
}

// NewCondition creates a condition. The description is derived from the
// sub-conditions; it is a display summary, not authoritative.
func NewCondition(enabled bool, fromStatuses []kernel.UUID, ifOverdue bool) Condition {
	c := Condition{
		enabled:      enabled,
		fromStatuses: append([]kernel.UUID(nil), fromStatuses...),
		ifOverdue:    ifOverdue,
	}
	c.description = c.describe()
	return c
}

// Enabled reports whether the condition filters at all.
// A disabled condition matches every transition.
func (c Condition) Enabled() bool {
	return c.enabled
}

// FromStatuses returns the origin statuses the condition restricts to.
func (c Condition) FromStatuses() []kernel.UUID {
	return append([]kernel.UUID(nil), c.fromStatuses...)
}

// IfOverdue reports whether the condition requires the event to be overdue.
func (c Condition) IfOverdue() bool {
	return c.ifOverdue
}

// Description returns a display summary of the condition.
func (c Condition) Description() string {
	return c.description
}

// HasFromStatus reports whether the given status id is in the origin set.
func (c Condition) HasFromStatus(id kernel.UUID) bool {
	for _, from := range c.fromStatuses {
		if from.IsEqual(id) {
			return true
		}
	}
	return false
}

func (c Condition) describe() string {
	if !c.enabled {
		return "always"
	}

	var parts []string
	if len(c.fromStatuses) > 0 {
		parts = append(parts, fmt.Sprintf("from %d status(es)", len(c.fromStatuses)))
	}
	if c.ifOverdue {
		parts = append(parts, "if overdue")
	}
	if len(parts) == 0 {
		return "any transition"
	}
	return strings.Join(parts, ", ")
}
