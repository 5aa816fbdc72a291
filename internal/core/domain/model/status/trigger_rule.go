package status

import (
	"fmt"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/pkg/errs"
)

// TriggerKind selects the automated action a trigger rule performs.
type TriggerKind string

const (
	// TriggerChangeStatus moves the order to another status when the rule fires.
	TriggerChangeStatus TriggerKind = "change_status"

	// TriggerResendInvoice resends the order invoice when the rule fires.
	TriggerResendInvoice TriggerKind = "resend_invoice"
)

// Validate checks that the trigger kind is one of the known values.
func (k TriggerKind) Validate() error {
	switch k {
	case TriggerChangeStatus, TriggerResendInvoice:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"trigger kind is invalid",
			fmt.Errorf("%q is not a valid trigger kind", string(k)),
		)
	}
}

// ResendTarget selects who receives a resent invoice.
type ResendTarget string

const (
	ResendToClient ResendTarget = "client"
	ResendToAdmin  ResendTarget = "admin"
	ResendToBoth   ResendTarget = "both"
)

// Validate checks that the resend target is one of the known values.
func (t ResendTarget) Validate() error {
	switch t {
	case ResendToClient, ResendToAdmin, ResendToBoth:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"resend target is invalid",
			fmt.Errorf("%q is not a valid resend target", string(t)),
		)
	}
}

// TriggerRule configures one automated action on a status. When the rule's
// condition matches a transition event, the trigger dispatcher executes the
// action against the external order system.
type TriggerRule struct {
	id           kernel.UUID
	kind         TriggerKind
	toStatus     kernel.UUID
	resendTarget ResendTarget
	condition    Condition
}

// NewChangeStatusRule creates a trigger rule that moves the order to toStatus.
func NewChangeStatusRule(id kernel.UUID, toStatus kernel.UUID, condition Condition) (TriggerRule, error) {
	if err := id.Validate(); err != nil {
		return TriggerRule{}, err
	}
	if err := toStatus.Validate(); err != nil {
		return TriggerRule{}, errs.NewValueIsRequiredErrorWithCause("to status", err)
	}

	return TriggerRule{
		id:        id,
		kind:      TriggerChangeStatus,
		toStatus:  toStatus,
		condition: condition,
	}, nil
}

// NewResendInvoiceRule creates a trigger rule that resends the invoice to target.
func NewResendInvoiceRule(id kernel.UUID, target ResendTarget, condition Condition) (TriggerRule, error) {
	if err := id.Validate(); err != nil {
		return TriggerRule{}, err
	}
	if err := target.Validate(); err != nil {
		return TriggerRule{}, err
	}

	return TriggerRule{
		id:           id,
		kind:         TriggerResendInvoice,
		resendTarget: target,
		condition:    condition,
	}, nil
}

// RestoreTriggerRule reconstructs a trigger rule from persistence.
func RestoreTriggerRule(
	id kernel.UUID,
	kind TriggerKind,
	toStatus kernel.UUID,
	target ResendTarget,
	condition Condition,
) (TriggerRule, error) {
	switch kind {
	case TriggerChangeStatus:
		return NewChangeStatusRule(id, toStatus, condition)
	case TriggerResendInvoice:
		return NewResendInvoiceRule(id, target, condition)
	default:
		return TriggerRule{}, kind.Validate()
	}
}

// ID returns the rule's identifier.
func (r TriggerRule) ID() kernel.UUID {
	return r.id
}

// Kind returns the action kind the rule performs.
func (r TriggerRule) Kind() TriggerKind {
	return r.kind
}

// ToStatus returns the destination status id. Only set for change-status rules.
func (r TriggerRule) ToStatus() kernel.UUID {
	return r.toStatus
}

// ResendTarget returns the invoice recipient. Only set for resend-invoice rules.
func (r TriggerRule) ResendTarget() ResendTarget {
	return r.resendTarget
}

// Condition returns the predicate gating this rule.
func (r TriggerRule) Condition() Condition {
	return r.condition
}
