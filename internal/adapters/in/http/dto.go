package http

import (
	"time"

	"statusflow/internal/core/application/usecases/commands"
	"statusflow/internal/core/application/usecases/queries"
	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/status"
	"statusflow/internal/core/domain/model/transition"
	"statusflow/internal/pkg/errs"
)

// ErrorResponse is the uniform error body for the management API.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatusResponse is one status row as served by the directory endpoints.
type StatusResponse struct {
	ID                   string `json:"id"`
	Slug                 string `json:"slug"`
	Name                 string `json:"name"`
	Description          string `json:"description,omitempty"`
	Kind                 string `json:"kind"`
	Enabled              bool   `json:"enabled"`
	DaysEstimation       int    `json:"days_estimation"`
	SortOrder            int    `json:"sort_order"`
	Color                string `json:"color,omitempty"`
	Background           string `json:"background,omitempty"`
	Icon                 string `json:"icon,omitempty"`
	IsPaid               bool   `json:"is_paid"`
	EnabledInBulkActions bool   `json:"enabled_in_bulk_actions"`
	EnabledInReports     bool   `json:"enabled_in_reports"`
	OrdersCount          int    `json:"orders_count"`
}

func statusResponseFromReadModel(row queries.GetAllStatusesQueryResponse) StatusResponse {
	return StatusResponse{
		ID:                   row.ID.String(),
		Slug:                 row.Slug,
		Name:                 row.Name,
		Description:          row.Description,
		Kind:                 row.Kind,
		Enabled:              row.Enabled,
		DaysEstimation:       row.DaysEstimation,
		SortOrder:            row.SortOrder,
		Color:                row.Color,
		Background:           row.Background,
		Icon:                 row.Icon,
		IsPaid:               row.IsPaid,
		EnabledInBulkActions: row.EnabledInBulkActions,
		EnabledInReports:     row.EnabledInReports,
		OrdersCount:          row.OrdersCount,
	}
}

// CreateStatusRequest is the body of POST /api/v1/statuses.
type CreateStatusRequest struct {
	Slug           string `json:"slug" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description"`
	DaysEstimation int    `json:"days_estimation" validate:"gte=0"`
}

// ConditionRequest is the wire shape of a rule condition.
type ConditionRequest struct {
	Enabled      bool     `json:"enabled"`
	FromStatuses []string `json:"from_statuses" validate:"dive,uuid"`
	IfOverdue    bool     `json:"if_overdue"`
}

func (r ConditionRequest) toDomain() (status.Condition, error) {
	fromStatuses := make([]kernel.UUID, 0, len(r.FromStatuses))
	for _, raw := range r.FromStatuses {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return status.Condition{}, errs.NewValueIsInvalidErrorWithCause("from status id", err)
		}
		fromStatuses = append(fromStatuses, id)
	}

	return status.NewCondition(r.Enabled, fromStatuses, r.IfOverdue), nil
}

// EmailRuleRequest is the wire shape of a status's notification email rule.
type EmailRuleRequest struct {
	Enabled             bool             `json:"enabled"`
	Recipients          []string         `json:"recipients"`
	Subject             string           `json:"subject"`
	Body                string           `json:"body"`
	IncludeOrderDetails bool             `json:"include_order_details"`
	Attachments         []string         `json:"attachments"`
	Condition           ConditionRequest `json:"condition"`
}

func (r EmailRuleRequest) toDomain() (status.EmailRule, error) {
	condition, err := r.Condition.toDomain()
	if err != nil {
		return status.EmailRule{}, err
	}

	return status.NewEmailRule(
		r.Enabled,
		r.Recipients,
		r.Subject,
		r.Body,
		r.IncludeOrderDetails,
		r.Attachments,
		condition,
	), nil
}

// TriggerRuleRequest is the wire shape of one automated action on a status.
// The id is optional; omitted ids are generated so the admin surface can
// post new rules without minting identifiers.
type TriggerRuleRequest struct {
	ID           string           `json:"id" validate:"omitempty,uuid"`
	Kind         string           `json:"kind" validate:"required,oneof=change_status resend_invoice"`
	ToStatusID   string           `json:"to_status_id" validate:"omitempty,uuid"`
	ResendTarget string           `json:"resend_target" validate:"omitempty,oneof=client admin both"`
	Condition    ConditionRequest `json:"condition"`
}

func (r TriggerRuleRequest) toDomain() (status.TriggerRule, error) {
	id := kernel.NewUUID()
	if r.ID != "" {
		parsed, err := kernel.UUIDFromString(r.ID)
		if err != nil {
			return status.TriggerRule{}, errs.NewValueIsInvalidErrorWithCause("trigger rule id", err)
		}
		id = parsed
	}

	condition, err := r.Condition.toDomain()
	if err != nil {
		return status.TriggerRule{}, err
	}

	switch status.TriggerKind(r.Kind) {
	case status.TriggerChangeStatus:
		toStatus, toErr := kernel.UUIDFromString(r.ToStatusID)
		if toErr != nil {
			return status.TriggerRule{}, errs.NewValueIsInvalidErrorWithCause("to status id", toErr)
		}
		return status.NewChangeStatusRule(id, toStatus, condition)
	default:
		return status.NewResendInvoiceRule(id, status.ResendTarget(r.ResendTarget), condition)
	}
}

// UpdateStatusRequest is the body of PUT /api/v1/statuses/:id. It replaces
// the whole editable configuration, the way the admin form saves a status.
type UpdateStatusRequest struct {
	Name                 string               `json:"name" validate:"required"`
	Description          string               `json:"description"`
	Enabled              bool                 `json:"enabled"`
	DaysEstimation       int                  `json:"days_estimation" validate:"gte=0"`
	SortOrder            int                  `json:"sort_order"`
	Color                string               `json:"color"`
	Background           string               `json:"background"`
	Icon                 string               `json:"icon"`
	IsPaid               bool                 `json:"is_paid"`
	EnabledInBulkActions bool                 `json:"enabled_in_bulk_actions"`
	EnabledInReports     bool                 `json:"enabled_in_reports"`
	NextStatusIDs        []string             `json:"next_status_ids" validate:"dive,uuid"`
	EmailRule            EmailRuleRequest     `json:"email_rule"`
	TriggerRules         []TriggerRuleRequest `json:"trigger_rules" validate:"dive"`
}

func (r UpdateStatusRequest) toAttrs() (commands.StatusAttrs, error) {
	nextStatuses := make([]status.Ref, 0, len(r.NextStatusIDs))
	for _, raw := range r.NextStatusIDs {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return commands.StatusAttrs{}, errs.NewValueIsInvalidErrorWithCause("next status id", err)
		}
		ref, err := status.RefFromID(id)
		if err != nil {
			return commands.StatusAttrs{}, err
		}
		nextStatuses = append(nextStatuses, ref)
	}

	emailRule, err := r.EmailRule.toDomain()
	if err != nil {
		return commands.StatusAttrs{}, err
	}

	triggerRules := make([]status.TriggerRule, 0, len(r.TriggerRules))
	for _, ruleRequest := range r.TriggerRules {
		rule, ruleErr := ruleRequest.toDomain()
		if ruleErr != nil {
			return commands.StatusAttrs{}, ruleErr
		}
		triggerRules = append(triggerRules, rule)
	}

	return commands.StatusAttrs{
		Name:                 r.Name,
		Description:          r.Description,
		Enabled:              r.Enabled,
		DaysEstimation:       r.DaysEstimation,
		SortOrder:            r.SortOrder,
		Color:                r.Color,
		Background:           r.Background,
		Icon:                 r.Icon,
		IsPaid:               r.IsPaid,
		EnabledInBulkActions: r.EnabledInBulkActions,
		EnabledInReports:     r.EnabledInReports,
		NextStatuses:         nextStatuses,
		EmailRule:            emailRule,
		TriggerRules:         triggerRules,
	}, nil
}

// ImportStatusesRequest is the body of POST /api/v1/statuses/import.
type ImportStatusesRequest struct {
	Preset string `json:"preset" validate:"required,oneof=core manufactory food_delivery"`
}

// RecordTransitionRequest is the lifecycle notifier callback body.
// Overwrite is a pointer so an omitted field keeps the recorder's default
// of replacing a still-unresolved duplicate.
type RecordTransitionRequest struct {
	OrderID   string `json:"order_id" validate:"required,uuid"`
	From      string `json:"from"`
	To        string `json:"to" validate:"required"`
	Overwrite *bool  `json:"overwrite"`
}

// OverwriteOrDefault returns the overwrite flag, defaulting to true when the
// caller omitted it.
func (r RecordTransitionRequest) OverwriteOrDefault() bool {
	if r.Overwrite == nil {
		return true
	}
	return *r.Overwrite
}

// TransitionResponse is one recorded transition event on the wire.
type TransitionResponse struct {
	ID                 string     `json:"id"`
	OrderID            string     `json:"order_id"`
	FromStatusSlug     string     `json:"from_status_slug,omitempty"`
	ToStatusSlug       string     `json:"to_status_slug,omitempty"`
	ToStatusName       string     `json:"to_status_name,omitempty"`
	OccurredAt         time.Time  `json:"occurred_at"`
	TriggerProcessedAt *time.Time `json:"trigger_processed_at,omitempty"`
	NotifiedAt         *time.Time `json:"notified_at,omitempty"`
}

func transitionResponseFromReadModel(row queries.GetTransitionLogQueryResponse) TransitionResponse {
	return TransitionResponse{
		ID:                 row.ID.String(),
		OrderID:            row.OrderID.String(),
		FromStatusSlug:     row.FromStatusSlug,
		ToStatusSlug:       row.ToStatusSlug,
		ToStatusName:       row.ToStatusName,
		OccurredAt:         row.OccurredAt,
		TriggerProcessedAt: row.TriggerProcessedAt,
		NotifiedAt:         row.NotifiedAt,
	}
}

func transitionResponseFromEvent(event *transition.Event) TransitionResponse {
	return TransitionResponse{
		ID:                 event.ID().String(),
		OrderID:            event.OrderID().String(),
		OccurredAt:         event.OccurredAt(),
		TriggerProcessedAt: event.TriggerProcessedAt(),
		NotifiedAt:         event.NotifiedAt(),
	}
}
