// Package statusrepo provides data transfer objects and mapping functions for
// status persistence. This package implements the repository pattern for the
// status aggregate, handling the conversion between domain entities and
// database representations. Rule configuration is stored as JSONB documents
// on the status row; only the fields the read side filters on get columns.
package statusrepo

import (
	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/status"

	"github.com/google/uuid"
)

// StatusDTO represents the database structure for persisting status aggregates.
// The slug carries a unique index because it is the external identity the host
// order system addresses statuses by.
type StatusDTO struct {
	ID                   uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Slug                 string           `gorm:"size:20;uniqueIndex"`
	Name                 string           `gorm:"not null"`
	Description          string           `gorm:"type:text"`
	Kind                 string           `gorm:"size:16;index"`
	Enabled              bool             `gorm:"not null"`
	DaysEstimation       int              `gorm:"not null;default:0"`
	SortOrder            int              `gorm:"not null;default:0"`
	Color                string           `gorm:"size:32"`
	Background           string           `gorm:"size:32"`
	Icon                 string           `gorm:"size:64"`
	IsPaid               bool             `gorm:"not null;default:false"`
	EnabledInBulkActions bool             `gorm:"not null;default:true"`
	EnabledInReports     bool             `gorm:"not null;default:true"`
	NextStatuses         []RefDTO         `gorm:"serializer:json;type:jsonb"`
	EmailRule            EmailRuleDTO     `gorm:"serializer:json;type:jsonb"`
	TriggerRules         []TriggerRuleDTO `gorm:"serializer:json;type:jsonb"`
	OrdersCount          int              `gorm:"not null;default:0"`
}

// TableName specifies the database table name for status entities.
// Overrides GORM's default naming convention to use "statuses".
func (StatusDTO) TableName() string {
	return "statuses"
}

// RefDTO represents one outgoing edge inside the next-statuses document.
// Exactly one of ID and Slug is set, mirroring the two Ref states.
type RefDTO struct {
	ID   *uuid.UUID `json:"id,omitempty"`
	Slug string     `json:"slug,omitempty"`
}

// ConditionDTO represents a rule condition inside a rule document.
type ConditionDTO struct {
	Enabled      bool        `json:"enabled"`
	FromStatuses []uuid.UUID `json:"from_statuses,omitempty"`
	IfOverdue    bool        `json:"if_overdue"`
}

// EmailRuleDTO represents the notification email document on a status row.
type EmailRuleDTO struct {
	Enabled             bool         `json:"enabled"`
	Recipients          []string     `json:"recipients,omitempty"`
	Subject             string       `json:"subject,omitempty"`
	Body                string       `json:"body,omitempty"`
	IncludeOrderDetails bool         `json:"include_order_details"`
	Attachments         []string     `json:"attachments,omitempty"`
	Condition           ConditionDTO `json:"condition"`
}

// TriggerRuleDTO represents one automated action inside the trigger document.
type TriggerRuleDTO struct {
	ID           uuid.UUID    `json:"id"`
	Kind         string       `json:"kind"`
	ToStatus     *uuid.UUID   `json:"to_status,omitempty"`
	ResendTarget string       `json:"resend_target,omitempty"`
	Condition    ConditionDTO `json:"condition"`
}

// fromDomain converts a status domain aggregate to its database representation.
func fromDomain(aggregate *status.Status) StatusDTO {
	refs := make([]RefDTO, 0, len(aggregate.NextStatuses()))
	for _, ref := range aggregate.NextStatuses() {
		refs = append(refs, refFromDomain(ref))
	}

	rules := make([]TriggerRuleDTO, 0, len(aggregate.TriggerRules()))
	for _, rule := range aggregate.TriggerRules() {
		rules = append(rules, triggerRuleFromDomain(rule))
	}

	return StatusDTO{
		ID:                   aggregate.ID().Bytes(),
		Slug:                 aggregate.Slug(),
		Name:                 aggregate.Name(),
		Description:          aggregate.Description(),
		Kind:                 string(aggregate.Kind()),
		Enabled:              aggregate.EnabledFlag(),
		DaysEstimation:       aggregate.DaysEstimation(),
		SortOrder:            aggregate.SortOrder(),
		Color:                aggregate.Color(),
		Background:           aggregate.Background(),
		Icon:                 aggregate.Icon(),
		IsPaid:               aggregate.IsPaid(),
		EnabledInBulkActions: aggregate.EnabledInBulkActions(),
		EnabledInReports:     aggregate.EnabledInReports(),
		NextStatuses:         refs,
		EmailRule:            emailRuleFromDomain(aggregate.EmailRule()),
		TriggerRules:         rules,
		OrdersCount:          aggregate.OrdersCount(),
	}
}

func refFromDomain(ref status.Ref) RefDTO {
	if ref.IsResolved() {
		id := ref.ID().Bytes()
		return RefDTO{ID: &id}
	}
	return RefDTO{Slug: ref.Slug()}
}

func conditionFromDomain(condition status.Condition) ConditionDTO {
	fromStatuses := make([]uuid.UUID, 0, len(condition.FromStatuses()))
	for _, id := range condition.FromStatuses() {
		fromStatuses = append(fromStatuses, id.Bytes())
	}

	return ConditionDTO{
		Enabled:      condition.Enabled(),
		FromStatuses: fromStatuses,
		IfOverdue:    condition.IfOverdue(),
	}
}

func emailRuleFromDomain(rule status.EmailRule) EmailRuleDTO {
	return EmailRuleDTO{
		Enabled:             rule.Enabled(),
		Recipients:          rule.Recipients(),
		Subject:             rule.Subject(),
		Body:                rule.Body(),
		IncludeOrderDetails: rule.IncludeOrderDetails(),
		Attachments:         rule.Attachments(),
		Condition:           conditionFromDomain(rule.Condition()),
	}
}

func triggerRuleFromDomain(rule status.TriggerRule) TriggerRuleDTO {
	dto := TriggerRuleDTO{
		ID:           rule.ID().Bytes(),
		Kind:         string(rule.Kind()),
		ResendTarget: string(rule.ResendTarget()),
		Condition:    conditionFromDomain(rule.Condition()),
	}

	if rule.Kind() == status.TriggerChangeStatus {
		toStatus := rule.ToStatus().Bytes()
		dto.ToStatus = &toStatus
	}

	return dto
}

// toDomain converts a database DTO to a status domain aggregate.
// Reconstructs the complete aggregate including rule documents using RestoreStatus.
func toDomain(dto StatusDTO) (*status.Status, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	refs := make([]status.Ref, 0, len(dto.NextStatuses))
	for _, refDTO := range dto.NextStatuses {
		ref, refErr := refToDomain(refDTO)
		if refErr != nil {
			return nil, refErr
		}
		refs = append(refs, ref)
	}

	emailCondition, err := conditionToDomain(dto.EmailRule.Condition)
	if err != nil {
		return nil, err
	}
	emailRule := status.NewEmailRule(
		dto.EmailRule.Enabled,
		dto.EmailRule.Recipients,
		dto.EmailRule.Subject,
		dto.EmailRule.Body,
		dto.EmailRule.IncludeOrderDetails,
		dto.EmailRule.Attachments,
		emailCondition,
	)

	rules := make([]status.TriggerRule, 0, len(dto.TriggerRules))
	for _, ruleDTO := range dto.TriggerRules {
		rule, ruleErr := triggerRuleToDomain(ruleDTO)
		if ruleErr != nil {
			return nil, ruleErr
		}
		rules = append(rules, rule)
	}

	return status.RestoreStatus(
		id,
		dto.Slug,
		dto.Name,
		dto.Description,
		status.Kind(dto.Kind),
		dto.Enabled,
		dto.DaysEstimation,
		dto.SortOrder,
		dto.Color, dto.Background, dto.Icon,
		dto.IsPaid, dto.EnabledInBulkActions, dto.EnabledInReports,
		refs,
		emailRule,
		rules,
		dto.OrdersCount,
	)
}

func refToDomain(dto RefDTO) (status.Ref, error) {
	if dto.ID != nil {
		id, err := kernel.UUIDFromBytes((*dto.ID)[:])
		if err != nil {
			return status.Ref{}, err
		}
		return status.RefFromID(id)
	}
	return status.RefFromSlug(dto.Slug)
}

func conditionToDomain(dto ConditionDTO) (status.Condition, error) {
	fromStatuses := make([]kernel.UUID, 0, len(dto.FromStatuses))
	for _, raw := range dto.FromStatuses {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return status.Condition{}, err
		}
		fromStatuses = append(fromStatuses, id)
	}

	return status.NewCondition(dto.Enabled, fromStatuses, dto.IfOverdue), nil
}

func triggerRuleToDomain(dto TriggerRuleDTO) (status.TriggerRule, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return status.TriggerRule{}, err
	}

	var toStatus kernel.UUID
	if dto.ToStatus != nil {
		toStatus, err = kernel.UUIDFromBytes((*dto.ToStatus)[:])
		if err != nil {
			return status.TriggerRule{}, err
		}
	}

	condition, err := conditionToDomain(dto.Condition)
	if err != nil {
		return status.TriggerRule{}, err
	}

	return status.RestoreTriggerRule(
		id,
		status.TriggerKind(dto.Kind),
		toStatus,
		status.ResendTarget(dto.ResendTarget),
		condition,
	)
}
