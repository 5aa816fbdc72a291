package status

import (
	"errors"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/pkg/errs"
)

var (
	// ErrStatusIsNotConstructed is returned when a Status instance was not
	// created through NewStatus or RestoreStatus.
	ErrStatusIsNotConstructed = errors.New("Status must be created via NewStatus or RestoreStatus constructor")
)

// Status is a node in the order workflow graph. It is the aggregate root of
// the status directory and carries the configuration the dispatchers consult:
// outgoing edges, the trigger rules, the email rule and the dwell estimation
// used by overdue conditions.
//
// Status maintains these invariants:
//   - Must have a valid unique identifier and a non-empty normalized slug
//   - Kind is either core or custom; core statuses are always enabled
//   - Days estimation is never negative
//   - Can only be created through NewStatus or RestoreStatus
type Status struct {
	id             kernel.UUID
	slug           string
	name           string
	description    string
	kind           Kind
	enabled        bool
	daysEstimation int
	sortOrder      int

	// presentation annotations carried for the admin surface
	color      string
	background string
	icon       string

	isPaid               bool
	enabledInBulkActions bool
	enabledInReports     bool

	nextStatuses []Ref
	emailRule    EmailRule
	triggerRules []TriggerRule

	// ordersCount caches the orders currently in this status. It is refreshed
	// on demand from the host order system and guards deletion.
	ordersCount int

	isConstructed bool
}

// NewStatus creates a new custom status with default presentation values.
// The slug is normalized (lowercased, reserved prefix stripped, truncated);
// an empty normalized slug or name fails validation.
func NewStatus(id kernel.UUID, slug string, name string) (*Status, error) {
	s := &Status{
		kind:          KindCustom,
		color:         "#fff",
		background:    "#777",
		emailRule:     NewEmailRule(false, nil, "", "", true, nil, NewCondition(false, nil, false)),
		isConstructed: true,
	}

	if err := errors.Join(
		s.setID(id),
		s.setSlug(slug),
		s.SetName(name),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// RestoreStatus reconstructs a status from persistence without applying the
// creation defaults. All invariants are still enforced.
func RestoreStatus(
	id kernel.UUID,
	slug string,
	name string,
	description string,
	kind Kind,
	enabled bool,
	daysEstimation int,
	sortOrder int,
	color, background, icon string,
	isPaid, enabledInBulkActions, enabledInReports bool,
	nextStatuses []Ref,
	emailRule EmailRule,
	triggerRules []TriggerRule,
	ordersCount int,
) (*Status, error) {
	s := &Status{
		description:          description,
		sortOrder:            sortOrder,
		color:                color,
		background:           background,
		icon:                 icon,
		isPaid:               isPaid,
		enabledInBulkActions: enabledInBulkActions,
		enabledInReports:     enabledInReports,
		emailRule:            emailRule,
		isConstructed:        true,
	}

	if err := errors.Join(
		s.setID(id),
		s.setSlug(slug),
		s.SetName(name),
		s.SetKind(kind),
		s.SetDaysEstimation(daysEstimation),
	); err != nil {
		return nil, err
	}

	s.enabled = enabled
	s.SetNextStatuses(nextStatuses)
	s.SetTriggerRules(triggerRules)
	s.SetOrdersCount(ordersCount)

	return s, nil
}

// Validate ensures the Status instance was properly constructed.
func (s *Status) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStatusIsNotConstructed
	}
	return nil
}

// IsEqual compares two statuses by their unique identifiers.
func (s *Status) IsEqual(other *Status) bool {
	return other != nil && s.id.IsEqual(other.id)
}

// ID returns the status's unique identifier.
func (s *Status) ID() kernel.UUID {
	return s.id
}

// Slug returns the normalized status slug without the reserved prefix.
func (s *Status) Slug() string {
	return s.slug
}

// PrefixedSlug returns the slug with the host order system's reserved prefix.
// This is the key the host uses for its own status field.
func (s *Status) PrefixedSlug() string {
	return ReservedSlugPrefix + s.slug
}

// Name returns the display name.
func (s *Status) Name() string {
	return s.name
}

// Description returns the free-text description.
func (s *Status) Description() string {
	return s.description
}

// Kind returns the status kind. Core statuses cannot be deleted.
func (s *Status) Kind() Kind {
	return s.kind
}

// IsCore reports whether this is a built-in status.
func (s *Status) IsCore() bool {
	return s.kind == KindCore || isCoreSlug(s.slug)
}

// Enabled reports whether the status participates in the workflow.
// Core statuses are always enabled regardless of the stored flag.
func (s *Status) Enabled() bool {
	if s.IsCore() {
		return true
	}
	return s.enabled
}

// EnabledFlag returns the stored flag without the core override. Persistence
// keeps the raw value so toggling a status back to custom does not lose it.
func (s *Status) EnabledFlag() bool {
	return s.enabled
}

// DaysEstimation returns the expected dwell time in days. Zero disables
// overdue conditions on this status.
func (s *Status) DaysEstimation() int {
	return s.daysEstimation
}

// SortOrder returns the display ordering weight.
func (s *Status) SortOrder() int {
	return s.sortOrder
}

// Color returns the foreground color annotation.
func (s *Status) Color() string {
	return s.color
}

// Background returns the background color annotation.
func (s *Status) Background() string {
	return s.background
}

// Icon returns the icon annotation.
func (s *Status) Icon() string {
	return s.icon
}

// IsPaid reports whether orders in this status count as paid.
func (s *Status) IsPaid() bool {
	return s.isPaid
}

// EnabledInBulkActions reports whether the status is offered in bulk actions.
func (s *Status) EnabledInBulkActions() bool {
	return s.enabledInBulkActions
}

// EnabledInReports reports whether the status is included in reports.
func (s *Status) EnabledInReports() bool {
	return s.enabledInReports
}

// NextStatuses returns the outgoing edges of this node. The edges are UI
// affordances, not an enforcement of legal transitions.
func (s *Status) NextStatuses() []Ref {
	return append([]Ref(nil), s.nextStatuses...)
}

// EmailRule returns the notification email configuration.
func (s *Status) EmailRule() EmailRule {
	return s.emailRule
}

// TriggerRules returns the ordered automated actions configured on this status.
func (s *Status) TriggerRules() []TriggerRule {
	return append([]TriggerRule(nil), s.triggerRules...)
}

// OrdersCount returns the last-known count of orders in this status.
func (s *Status) OrdersCount() int {
	return s.ordersCount
}

// SetName sets the display name. The name is required.
func (s *Status) SetName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	s.name = name
	return nil
}

// SetDescription sets the free-text description.
func (s *Status) SetDescription(description string) {
	s.description = description
}

// SetKind sets the status kind.
func (s *Status) SetKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	s.kind = kind
	return nil
}

// SetEnabled sets the stored enabled flag. Core statuses report enabled
// regardless of this flag.
func (s *Status) SetEnabled(enabled bool) {
	s.enabled = enabled
}

// SetDaysEstimation sets the expected dwell time in days.
func (s *Status) SetDaysEstimation(days int) error {
	if days < 0 || days > maxDaysEstimation {
		return errs.NewValueIsOutOfRangeError("days estimation", days, 0, maxDaysEstimation)
	}
	s.daysEstimation = days
	return nil
}

// SetSortOrder sets the display ordering weight.
func (s *Status) SetSortOrder(order int) {
	s.sortOrder = order
}

// SetAppearance sets the presentation annotations.
func (s *Status) SetAppearance(color, background, icon string) {
	s.color = color
	s.background = background
	s.icon = icon
}

// SetIsPaid sets whether orders in this status count as paid.
func (s *Status) SetIsPaid(isPaid bool) {
	s.isPaid = isPaid
}

// SetBulkActionFlags sets the admin surface visibility flags.
func (s *Status) SetBulkActionFlags(inBulkActions, inReports bool) {
	s.enabledInBulkActions = inBulkActions
	s.enabledInReports = inReports
}

// SetNextStatuses replaces the outgoing edges.
func (s *Status) SetNextStatuses(refs []Ref) {
	s.nextStatuses = append([]Ref(nil), refs...)
}

// SetEmailRule replaces the notification email configuration.
func (s *Status) SetEmailRule(rule EmailRule) {
	s.emailRule = rule
}

// SetTriggerRules replaces the automated actions.
func (s *Status) SetTriggerRules(rules []TriggerRule) {
	s.triggerRules = append([]TriggerRule(nil), rules...)
}

// SetOrdersCount updates the cached order count. Negative counts clamp to zero.
func (s *Status) SetOrdersCount(count int) {
	if count < 0 {
		count = 0
	}
	s.ordersCount = count
}

// ResolveNextStatuses converts slug-valued edges into id-valued edges using
// the supplied lookup. Unresolved slugs whose lookup fails are dropped.
// Returns true when any edge changed, signalling the caller to persist.
func (s *Status) ResolveNextStatuses(lookup func(slug string) (kernel.UUID, bool)) bool {
	changed := false
	resolved := make([]Ref, 0, len(s.nextStatuses))

	for _, ref := range s.nextStatuses {
		if ref.IsResolved() {
			resolved = append(resolved, ref)
			continue
		}

		changed = true
		id, ok := lookup(ref.Slug())
		if !ok {
			continue
		}
		idRef, err := RefFromID(id)
		if err != nil {
			continue
		}
		resolved = append(resolved, idRef)
	}

	if changed {
		s.nextStatuses = resolved
	}
	return changed
}

func (s *Status) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Status) setSlug(raw string) error {
	slug := NormalizeSlug(raw)
	if slug == "" {
		return errs.NewValueIsRequiredError("slug")
	}
	s.slug = slug
	return nil
}

// maxDaysEstimation bounds the dwell estimation to a sane upper limit.
const maxDaysEstimation = 3650
