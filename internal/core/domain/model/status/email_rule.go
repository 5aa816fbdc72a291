package status

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultEmailBody is the body used when an email rule is created without one.
const DefaultEmailBody = "Your Order status has changed"

var emailValidate = validator.New()

// EmailRule configures the notification email attached to a status.
// When the rule's condition matches a transition into the status, the
// notification dispatcher builds a mail from the rule and sends it.
type EmailRule struct {
	enabled             bool
	recipients          []string
	subject             string
	body                string
	includeOrderDetails bool
	attachments         []string
	condition           Condition
}

// NewEmailRule creates an email rule. Recipients failing address validation
// are silently dropped; an empty body falls back to DefaultEmailBody.
func NewEmailRule(
	enabled bool,
	recipients []string,
	subject string,
	body string,
	includeOrderDetails bool,
	attachments []string,
	condition Condition,
) EmailRule {
	if body == "" {
		body = DefaultEmailBody
	}

	return EmailRule{
		enabled:             enabled,
		recipients:          filterRecipients(recipients),
		subject:             subject,
		body:                body,
		includeOrderDetails: includeOrderDetails,
		attachments:         append([]string(nil), attachments...),
		condition:           condition,
	}
}

// ParseRecipients splits a comma-separated recipient list into addresses.
func ParseRecipients(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	recipients := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	return recipients
}

func filterRecipients(recipients []string) []string {
	valid := make([]string, 0, len(recipients))
	for _, r := range recipients {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if emailValidate.Var(r, "email") != nil {
			continue
		}
		valid = append(valid, r)
	}
	return valid
}

// Enabled reports whether matching this rule actually sends mail.
// Disabled rules still count toward stamping an event as notified.
func (r EmailRule) Enabled() bool {
	return r.enabled
}

// Recipients returns the validated recipient addresses.
func (r EmailRule) Recipients() []string {
	return append([]string(nil), r.recipients...)
}

// Subject returns the mail subject.
func (r EmailRule) Subject() string {
	return r.subject
}

// Body returns the mail body.
func (r EmailRule) Body() string {
	return r.body
}

// IncludeOrderDetails reports whether the mail should embed an order summary.
func (r EmailRule) IncludeOrderDetails() bool {
	return r.includeOrderDetails
}

// Attachments returns the opaque attachment file references.
func (r EmailRule) Attachments() []string {
	return append([]string(nil), r.attachments...)
}

// Condition returns the predicate gating this rule.
func (r EmailRule) Condition() Condition {
	return r.condition
}
