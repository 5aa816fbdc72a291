package ports

import "context"

// MailMessage is the transport-agnostic shape of one notification email.
type MailMessage struct {
	Recipients  []string
	Subject     string
	Body        string
	Attachments []string
}

// Mailer is the outbound mail collaborator. Implementations must use
// bounded timeouts; a send failure is reported, never retried here.
type Mailer interface {
	Send(ctx context.Context, message MailMessage) error
}
