// Package mail implements the Mailer port over SMTP using gomail.
package mail

import (
	"context"

	"statusflow/internal/core/ports"

	"gopkg.in/gomail.v2"
)

// SMTPMailer sends notification emails through an SMTP relay.
//
// Example:
//
//	mailer := mail.NewSMTPMailer("smtp.example.com", 587, "user", "pass", "noreply@example.com")
//	err := mailer.Send(ctx, ports.MailMessage{
//	    Recipients: []string{"ops@example.com"},
//	    Subject:    "Order status changed",
//	    Body:       "Your Order status has changed",
//	})
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a mailer against the given SMTP relay.
func NewSMTPMailer(host string, port int, username string, password string, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers one notification email. The context is honored up to the
// point the SMTP dialer takes over; the dialer itself bounds the connection.
func (m *SMTPMailer) Send(ctx context.Context, message ports.MailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", message.Recipients...)
	msg.SetHeader("Subject", message.Subject)
	msg.SetBody("text/plain", message.Body)

	for _, attachment := range message.Attachments {
		msg.Attach(attachment)
	}

	return m.dialer.DialAndSend(msg)
}
