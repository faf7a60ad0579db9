/*
Package mail renders and delivers Haven's notification emails.

The Mailer interface keeps senders swappable: production uses SendGrid, tests use
an in-memory fake. Bodies are rendered from embedded HTML templates.
*/
package mail

import "context"

// Email is one outbound message, fully rendered.
type Email struct {
	ToName   string
	ToEmail  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers an email. Implementations return an error only when the message
// was not accepted for delivery, so callers can gate state changes on success.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}
