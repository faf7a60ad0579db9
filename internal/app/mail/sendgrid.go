package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sethvargo/go-retry"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/logx"
)

const sendAttempts = 3

// SendGridMailer delivers email through the SendGrid v3 API with bounded
// exponential backoff on transient failures.
type SendGridMailer struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
}

// NewSendGridMailer builds a mailer from the API key and sender identity.
func NewSendGridMailer(apiKey, fromName, fromAddr string) *SendGridMailer {
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(apiKey),
		fromName: fromName,
		fromAddr: fromAddr,
	}
}

// Send delivers the email, retrying transient failures. A non-2xx API status is
// treated as transient; the error surfaces only after the attempts are exhausted.
func (m *SendGridMailer) Send(ctx context.Context, email Email) error {
	from := sgmail.NewEmail(m.fromName, m.fromAddr)
	to := sgmail.NewEmail(email.ToName, email.ToEmail)
	message := sgmail.NewSingleEmail(from, email.Subject, to, email.TextBody, email.HTMLBody)

	backoff := retry.WithMaxRetries(sendAttempts-1, retry.NewExponential(500*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := m.client.SendWithContext(ctx, message)
		if err != nil {
			return retry.RetryableError(err)
		}
		if resp.StatusCode >= 300 {
			return retry.RetryableError(fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body))
		}
		return nil
	})
	if err != nil {
		logx.Error(err, "Email delivery failed", "to", email.ToEmail, "subject", email.Subject)
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}
