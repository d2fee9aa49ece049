package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"jetcargo-backend/lib/submission"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("jetcargo.lib.notify")

// Notifier tells staff about a new lead.
type Notifier interface {
	Notify(ctx context.Context, sub submission.Submission, contactId string) error
}

// Noop is used when no smtp server is configured.
type Noop struct{}

func (Noop) Notify(context.Context, submission.Submission, string) error {
	return nil
}

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

// Mailer sends a plaintext summary of every lead to a list of recipients.
type Mailer struct {
	smtp SmtpConfig
	to   []string
}

func NewMailer(config SmtpConfig, to []string) Mailer {
	return Mailer{smtp: config, to: to}
}

// Render builds the subject and body of the notification.
func Render(sub submission.Submission, contactId string) (subject, body string) {
	name := sub.Name()
	if name == "" {
		name = sub.Email()
	}
	subject = fmt.Sprintf("New %s lead: %s", sub.ServiceType().Title(), name)

	var out strings.Builder
	fmt.Fprintf(&out, "A new form was submitted on %s.\n\n", sub[submission.KeyPageURL])
	if contactId != "" {
		fmt.Fprintf(&out, "CRM contact: %s\n\n", contactId)
	}
	for _, key := range sub.Keys() {
		if submission.IsMetadata(key) {
			continue
		}
		fmt.Fprintf(&out, "%s: %s\n", key, sub[key])
	}
	fmt.Fprintf(&out, "\nreferrer: %s\nsubmitted at: %s\n", sub[submission.KeyReferrer], sub[submission.KeyTimestamp])
	return subject, out.String()
}

func (m Mailer) Notify(ctx context.Context, sub submission.Submission, contactId string) error {
	_, span := tracer.Start(ctx, "Notify")
	defer span.End()

	if len(m.to) == 0 {
		return nil
	}

	subject, body := Render(sub, contactId)
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Jet Cargo Website <%s>", m.smtp.EmailAddress)
	mail.To = m.to
	mail.Subject = subject
	mail.Text = []byte(body)
	if sub.Email() != "" {
		mail.ReplyTo = []string{sub.Email()}
	}

	addr := fmt.Sprintf("%s:%d", m.smtp.Server, m.smtp.Port)
	err := mail.Send(addr, smtp.PlainAuth("", m.smtp.EmailAddress, m.smtp.Password, m.smtp.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return fmt.Errorf("send lead notification: %w", err)
	}
	return nil
}
