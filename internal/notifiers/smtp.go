package notifiers

import (
	"context"
	"fmt"
	"time"

	"github.com/sbilibin2017/gw-user-activation/internal/models"
	"github.com/wneessen/go-mail"
)

const activationSubject = "Your Activation Code"

// MailSender delivers prepared messages. *mail.Client implements it.
type MailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPNotifier emails activation codes through an SMTP relay.
type SMTPNotifier struct {
	sender MailSender
	from   string
	ttl    time.Duration
}

// NewSMTPClient creates a plain SMTP client for relays such as MailHog.
// No connection is made until a message is sent.
func NewSMTPClient(host string, port int, timeout time.Duration) (*mail.Client, error) {
	return mail.NewClient(host,
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.NoTLS),
		mail.WithTimeout(timeout),
	)
}

// NewSMTPNotifier creates an SMTPNotifier; ttl is only used in the message text.
func NewSMTPNotifier(sender MailSender, from string, ttl time.Duration) *SMTPNotifier {
	return &SMTPNotifier{sender: sender, from: from, ttl: ttl}
}

// SendActivationCode emails the code to n.Email.
func (s *SMTPNotifier) SendActivationCode(ctx context.Context, n models.ActivationNotification) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(n.Email); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(activationSubject)
	msg.SetBodyString(mail.TypeTextPlain, activationBody(n.Code, s.ttl))

	if err := s.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", n.Email, err)
	}
	return nil
}

func activationBody(code string, ttl time.Duration) string {
	return fmt.Sprintf(
		"Your activation code is: %s\n\n"+
			"This code will expire in %s.\n\n"+
			"If you did not request this code, please ignore this email.",
		code, humanizeTTL(ttl),
	)
}

func humanizeTTL(ttl time.Duration) string {
	plural := func(n int64, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s", unit)
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	if ttl >= time.Minute && ttl%time.Minute == 0 {
		return plural(int64(ttl/time.Minute), "minute")
	}
	return plural(int64(ttl/time.Second), "second")
}
