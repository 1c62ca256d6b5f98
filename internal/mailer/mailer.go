package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends account emails. Kept as an interface so services can be
// tested without an SMTP server.
type Mailer interface {
	SendVerificationEmail(to, link string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a mailer backed by a plain SMTP dialer
func NewSMTPMailer(host string, port int, user, password, from string) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// SendVerificationEmail sends the confirmation link to a freshly
// registered address
func (m *smtpMailer) SendVerificationEmail(to, link string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Confirm your email")
	msg.SetBody("text/html", fmt.Sprintf(
		`<p>Welcome! Please confirm your email address by following <a href="%s">this link</a>.</p>`, link))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}
