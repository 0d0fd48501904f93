package mailer

import (
	"gopkg.in/gomail.v2"

	"github.com/tutorhive/tutorhive-api/pkg/config"
)

// Sender delivers a plain-text email to one or more recipients.
type Sender interface {
	Send(subject, body string, recipients []string) error
}

// SMTPMailer sends mail through an SMTP relay using gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTP builds an SMTPMailer from config.
func NewSMTP(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send composes and dials out a single message.
func (m *SMTPMailer) Send(subject, body string, recipients []string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}
