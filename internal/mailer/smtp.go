package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog/log"
)

// Config holds the SMTP connection settings.
type Config struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg Config
}

// NewSMTP creates a mailer for the given SMTP configuration.
func NewSMTP(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers a plain-text message to a single recipient.
// When the mailer is disabled the message is logged and dropped, which keeps
// dev setups working without a relay.
func (m *SMTPMailer) Send(to, subject, body string) error {
	if !m.cfg.Enabled {
		log.Info().Str("to", to).Str("subject", subject).Msg("mailer disabled, dropping message")
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.cfg.From, to, subject, body)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var a smtp.Auth
	if m.cfg.Username != "" {
		a = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, a, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	return nil
}
