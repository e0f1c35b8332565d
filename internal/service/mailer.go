package service

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// Mailer sends transactional email. The only current use is the
// password-reset flow, whose failure must roll back the issued token.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends plain-text mail through an SMTP relay.
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPMailer(host, port, user, pass, from string) (*SMTPMailer, error) {
	if host == "" {
		return nil, errors.New("smtp host is not configured")
	}
	return &SMTPMailer{host: host, port: port, user: user, pass: pass, from: from}, nil
}

// LogMailer writes mail to the log instead of sending it. Used in
// development when no SMTP relay is configured.
type LogMailer struct{ Log zerolog.Logger }

func (m LogMailer) Send(to, subject, body string) error {
	m.Log.Info().Str("to", to).Str("subject", subject).Msg("mail (not sent, no smtp relay)")
	return nil
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
