package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer delivers one rendered notification to one address.
type Mailer interface {
	Send(ctx context.Context, to string, p Payload) error
}

// SMTPConfig holds the relay settings. User/Password empty means an
// unauthenticated local relay.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPMailer sends plain-text mail through a single SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, to string, p Payload) error {
	if !strings.Contains(to, "@") {
		return fmt.Errorf("invalid email address: %q", to)
	}

	var auth smtp.Auth
	if m.cfg.User != "" && m.cfg.Password != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	msg := buildMessage(m.cfg.From, to, p)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}
	return nil
}

func buildMessage(from, to string, p Payload) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", p.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(p.Body)
	return []byte(b.String())
}
