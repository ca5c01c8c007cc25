// Package mailer sends plain-text email through an SMTP relay.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// Message is a single plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Sender delivers a message in one synchronous attempt.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config holds relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SMTPMailer opens a fresh STARTTLS connection per message, authenticates
// with PLAIN, sends and disconnects.
type SMTPMailer struct {
	cfg Config
}

// NewSMTPMailer creates a mailer for cfg.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMTPMailer{cfg: cfg}
}

// Send delivers msg. It is never retried.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	email, err := buildMsg(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTimeout(m.cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, email); err != nil {
		return fmt.Errorf("failed to send email via %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
	}
	return nil
}

func buildMsg(msg Message) (*mail.Msg, error) {
	email := mail.NewMsg()
	if err := email.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", msg.From, err)
	}
	if err := email.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid to address %q: %w", msg.To, err)
	}
	email.Subject(msg.Subject)
	email.SetBodyString(mail.TypeTextPlain, msg.Body)
	return email, nil
}
