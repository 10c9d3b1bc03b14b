package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"vet-backoffice/internal/ports/email"

	"gopkg.in/mail.v2"
)

var ErrNotConfigured = errors.New("smtp sender not configured")

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// InsecureSkipVerify solo para servidores de desarrollo (mailhog).
	InsecureSkipVerify bool
	Timeout            time.Duration
}

type Sender struct {
	dialer *mail.Dialer
	from   string
}

func New(cfg Config) (*Sender, error) {
	if strings.TrimSpace(cfg.Host) == "" || strings.TrimSpace(cfg.From) == "" {
		return nil, ErrNotConfigured
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	d := mail.NewDialer(cfg.Host, port, cfg.Username, cfg.Password)
	if cfg.Timeout > 0 {
		d.Timeout = cfg.Timeout
	}
	if cfg.InsecureSkipVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true, ServerName: cfg.Host} //nolint:gosec
		d.StartTLSPolicy = mail.OpportunisticStartTLS
	}
	return &Sender{dialer: d, from: cfg.From}, nil
}

// Send usa DialAndSend, que no recibe ctx; se corta al vencer el ctx
// y el dialer queda acotado por su propio Timeout.
func (s *Sender) Send(ctx context.Context, msg email.Message) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", msg.To, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send to %s: %w", msg.To, ctx.Err())
	}
}

var _ email.Sender = (*Sender)(nil)
