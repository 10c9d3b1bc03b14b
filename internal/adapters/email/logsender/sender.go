package logsender

import (
	"context"

	"vet-backoffice/internal/platform/logger"
	"vet-backoffice/internal/ports/email"
)

// Sender solo loguea el email. Es el default cuando no hay SMTP configurado.
type Sender struct {
	log logger.Logger
}

func New(log logger.Logger) *Sender {
	if log == nil {
		log = logger.Nop()
	}
	return &Sender{log: log.With(map[string]any{"component": "email.log"})}
}

func (s *Sender) Send(_ context.Context, msg email.Message) error {
	s.log.Info("email (not delivered)", map[string]any{
		"to":      msg.To,
		"subject": msg.Subject,
		"body":    msg.Body,
	})
	return nil
}

var _ email.Sender = (*Sender)(nil)
