package mailer

import (
	"context"
	"sync"
	"time"

	"vet-backoffice/internal/platform/logger"
	"vet-backoffice/internal/ports/email"
)

const DefaultTimeout = 10 * time.Second

// Async envía emails fuera del camino crítico. Cada envío corre en su propia
// goroutine con timeout; los fallos solo se loguean.
type Async struct {
	sender  email.Sender
	timeout time.Duration
	log     logger.Logger
	wg      sync.WaitGroup
}

func NewAsync(sender email.Sender, timeout time.Duration, log logger.Logger) *Async {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Async{sender: sender, timeout: timeout, log: log.With(map[string]any{"component": "mailer"})}
}

// Go no bloquea.
func (a *Async) Go(msg email.Message) {
	if a == nil || a.sender == nil {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.sender.Send(ctx, msg); err != nil {
			a.log.Warn("email delivery failed", map[string]any{"to": msg.To, "subject": msg.Subject, "error": err})
			return
		}
		a.log.Debug("email sent", map[string]any{"to": msg.To})
	}()
}

// Wait bloquea hasta que terminan los envíos en curso. No llamar Go en
// paralelo con Wait ni después: el WaitGroup no admite Add durante Wait.
func (a *Async) Wait() {
	if a == nil {
		return
	}
	a.wg.Wait()
}
