package email

import "context"

// Message es un email de texto plano.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender entrega un email. Debe respetar el deadline del ctx.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
