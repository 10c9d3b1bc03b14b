package events

import (
	"context"

	"vet-backoffice/internal/platform/logger"
)

// Handler consume eventos de dominio.
type Handler interface {
	Handle(ctx context.Context, ev Event) error
}

type HandlerFunc func(ctx context.Context, ev Event) error

func (f HandlerFunc) Handle(ctx context.Context, ev Event) error { return f(ctx, ev) }

type savepointer interface {
	Savepoint(ctx context.Context, fn func(ctx context.Context) error) error
}

type subscriber struct {
	name string
	h    Handler
}

// Bus entrega eventos de forma síncrona, dentro de la misma unidad de trabajo
// que la escritura que los originó. Los suscriptores son best-effort: si uno
// falla se revierte solo su savepoint, se loguea y se sigue con el resto.
type Bus struct {
	subs []subscriber
	sp   savepointer
	log  logger.Logger
}

func NewBus(sp savepointer, log logger.Logger) *Bus {
	return &Bus{sp: sp, log: log.With(map[string]any{"component": "events"})}
}

// Subscribe registra un handler. Se llama solo durante el wiring.
func (b *Bus) Subscribe(name string, h Handler) {
	b.subs = append(b.subs, subscriber{name: name, h: h})
}

// Publish devuelve la cantidad de entregas fallidas.
func (b *Bus) Publish(ctx context.Context, evs ...Event) int {
	failed := 0
	for _, ev := range evs {
		for _, s := range b.subs {
			if err := b.deliver(ctx, s, ev); err != nil {
				failed++
				b.log.Warn("event handler failed", map[string]any{
					"handler": s.name,
					"event":   string(ev.Kind()),
					"error":   err,
				})
			}
		}
	}
	return failed
}

func (b *Bus) deliver(ctx context.Context, s subscriber, ev Event) error {
	return b.sp.Savepoint(ctx, func(ctx context.Context) error {
		return s.h.Handle(ctx, ev)
	})
}
