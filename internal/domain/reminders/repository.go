package reminders

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, r Reminder) error
	GetByID(ctx context.Context, id string) (Reminder, error)
	// ListPending devuelve active = true AND sent = false.
	ListPending(ctx context.Context) ([]Reminder, error)
	// LockPending relee el recordatorio bloqueándolo hasta el fin de la transacción.
	// Devuelve ErrNotPending si ya no está pendiente.
	LockPending(ctx context.Context, id string) (Reminder, error)
	// MarkSent solo pasa de false a true; si ya estaba enviado devuelve ErrNotPending.
	MarkSent(ctx context.Context, id string, at time.Time) error
	Deactivate(ctx context.Context, id string) error
	ListByClient(ctx context.Context, clientID string, filter ListFilter) ([]Reminder, error)
}
