package notifications

import (
	"context"
	"time"
)

type Repository interface {
	// CreateBatch inserta todas o ninguna. Un DedupKey repetido devuelve domain.ErrAlreadyExists.
	CreateBatch(ctx context.Context, ns []Notification) error
	GetByID(ctx context.Context, id string) (Notification, error)
	ListByRecipient(ctx context.Context, r Recipient, filter ListFilter) ([]Notification, error)
	CountUnread(ctx context.Context, r Recipient) (int, error)
	// MarkRead es idempotente: una notificación ya leída conserva su ReadAt original.
	MarkRead(ctx context.Context, id string, at time.Time) error
	MarkAllRead(ctx context.Context, r Recipient, at time.Time) (int, error)
	ExistsByDedupKey(ctx context.Context, key string) (bool, error)
}
