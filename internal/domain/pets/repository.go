package pets

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	ListByClient(ctx context.Context, clientID string) ([]Pet, error)
	// ListBornOn devuelve mascotas cuyo cumpleaños cae en ese mes/día (cualquier año).
	ListBornOn(ctx context.Context, month time.Month, day int) ([]Pet, error)
}
