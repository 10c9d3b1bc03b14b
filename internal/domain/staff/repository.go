package staff

import "context"

type Repository interface {
	Create(ctx context.Context, m Member) error
	GetByID(ctx context.Context, id string) (Member, error)
	ListByRole(ctx context.Context, role Role) ([]Member, error)
}
