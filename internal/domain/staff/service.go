package staff

import (
	"context"
	"strings"
	"time"

	"vet-backoffice/internal/domain"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateInput struct {
	Name  string
	Email string
	Role  Role
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Member, error) {
	var v domain.Validator
	v.Require("name", in.Name)
	if !in.Role.Valid() {
		v.Add("role", "enum", "must be one of vet, assistant, admin")
	}
	if err := v.Err(); err != nil {
		return Member{}, err
	}

	m := Member{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Role:      in.Role,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return Member{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Member, error) {
	return s.repo.GetByID(ctx, id)
}

// ListAdmins alimenta la audiencia "Admins" de las notificaciones.
func (s *Service) ListAdmins(ctx context.Context) ([]Member, error) {
	return s.repo.ListByRole(ctx, RoleAdmin)
}
