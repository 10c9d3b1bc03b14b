package clients

import (
	"context"
	"strings"
	"time"

	"vet-backoffice/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name       string
	Email      string
	Phone      string
	Preference CommunicationPreference
}

func (in CreateInput) validate() error {
	var v domain.Validator
	v.Require("name", in.Name)
	if err := validate.Var(strings.TrimSpace(in.Email), "omitempty,email"); err != nil {
		v.Add("email", "format", "email is not a valid address")
	}
	if in.Preference != "" && !in.Preference.Valid() {
		v.Add("communication_preference", "enum", "must be one of email, sms, whatsapp")
	}
	return v.Err()
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Client, error) {
	if in.Preference == "" {
		in.Preference = PreferenceEmail
	}
	if err := in.validate(); err != nil {
		return Client{}, err
	}

	now := s.now()
	c := Client{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:      strings.TrimSpace(in.Phone),
		Preference: in.Preference,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Client, error) {
	return s.repo.List(ctx)
}
