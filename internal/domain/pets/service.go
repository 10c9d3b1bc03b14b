package pets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/clients"
	"vet-backoffice/internal/domain/events"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
)

type clientLookup interface {
	GetByID(ctx context.Context, id string) (clients.Client, error)
}

type publisher interface {
	Publish(ctx context.Context, evs ...events.Event) int
}

type Service struct {
	repo    Repository
	clients clientLookup
	uow     domain.UnitOfWork
	bus     publisher
	now     func() time.Time
}

func NewService(repo Repository, clients clientLookup, uow domain.UnitOfWork, bus publisher) *Service {
	return &Service{
		repo:    repo,
		clients: clients,
		uow:     uow,
		bus:     bus,
		now:     time.Now,
	}
}

type CreateInput struct {
	ClientID  string
	Name      string
	Species   Species
	Breed     string
	Sex       Sex
	BirthDate *time.Time
	Microchip string
	Notes     string
}

func (in CreateInput) validate(today civil.Date) error {
	var v domain.Validator
	v.Require("client_id", in.ClientID)
	v.Require("name", in.Name)
	if !in.Species.Valid() {
		v.Add("species", "enum", "must be one of dog, cat, bird, rabbit, other")
	}
	if in.BirthDate != nil && civil.DateOf(*in.BirthDate).After(today) {
		v.Add("birth_date", "future", "birth_date cannot be in the future")
	}
	return v.Err()
}

// Create registra la mascota y publica PetRegistered en la misma transacción.
func (s *Service) Create(ctx context.Context, actor events.Actor, in CreateInput) (Pet, error) {
	now := s.now()
	if err := in.validate(civil.DateOf(now)); err != nil {
		return Pet{}, err
	}
	owner, err := s.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return Pet{}, fmt.Errorf("client %s: %w", in.ClientID, err)
	}

	sex := in.Sex
	if sex == "" {
		sex = SexUnknown
	}

	p := Pet{
		ID:        uuid.NewString(),
		ClientID:  owner.ID,
		Name:      strings.TrimSpace(in.Name),
		Species:   in.Species,
		Breed:     strings.TrimSpace(in.Breed),
		Sex:       sex,
		BirthDate: normalizeDate(in.BirthDate),
		Microchip: strings.TrimSpace(in.Microchip),
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.uow.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
		ev := events.PetRegistered{
			PetID:    p.ID,
			PetName:  p.Name,
			ClientID: p.ClientID,
			Actor:    actor,
			At:       now,
		}
		if bd, ok := p.Birthday(); ok {
			ev.BirthDate = &bd
		}
		s.bus.Publish(ctx, ev)
		return nil
	})
	if err != nil {
		return Pet{}, err
	}
	return p, nil
}

// PatchBirthDate distingue "no enviado" de "enviado como null".
type PatchBirthDate struct {
	Present bool
	Value   *time.Time
}

type UpdateProfileInput struct {
	// nil = no tocar
	Name      *string
	Species   *Species
	Breed     *string
	Sex       *Sex
	BirthDate PatchBirthDate
	Microchip *string
	Notes     *string
}

func (s *Service) UpdateProfile(ctx context.Context, petID string, in UpdateProfileInput) (Pet, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}

	var v domain.Validator
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			v.Add("name", "required", "name cannot be empty")
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Species != nil {
		if !in.Species.Valid() {
			v.Add("species", "enum", "must be one of dog, cat, bird, rabbit, other")
		}
		p.Species = *in.Species
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Sex != nil {
		p.Sex = *in.Sex
	}
	if in.BirthDate.Present {
		p.BirthDate = normalizeDate(in.BirthDate.Value)
	}
	if in.Microchip != nil {
		p.Microchip = strings.TrimSpace(*in.Microchip)
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}
	if err := v.Err(); err != nil {
		return Pet{}, err
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByClient(ctx context.Context, clientID string) ([]Pet, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// ListBirthdaysOn devuelve las mascotas que cumplen años ese día.
// Los nacidos un 29/02 festejan el 28/02 en años no bisiestos.
func (s *Service) ListBirthdaysOn(ctx context.Context, day civil.Date) ([]Pet, error) {
	out, err := s.repo.ListBornOn(ctx, day.Month, day.Day)
	if err != nil {
		return nil, err
	}
	if day.Month == time.February && day.Day == 28 && !isLeap(day.Year) {
		leap, err := s.repo.ListBornOn(ctx, time.February, 29)
		if err != nil {
			return nil, err
		}
		out = append(out, leap...)
	}
	return out, nil
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := civil.DateOf(*t).In(time.UTC)
	return &d
}
