package vaccines

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/events"
	"vet-backoffice/internal/domain/pets"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
)

type petLookup interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}

type publisher interface {
	Publish(ctx context.Context, evs ...events.Event) int
}

type Service struct {
	repo Repository
	pets petLookup
	uow  domain.UnitOfWork
	bus  publisher
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo Repository, pets petLookup, uow domain.UnitOfWork, bus publisher, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo: repo,
		pets: pets,
		uow:  uow,
		bus:  bus,
		loc:  loc,
		now:  time.Now,
	}
}

type RecordInput struct {
	Name       string
	Batch      string
	AppliedOn  civil.Date
	NextDoseOn *civil.Date
	StaffID    string
	Notes      string
}

func (in RecordInput) validate(today civil.Date) error {
	var v domain.Validator
	v.Require("name", in.Name)
	if !in.AppliedOn.IsValid() {
		v.Add("applied_on", "required", "applied_on is required")
	} else if in.AppliedOn.After(today) {
		v.Add("applied_on", "future", "applied_on cannot be in the future")
	}
	if in.NextDoseOn != nil && in.AppliedOn.IsValid() && !in.NextDoseOn.After(in.AppliedOn) {
		v.Add("next_dose_on", "order", "next_dose_on must be after applied_on")
	}
	return v.Err()
}

// Record registra la vacuna y publica VaccineRecorded en la misma transacción.
func (s *Service) Record(ctx context.Context, petID string, actor events.Actor, in RecordInput) (Vaccine, error) {
	now := s.now()
	if err := in.validate(civil.DateOf(now.In(s.loc))); err != nil {
		return Vaccine{}, err
	}
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Vaccine{}, fmt.Errorf("pet %s: %w", petID, err)
	}

	v := Vaccine{
		ID:        uuid.NewString(),
		PetID:     p.ID,
		Name:      strings.TrimSpace(in.Name),
		Batch:     strings.TrimSpace(in.Batch),
		AppliedOn: in.AppliedOn.In(time.UTC),
		StaffID:   strings.TrimSpace(in.StaffID),
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
	}
	if in.NextDoseOn != nil {
		t := in.NextDoseOn.In(time.UTC)
		v.NextDoseOn = &t
	}

	err = s.uow.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, v); err != nil {
			return err
		}
		s.bus.Publish(ctx, events.VaccineRecorded{
			VaccineID:  v.ID,
			PetID:      p.ID,
			PetName:    p.Name,
			ClientID:   p.ClientID,
			Name:       v.Name,
			AppliedOn:  in.AppliedOn,
			NextDoseOn: in.NextDoseOn,
			Actor:      actor,
			At:         now,
		})
		return nil
	})
	if err != nil {
		return Vaccine{}, err
	}
	return v, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Vaccine, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]Vaccine, error) {
	return s.repo.ListByPet(ctx, petID)
}
