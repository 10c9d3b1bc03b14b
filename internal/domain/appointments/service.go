package appointments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/events"
	"vet-backoffice/internal/domain/pets"
	"vet-backoffice/internal/platform/logger"

	"github.com/google/uuid"
)

type petLookup interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}

type publisher interface {
	Publish(ctx context.Context, evs ...events.Event) int
}

type Service struct {
	repo   Repository
	pets   petLookup
	uow    domain.UnitOfWork
	bus    publisher
	policy BookingPolicy
	rules  Rules
	log    logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, pets petLookup, uow domain.UnitOfWork, bus publisher, policy BookingPolicy, log logger.Logger) *Service {
	return &Service{
		repo:   repo,
		pets:   pets,
		uow:    uow,
		bus:    bus,
		policy: policy,
		rules:  policy.Rules(),
		log:    log.With(map[string]any{"component": "appointments"}),
		now:    time.Now,
	}
}

type BookInput struct {
	PetID           string
	ScheduledAt     time.Time
	Category        Category
	Priority        Priority
	Channel         Channel
	StaffID         string
	DurationMinutes int
	Reason          string
	Symptoms        string
	Notes           string
}

func (in BookInput) validate() error {
	var v domain.Validator
	v.Require("pet_id", in.PetID)
	v.Require("reason", in.Reason)
	if !in.Category.Valid() {
		v.Add("category", "enum", "must be one of consulta, vacunacion, desparasitacion, urgencia, cirugia, estetica")
	}
	if in.Priority != "" && !in.Priority.Valid() {
		v.Add("priority", "enum", "must be one of normal, urgent, emergency")
	}
	if in.DurationMinutes < 0 {
		v.Add("duration_minutes", "min", "duration_minutes cannot be negative")
	}
	return v.Err()
}

// Book reserva una cita. Las reglas de agenda se evalúan antes de cualquier escritura;
// si fallan no se crea nada.
func (s *Service) Book(ctx context.Context, actor events.Actor, in BookInput) (Appointment, error) {
	if err := in.validate(); err != nil {
		return Appointment{}, err
	}
	now := s.now()
	if err := s.rules.Validate(in.ScheduledAt, now); err != nil {
		return Appointment{}, err
	}

	p, err := s.pets.GetByID(ctx, in.PetID)
	if err != nil {
		return Appointment{}, fmt.Errorf("pet %s: %w", in.PetID, err)
	}

	if in.Priority == "" {
		in.Priority = PriorityNormal
	}
	if in.Channel == "" {
		in.Channel = ChannelStaff
	}
	if in.DurationMinutes == 0 {
		in.DurationMinutes = 30
	}

	status := StatusScheduled
	if in.Channel == ChannelSelfService && s.policy.SelfServiceConfirms {
		status = StatusConfirmed
	}

	a := Appointment{
		ID:              uuid.NewString(),
		PetID:           p.ID,
		ScheduledAt:     in.ScheduledAt,
		DurationMinutes: in.DurationMinutes,
		Category:        in.Category,
		Priority:        in.Priority,
		Status:          status,
		Channel:         in.Channel,
		StaffID:         strings.TrimSpace(in.StaffID),
		Reason:          strings.TrimSpace(in.Reason),
		Symptoms:        strings.TrimSpace(in.Symptoms),
		Notes:           strings.TrimSpace(in.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.uow.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, a); err != nil {
			return err
		}
		s.bus.Publish(ctx, events.AppointmentBooked{
			AppointmentID: a.ID,
			PetID:         p.ID,
			PetName:       p.Name,
			ClientID:      p.ClientID,
			ScheduledAt:   a.ScheduledAt,
			Category:      string(a.Category),
			CategoryLabel: a.Category.Label(),
			Priority:      string(a.Priority),
			Status:        string(a.Status),
			Actor:         actor,
			At:            now,
		})
		return nil
	})
	if err != nil {
		return Appointment{}, err
	}

	s.log.Info("appointment booked", map[string]any{
		"appointment_id": a.ID,
		"pet_id":         a.PetID,
		"status":         string(a.Status),
	})
	return a, nil
}

// ChangeStatus aplica una transición. Para reprogramar usar Reschedule.
func (s *Service) ChangeStatus(ctx context.Context, id string, to Status, actor events.Actor) (Appointment, error) {
	return s.apply(ctx, id, to, actor, nil)
}

// Reschedule mueve la cita a un nuevo horario. No rearma el recordatorio:
// solo la creación de la cita arma uno.
// Una cita terminal falla con InvalidTransition antes de evaluar el nuevo horario.
func (s *Service) Reschedule(ctx context.Context, id string, at time.Time, actor events.Actor) (Appointment, error) {
	return s.apply(ctx, id, StatusRescheduled, actor, &at)
}

func (s *Service) apply(ctx context.Context, id string, to Status, actor events.Actor, newTime *time.Time) (Appointment, error) {
	var out Appointment
	err := s.uow.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		next, change, err := Transition(current, to, actor, s.now())
		if err != nil {
			return err
		}
		if to == StatusRescheduled && newTime == nil {
			return domain.NewValidationError("scheduled_at", "required", "use reschedule to move an appointment to a new date")
		}
		if newTime != nil {
			if err := s.rules.Validate(*newTime, s.now()); err != nil {
				return err
			}
		}

		var previous *time.Time
		if newTime != nil {
			prev := current.ScheduledAt
			previous = &prev
			next.ScheduledAt = *newTime
		}

		if err := s.repo.Update(ctx, next); err != nil {
			return err
		}

		p, err := s.pets.GetByID(ctx, next.PetID)
		if err != nil {
			return fmt.Errorf("pet %s: %w", next.PetID, err)
		}

		s.bus.Publish(ctx, events.AppointmentStatusChanged{
			AppointmentID:       next.ID,
			PetID:               p.ID,
			PetName:             p.Name,
			ClientID:            p.ClientID,
			From:                string(change.From),
			To:                  string(change.To),
			ScheduledAt:         next.ScheduledAt,
			PreviousScheduledAt: previous,
			CategoryLabel:       next.Category.Label(),
			Actor:               change.Actor,
			At:                  change.At,
		})
		out = next
		return nil
	})
	if err != nil {
		return Appointment{}, err
	}

	s.log.Info("appointment status changed", map[string]any{
		"appointment_id": out.ID,
		"status":         string(out.Status),
		"actor":          actor.ID,
	})
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPet(ctx context.Context, petID string, filter ListFilter) ([]Appointment, error) {
	return s.repo.ListByPet(ctx, petID, filter)
}
