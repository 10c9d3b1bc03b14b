package reminders

import (
	"context"
	"fmt"
	"sort"
	"time"

	"vet-backoffice/internal/domain/events"
	"vet-backoffice/internal/domain/pets"
	"vet-backoffice/internal/platform/logger"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
)

type petDirectory interface {
	ListByClient(ctx context.Context, clientID string) ([]pets.Pet, error)
}

// Service arma recordatorios desde el bus y expone el lado de lectura.
type Service struct {
	repo   Repository
	mapper *Mapper
	pets   petDirectory
	loc    *time.Location
	log    logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, mapper *Mapper, pets petDirectory, loc *time.Location, log logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:   repo,
		mapper: mapper,
		pets:   pets,
		loc:    loc,
		log:    log.With(map[string]any{"component": "reminders"}),
		now:    time.Now,
	}
}

// Handle es el suscriptor del bus. Los cumpleaños no se persisten.
func (s *Service) Handle(ctx context.Context, ev events.Event) error {
	switch e := ev.(type) {
	case events.AppointmentBooked:
		return s.arm(ctx, s.mapper.OnAppointmentBooked(e))
	case events.VaccineRecorded:
		r, ok := s.mapper.OnVaccineRecorded(e)
		if !ok {
			s.log.Debug("no next-dose reminder", map[string]any{"vaccine_id": e.VaccineID})
			return nil
		}
		return s.arm(ctx, r)
	}
	return nil
}

func (s *Service) arm(ctx context.Context, r Reminder) error {
	r.ID = uuid.NewString()
	r.CreatedAt = s.now()
	if err := s.repo.Create(ctx, r); err != nil {
		return fmt.Errorf("arm %s reminder for %s %s: %w", r.Category, r.RelatedKind, r.RelatedID, err)
	}
	s.log.Debug("reminder armed", map[string]any{
		"reminder_id": r.ID,
		"category":    string(r.Category),
		"target_at":   r.TargetAt,
		"lead_days":   r.LeadDays,
	})
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Reminder, error) {
	return s.repo.GetByID(ctx, id)
}

// ListUpcoming devuelve los recordatorios pendientes del cliente desde hoy,
// junto con el próximo cumpleaños de cada mascota, ordenados por fecha objetivo.
func (s *Service) ListUpcoming(ctx context.Context, clientID string, today civil.Date) ([]Reminder, error) {
	from := today.In(s.loc)
	out, err := s.repo.ListByClient(ctx, clientID, ListFilter{PendingOnly: true, From: &from, Limit: NoLimit})
	if err != nil {
		return nil, err
	}

	ps, err := s.pets.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for _, p := range ps {
		bd, ok := p.Birthday()
		if !ok {
			continue
		}
		out = append(out, s.mapper.birthday(p.ID, p.Name, p.ClientID, bd, today))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TargetAt.Before(out[j].TargetAt) })
	return out, nil
}

// Deactivate apaga el recordatorio para que el dispatcher lo ignore.
func (s *Service) Deactivate(ctx context.Context, id string) (Reminder, error) {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return Reminder{}, err
	}
	return s.repo.GetByID(ctx, id)
}
