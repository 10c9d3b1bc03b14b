package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/appointments"
)

type appointmentRepo struct {
	mu   sync.RWMutex
	byID map[string]appointments.Appointment
}

func NewAppointmentRepo() appointments.Repository {
	return &appointmentRepo{byID: make(map[string]appointments.Appointment)}
}

func (r *appointmentRepo) Create(_ context.Context, a appointments.Appointment) error {
	if err := requireID("appointment", a.ID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[a.ID]; exists {
		return fmt.Errorf("%w: appointment %s", domain.ErrAlreadyExists, a.ID)
	}
	r.byID[a.ID] = a
	return nil
}

func (r *appointmentRepo) Update(_ context.Context, a appointments.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[a.ID]; !exists {
		return notFound("appointment", a.ID)
	}
	r.byID[a.ID] = a
	return nil
}

func (r *appointmentRepo) GetByID(_ context.Context, id string) (appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return appointments.Appointment{}, notFound("appointment", id)
	}
	return a, nil
}

// ListByPet: por fecha programada ascendente.
func (r *appointmentRepo) ListByPet(_ context.Context, petID string, f appointments.ListFilter) ([]appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if a.PetID != petID {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, a.Status) {
			continue
		}
		if f.From != nil && a.ScheduledAt.Before(*f.From) {
			continue
		}
		if f.To != nil && a.ScheduledAt.After(*f.To) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })

	if n := limitOr(f.Limit); n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}
