package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/reminders"
)

type reminderRepo struct {
	mu   sync.RWMutex
	byID map[string]reminders.Reminder
}

func NewReminderRepo() reminders.Repository {
	return &reminderRepo{byID: make(map[string]reminders.Reminder)}
}

func (r *reminderRepo) Create(_ context.Context, rem reminders.Reminder) error {
	if err := requireID("reminder", rem.ID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[rem.ID]; exists {
		return fmt.Errorf("%w: reminder %s", domain.ErrAlreadyExists, rem.ID)
	}
	r.byID[rem.ID] = rem
	return nil
}

func (r *reminderRepo) GetByID(_ context.Context, id string) (reminders.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rem, ok := r.byID[id]
	if !ok {
		return reminders.Reminder{}, notFound("reminder", id)
	}
	return rem, nil
}

func (r *reminderRepo) ListPending(_ context.Context) ([]reminders.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]reminders.Reminder, 0)
	for _, rem := range r.byID {
		if rem.Active && !rem.Sent {
			out = append(out, rem)
		}
	}
	sortByTarget(out)
	return out, nil
}

// LockPending no bloquea nada: el TxManager ya serializa las unidades de trabajo.
func (r *reminderRepo) LockPending(ctx context.Context, id string) (reminders.Reminder, error) {
	rem, err := r.GetByID(ctx, id)
	if err != nil {
		return reminders.Reminder{}, err
	}
	if !rem.Active || rem.Sent {
		return reminders.Reminder{}, reminders.ErrNotPending
	}
	return rem, nil
}

func (r *reminderRepo) MarkSent(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.byID[id]
	if !ok {
		return notFound("reminder", id)
	}
	if rem.Sent {
		return reminders.ErrNotPending
	}
	rem.Sent = true
	rem.SentAt = &at
	r.byID[id] = rem
	return nil
}

func (r *reminderRepo) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.byID[id]
	if !ok {
		return notFound("reminder", id)
	}
	rem.Active = false
	r.byID[id] = rem
	return nil
}

func (r *reminderRepo) ListByClient(_ context.Context, clientID string, f reminders.ListFilter) ([]reminders.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]reminders.Reminder, 0)
	for _, rem := range r.byID {
		if rem.ClientID != clientID {
			continue
		}
		if f.PendingOnly && (!rem.Active || rem.Sent) {
			continue
		}
		if f.From != nil && rem.TargetAt.Before(*f.From) {
			continue
		}
		out = append(out, rem)
	}
	sortByTarget(out)
	if n := limitOr(f.Limit); n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func sortByTarget(rs []reminders.Reminder) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].TargetAt.Equal(rs[j].TargetAt) {
			return rs[i].ID < rs[j].ID
		}
		return rs[i].TargetAt.Before(rs[j].TargetAt)
	})
}
