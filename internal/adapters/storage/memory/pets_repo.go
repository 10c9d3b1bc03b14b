package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/pets"
)

type petRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

func NewPetRepo() pets.Repository {
	return &petRepo{byID: make(map[string]pets.Pet)}
}

func (r *petRepo) Create(_ context.Context, p pets.Pet) error {
	if err := requireID("pet", p.ID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[p.ID]; exists {
		return fmt.Errorf("%w: pet %s", domain.ErrAlreadyExists, p.ID)
	}
	r.byID[p.ID] = p
	return nil
}

func (r *petRepo) Update(_ context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[p.ID]; !exists {
		return notFound("pet", p.ID)
	}
	r.byID[p.ID] = p
	return nil
}

func (r *petRepo) GetByID(_ context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, notFound("pet", id)
	}
	return p, nil
}

func (r *petRepo) ListByClient(_ context.Context, clientID string) ([]pets.Pet, error) {
	return r.filter(func(p pets.Pet) bool { return p.ClientID == clientID }), nil
}

func (r *petRepo) ListBornOn(_ context.Context, month time.Month, day int) ([]pets.Pet, error) {
	return r.filter(func(p pets.Pet) bool {
		bd, ok := p.Birthday()
		return ok && bd.Month == month && bd.Day == day
	}), nil
}

func (r *petRepo) filter(keep func(pets.Pet) bool) []pets.Pet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if keep(p) {
			out = append(out, p)
		}
	}
	// orden estable por created_at asc
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
