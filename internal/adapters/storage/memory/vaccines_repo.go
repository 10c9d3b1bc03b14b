package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/vaccines"
)

type vaccineRepo struct {
	mu   sync.RWMutex
	byID map[string]vaccines.Vaccine
}

func NewVaccineRepo() vaccines.Repository {
	return &vaccineRepo{byID: make(map[string]vaccines.Vaccine)}
}

func (r *vaccineRepo) Create(_ context.Context, v vaccines.Vaccine) error {
	if err := requireID("vaccine", v.ID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[v.ID]; exists {
		return fmt.Errorf("%w: vaccine %s", domain.ErrAlreadyExists, v.ID)
	}
	r.byID[v.ID] = v
	return nil
}

func (r *vaccineRepo) GetByID(_ context.Context, id string) (vaccines.Vaccine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.byID[id]
	if !ok {
		return vaccines.Vaccine{}, notFound("vaccine", id)
	}
	return v, nil
}

// ListByPet: más reciente primero.
func (r *vaccineRepo) ListByPet(_ context.Context, petID string) ([]vaccines.Vaccine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]vaccines.Vaccine, 0)
	for _, v := range r.byID {
		if v.PetID == petID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppliedOn.Equal(out[j].AppliedOn) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].AppliedOn.After(out[j].AppliedOn)
	})
	return out, nil
}
