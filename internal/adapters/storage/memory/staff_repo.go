package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/staff"
)

type staffRepo struct {
	mu   sync.RWMutex
	byID map[string]staff.Member
}

func NewStaffRepo() staff.Repository {
	return &staffRepo{byID: make(map[string]staff.Member)}
}

func (r *staffRepo) Create(_ context.Context, m staff.Member) error {
	if err := requireID("staff", m.ID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[m.ID]; exists {
		return fmt.Errorf("%w: staff %s", domain.ErrAlreadyExists, m.ID)
	}
	r.byID[m.ID] = m
	return nil
}

func (r *staffRepo) GetByID(_ context.Context, id string) (staff.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	if !ok {
		return staff.Member{}, notFound("staff", id)
	}
	return m, nil
}

func (r *staffRepo) ListByRole(_ context.Context, role staff.Role) ([]staff.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]staff.Member, 0)
	for _, m := range r.byID {
		if m.Role == role {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
