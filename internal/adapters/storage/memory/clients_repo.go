package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/clients"
)

type clientRepo struct {
	mu   sync.RWMutex
	byID map[string]clients.Client
}

func NewClientRepo() clients.Repository {
	return &clientRepo{byID: make(map[string]clients.Client)}
}

func (r *clientRepo) Create(_ context.Context, c clients.Client) error {
	if err := requireID("client", c.ID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[c.ID]; exists {
		return fmt.Errorf("%w: client %s", domain.ErrAlreadyExists, c.ID)
	}
	r.byID[c.ID] = c
	return nil
}

func (r *clientRepo) GetByID(_ context.Context, id string) (clients.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return clients.Client{}, notFound("client", id)
	}
	return c, nil
}

func (r *clientRepo) List(_ context.Context) ([]clients.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]clients.Client, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
