package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/notifications"
)

type notificationRepo struct {
	mu    sync.RWMutex
	byID  map[string]notifications.Notification
	dedup map[string]string
}

func NewNotificationRepo() notifications.Repository {
	return &notificationRepo{
		byID:  make(map[string]notifications.Notification),
		dedup: make(map[string]string),
	}
}

func (r *notificationRepo) CreateBatch(_ context.Context, ns []notifications.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// validar todo antes de escribir
	seen := make(map[string]bool, len(ns))
	for _, n := range ns {
		if err := requireID("notification", n.ID); err != nil {
			return err
		}
		if _, exists := r.byID[n.ID]; exists {
			return fmt.Errorf("%w: notification %s", domain.ErrAlreadyExists, n.ID)
		}
		if n.DedupKey == "" {
			continue
		}
		if _, taken := r.dedup[n.DedupKey]; taken || seen[n.DedupKey] {
			return fmt.Errorf("%w: notification dedup key %s", domain.ErrAlreadyExists, n.DedupKey)
		}
		seen[n.DedupKey] = true
	}

	for _, n := range ns {
		r.byID[n.ID] = n
		if n.DedupKey != "" {
			r.dedup[n.DedupKey] = n.ID
		}
	}
	return nil
}

func (r *notificationRepo) GetByID(_ context.Context, id string) (notifications.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.byID[id]
	if !ok {
		return notifications.Notification{}, notFound("notification", id)
	}
	return n, nil
}

// ListByRecipient: más recientes primero.
func (r *notificationRepo) ListByRecipient(_ context.Context, rcp notifications.Recipient, f notifications.ListFilter) ([]notifications.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notifications.Notification, 0)
	for _, n := range r.byID {
		if n.Recipient != rcp {
			continue
		}
		if f.UnreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if n := limitOr(f.Limit); n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r *notificationRepo) CountUnread(_ context.Context, rcp notifications.Recipient) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, n := range r.byID {
		if n.Recipient == rcp && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepo) MarkRead(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok {
		return notFound("notification", id)
	}
	if n.Read {
		return nil
	}
	n.Read = true
	n.ReadAt = &at
	r.byID[id] = n
	return nil
}

func (r *notificationRepo) MarkAllRead(_ context.Context, rcp notifications.Recipient, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for id, n := range r.byID {
		if n.Recipient != rcp || n.Read {
			continue
		}
		n.Read = true
		n.ReadAt = &at
		r.byID[id] = n
		count++
	}
	return count, nil
}

func (r *notificationRepo) ExistsByDedupKey(_ context.Context, key string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.dedup[key]
	return ok, nil
}
