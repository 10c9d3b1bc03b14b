package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/clients"
	"vet-backoffice/internal/domain/events"
	"vet-backoffice/internal/domain/staff"

	"github.com/google/uuid"
)

type clientDirectory interface {
	List(ctx context.Context) ([]clients.Client, error)
}

type adminDirectory interface {
	ListAdmins(ctx context.Context) ([]staff.Member, error)
}

type Service struct {
	repo    Repository
	clients clientDirectory
	admins  adminDirectory
	fanout  *FanOut
	now     func() time.Time
}

func NewService(repo Repository, clients clientDirectory, admins adminDirectory, fanout *FanOut) *Service {
	return &Service{
		repo:    repo,
		clients: clients,
		admins:  admins,
		fanout:  fanout,
		now:     time.Now,
	}
}

// Handle es el suscriptor del bus de eventos.
func (s *Service) Handle(ctx context.Context, ev events.Event) error {
	d, ok := s.fanout.Plan(ev)
	if !ok {
		return nil
	}
	_, err := s.Publish(ctx, d)
	return err
}

func (d Draft) validate() error {
	var v domain.Validator
	v.Require("title", d.Title)
	v.Require("message", d.Message)
	if !d.Category.Valid() {
		v.Add("category", "enum", "unknown notification category")
	}
	if !d.Priority.Valid() {
		v.Add("priority", "enum", "must be one of low, normal, high, urgent")
	}
	switch d.Audience.Kind {
	case AudienceSingleClient:
		v.Require("client_id", d.Audience.ClientID)
	case AudienceAllClients, AudienceAdmins:
	default:
		v.Add("audience", "enum", "must be one of single_client, all_clients, admins")
	}
	return v.Err()
}

// Publish materializa el borrador en una fila por destinatario.
// Con DedupKey y audiencia múltiple, la clave se sufija con el id del destinatario.
func (s *Service) Publish(ctx context.Context, d Draft) ([]Notification, error) {
	if d.Priority == "" {
		d.Priority = CategoryPriority(d.Category)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}

	recipients, err := s.resolve(ctx, d.Audience)
	if err != nil {
		return nil, fmt.Errorf("resolve audience %s: %w", d.Audience.Kind, err)
	}
	if len(recipients) == 0 {
		return nil, nil
	}

	now := s.now()
	out := make([]Notification, 0, len(recipients))
	for _, r := range recipients {
		key := d.DedupKey
		if key != "" && d.Audience.Kind != AudienceSingleClient {
			key = key + "/" + r.ID
		}
		out = append(out, Notification{
			ID:          uuid.NewString(),
			Recipient:   r,
			Category:    d.Category,
			Priority:    d.Priority,
			Title:       strings.TrimSpace(d.Title),
			Message:     strings.TrimSpace(d.Message),
			Link:        d.Link,
			RelatedID:   d.RelatedID,
			RelatedKind: d.RelatedKind,
			DedupKey:    key,
			CreatedAt:   now,
		})
	}

	if err := s.repo.CreateBatch(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) resolve(ctx context.Context, a Audience) ([]Recipient, error) {
	switch a.Kind {
	case AudienceSingleClient:
		return []Recipient{ClientRecipient(a.ClientID)}, nil
	case AudienceAllClients:
		cs, err := s.clients.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]Recipient, 0, len(cs))
		for _, c := range cs {
			out = append(out, ClientRecipient(c.ID))
		}
		return out, nil
	case AudienceAdmins:
		ms, err := s.admins.ListAdmins(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]Recipient, 0, len(ms))
		for _, m := range ms {
			out = append(out, StaffRecipient(m.ID))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown audience %q", domain.ErrValidation, a.Kind)
	}
}

// AlreadyPublished indica si ya existe una notificación con esa clave.
func (s *Service) AlreadyPublished(ctx context.Context, dedupKey string) (bool, error) {
	return s.repo.ExistsByDedupKey(ctx, dedupKey)
}

func (s *Service) GetByID(ctx context.Context, id string) (Notification, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUnread(ctx context.Context, r Recipient) ([]Notification, error) {
	return s.repo.ListByRecipient(ctx, r, ListFilter{UnreadOnly: true, Limit: NoLimit})
}

func (s *Service) List(ctx context.Context, r Recipient, filter ListFilter) ([]Notification, error) {
	return s.repo.ListByRecipient(ctx, r, filter)
}

// CountUnread alimenta el badge de la UI.
func (s *Service) CountUnread(ctx context.Context, r Recipient) (int, error) {
	return s.repo.CountUnread(ctx, r)
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id, s.now())
}

func (s *Service) MarkAllRead(ctx context.Context, r Recipient) (int, error) {
	return s.repo.MarkAllRead(ctx, r, s.now())
}
