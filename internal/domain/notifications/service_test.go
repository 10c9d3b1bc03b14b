package notifications_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	mem "vet-backoffice/internal/adapters/storage/memory"
	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/clients"
	"vet-backoffice/internal/domain/events"
	"vet-backoffice/internal/domain/notifications"
	"vet-backoffice/internal/domain/staff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type directory struct {
	clients []clients.Client
	admins  []staff.Member
}

func (d *directory) List(context.Context) ([]clients.Client, error)     { return d.clients, nil }
func (d *directory) ListAdmins(context.Context) ([]staff.Member, error) { return d.admins, nil }

func newService() (*notifications.Service, *directory) {
	dir := &directory{
		clients: []clients.Client{{ID: "c1"}, {ID: "c2"}},
		admins:  []staff.Member{{ID: "s1", Role: staff.RoleAdmin}},
	}
	svc := notifications.NewService(mem.NewNotificationRepo(), dir, dir, notifications.NewFanOut(time.UTC))
	return svc, dir
}

func TestPublish_SingleClientDefaultsPriority(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	out, err := svc.Publish(ctx, notifications.Draft{
		Audience: notifications.SingleClient("c1"),
		Category: notifications.CategoryVaccine,
		Title:    " Vacuna ",
		Message:  "aplicada",
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, notifications.PriorityHigh, out[0].Priority)
	assert.Equal(t, "Vacuna", out[0].Title)
	assert.False(t, out[0].Read)

	n, err := svc.CountUnread(ctx, notifications.ClientRecipient("c1"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPublish_AllClientsMaterializesAtPublishTime(t *testing.T) {
	svc, dir := newService()
	ctx := context.Background()

	out, err := svc.Publish(ctx, notifications.Draft{
		Audience: notifications.AllClients(),
		Category: notifications.CategoryGeneral,
		Title:    "Feriado",
		Message:  "Cerramos el lunes",
		DedupKey: "holiday:2024-06-17",
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "holiday:2024-06-17/c1", out[0].DedupKey)
	assert.Equal(t, "holiday:2024-06-17/c2", out[1].DedupKey)

	// un cliente nuevo no recibe lo publicado antes
	dir.clients = append(dir.clients, clients.Client{ID: "c3"})
	list, err := svc.List(ctx, notifications.ClientRecipient("c3"), notifications.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPublish_Admins(t *testing.T) {
	svc, _ := newService()
	out, err := svc.Publish(context.Background(), notifications.Draft{
		Audience: notifications.Admins(),
		Category: notifications.CategorySystem,
		Title:    "Backup",
		Message:  "ok",
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, notifications.StaffRecipient("s1"), out[0].Recipient)
}

func TestPublish_DuplicateDedupKey(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	d := notifications.Draft{
		Audience: notifications.SingleClient("c1"),
		Category: notifications.CategoryBirthday,
		Title:    "¡Feliz cumpleaños!",
		Message:  "hoy",
		DedupKey: "pet:p1:birthday:2024-06-15",
	}
	_, err := svc.Publish(ctx, d)
	require.NoError(t, err)

	ok, err := svc.AlreadyPublished(ctx, d.DedupKey)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Publish(ctx, d)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestPublish_Validation(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Publish(context.Background(), notifications.Draft{
		Audience: notifications.Audience{Kind: notifications.AudienceSingleClient},
		Category: "spam",
		Priority: "meh",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	fields := map[string]bool{}
	for _, fe := range ve.Errors {
		fields[fe.Field] = true
	}
	for _, f := range []string{"title", "message", "category", "priority", "client_id"} {
		assert.True(t, fields[f], f)
	}
}

func TestHandle_BookedEventLandsInInbox(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	err := svc.Handle(ctx, events.AppointmentBooked{
		AppointmentID: "a1",
		PetName:       "Max",
		ClientID:      "c1",
		ScheduledAt:   time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC),
		CategoryLabel: "Consulta general",
		Priority:      "emergency",
	})
	require.NoError(t, err)

	unread, err := svc.ListUnread(ctx, notifications.ClientRecipient("c1"))
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, notifications.PriorityUrgent, unread[0].Priority)

	// in_progress no genera nada
	require.NoError(t, svc.Handle(ctx, events.AppointmentStatusChanged{AppointmentID: "a1", ClientID: "c1", To: "in_progress"}))
	unread, err = svc.ListUnread(ctx, notifications.ClientRecipient("c1"))
	require.NoError(t, err)
	assert.Len(t, unread, 1)
}

func TestMarkRead_Idempotent(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	out, err := svc.Publish(ctx, notifications.Draft{
		Audience: notifications.SingleClient("c1"),
		Category: notifications.CategoryGeneral,
		Title:    "Hola",
		Message:  "mundo",
	})
	require.NoError(t, err)
	id := out[0].ID

	require.NoError(t, svc.MarkRead(ctx, id))
	first, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	require.True(t, first.Read)
	require.NotNil(t, first.ReadAt)

	require.NoError(t, svc.MarkRead(ctx, id))
	again, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, *first.ReadAt, *again.ReadAt)

	n, err := svc.MarkAllRead(ctx, notifications.ClientRecipient("c1"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.ErrorIs(t, svc.MarkRead(ctx, "missing"), domain.ErrNotFound)
}

func TestListUnread_ReturnsEveryUnread(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	ana := notifications.ClientRecipient("c1")

	for i := range 60 {
		_, err := svc.Publish(ctx, notifications.Draft{
			Audience: notifications.SingleClient("c1"),
			Category: notifications.CategoryGeneral,
			Title:    fmt.Sprintf("Aviso %d", i),
			Message:  "m",
		})
		require.NoError(t, err)
	}

	unread, err := svc.ListUnread(ctx, ana)
	require.NoError(t, err)
	count, err := svc.CountUnread(ctx, ana)
	require.NoError(t, err)
	assert.Len(t, unread, 60)
	assert.Equal(t, count, len(unread))

	// la bandeja paginada mantiene su tope por defecto
	page, err := svc.List(ctx, ana, notifications.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, page, 50)
}
