package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	mem "vet-backoffice/internal/adapters/storage/memory"
	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/appointments"
	"vet-backoffice/internal/domain/notifications"
	"vet-backoffice/internal/domain/reminders"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepo_BatchIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := mem.NewNotificationRepo()
	ana := notifications.ClientRecipient("ana")

	require.NoError(t, repo.CreateBatch(ctx, []notifications.Notification{
		{ID: "n1", Recipient: ana, DedupKey: "k1"},
	}))

	// la segunda fila choca con k1: no se escribe ninguna
	err := repo.CreateBatch(ctx, []notifications.Notification{
		{ID: "n2", Recipient: ana},
		{ID: "n3", Recipient: ana, DedupKey: "k1"},
	})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = repo.GetByID(ctx, "n2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.CreateBatch(ctx, []notifications.Notification{
		{ID: "n4", Recipient: ana, DedupKey: "k2"},
		{ID: "n5", Recipient: ana, DedupKey: "k2"},
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	ok, err := repo.ExistsByDedupKey(ctx, "k2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNotificationRepo_InboxOrderAndReadFlags(t *testing.T) {
	ctx := context.Background()
	repo := mem.NewNotificationRepo()
	ana := notifications.ClientRecipient("ana")
	base := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateBatch(ctx, []notifications.Notification{
		{ID: "old", Recipient: ana, CreatedAt: base},
		{ID: "new", Recipient: ana, CreatedAt: base.Add(time.Hour)},
		{ID: "other", Recipient: notifications.ClientRecipient("luis"), CreatedAt: base},
	}))

	list, err := repo.ListByRecipient(ctx, ana, notifications.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)

	require.NoError(t, repo.MarkRead(ctx, "old", base))
	n, err := repo.CountUnread(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	marked, err := repo.MarkAllRead(ctx, ana, base)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	unread, err := repo.ListByRecipient(ctx, ana, notifications.ListFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestReminderRepo_SentOnlyOnce(t *testing.T) {
	ctx := context.Background()
	repo := mem.NewReminderRepo()
	at := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, reminders.Reminder{ID: "r1", ClientID: "ana", Active: true, TargetAt: at}))
	require.NoError(t, repo.Create(ctx, reminders.Reminder{ID: "r2", ClientID: "ana", Active: false, TargetAt: at}))

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "r1", pending[0].ID)

	_, err = repo.LockPending(ctx, "r1")
	require.NoError(t, err)
	require.NoError(t, repo.MarkSent(ctx, "r1", at))
	assert.ErrorIs(t, repo.MarkSent(ctx, "r1", at), reminders.ErrNotPending)

	_, err = repo.LockPending(ctx, "r1")
	assert.ErrorIs(t, err, reminders.ErrNotPending)
	_, err = repo.LockPending(ctx, "r2")
	assert.ErrorIs(t, err, reminders.ErrNotPending)
}

func TestAppointmentRepo_ListByPetFilter(t *testing.T) {
	ctx := context.Background()
	repo := mem.NewAppointmentRepo()
	day := func(d int) time.Time { return time.Date(2024, 6, d, 10, 0, 0, 0, time.UTC) }

	for _, a := range []appointments.Appointment{
		{ID: "a3", PetID: "max", ScheduledAt: day(13), Status: appointments.StatusCancelled},
		{ID: "a1", PetID: "max", ScheduledAt: day(11), Status: appointments.StatusScheduled},
		{ID: "a2", PetID: "max", ScheduledAt: day(12), Status: appointments.StatusConfirmed},
		{ID: "b1", PetID: "luna", ScheduledAt: day(11), Status: appointments.StatusScheduled},
	} {
		require.NoError(t, repo.Create(ctx, a))
	}

	all, err := repo.ListByPet(ctx, "max", appointments.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a1", "a2", "a3"}, []string{all[0].ID, all[1].ID, all[2].ID})

	from, to := day(12), day(13)
	open, err := repo.ListByPet(ctx, "max", appointments.ListFilter{
		Statuses: []appointments.Status{appointments.StatusScheduled, appointments.StatusConfirmed},
		From:     &from,
		To:       &to,
	})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "a2", open[0].ID)

	err = repo.Update(ctx, appointments.Appointment{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTxManager_NestedRunJoinsOuter(t *testing.T) {
	tx := mem.NewTxManager()
	boom := errors.New("boom")

	calls := 0
	err := tx.RunInTx(context.Background(), func(ctx context.Context) error {
		calls++
		// sin unirse a la externa esto se bloquearía en el mutex
		return tx.RunInTx(ctx, func(ctx context.Context) error {
			calls++
			return tx.Savepoint(ctx, func(context.Context) error { return boom })
		})
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
