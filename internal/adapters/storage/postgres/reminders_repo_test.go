package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/reminders"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRemindersMock(t *testing.T) (*RemindersRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRemindersRepo(db), mock
}

func reminderRow(id string, sent bool) *sqlmock.Rows {
	target := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	created := target.AddDate(0, 0, -3)
	return sqlmock.NewRows(reminderColumns).AddRow(
		id, "c1", "appointment", "Recordatorio", "msg", "/appointments/a1",
		target, 1, true, sent, nil,
		"a1", "appointment", created,
	)
}

func TestRemindersRepo_LockPending(t *testing.T) {
	repo, mock := newRemindersMock(t)

	mock.ExpectQuery(`SELECT .* FROM reminders WHERE id = \$1 FOR UPDATE`).
		WithArgs("r1").
		WillReturnRows(reminderRow("r1", false))

	rem, err := repo.LockPending(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "c1", rem.ClientID)
	assert.Equal(t, reminders.CategoryAppointment, rem.Category)
	assert.Equal(t, 1, rem.LeadDays)
	assert.Nil(t, rem.SentAt)

	mock.ExpectQuery(`FOR UPDATE`).WithArgs("r2").WillReturnRows(reminderRow("r2", true))
	_, err = repo.LockPending(context.Background(), "r2")
	assert.ErrorIs(t, err, reminders.ErrNotPending)

	mock.ExpectQuery(`FOR UPDATE`).WithArgs("nope").WillReturnError(sql.ErrNoRows)
	_, err = repo.LockPending(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemindersRepo_MarkSentOnlyOnce(t *testing.T) {
	repo, mock := newRemindersMock(t)
	at := time.Date(2024, 6, 14, 7, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE reminders SET sent = \$1, sent_at = \$2 WHERE .*sent = \$4`).
		WithArgs(true, at, "r1", false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkSent(context.Background(), "r1", at))

	mock.ExpectExec(`UPDATE reminders SET sent`).
		WithArgs(true, at, "r1", false).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.MarkSent(context.Background(), "r1", at), reminders.ErrNotPending)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemindersRepo_ListPending(t *testing.T) {
	repo, mock := newRemindersMock(t)

	mock.ExpectQuery(`SELECT .* FROM reminders WHERE .*active = \$1.*sent = \$2 ORDER BY target_at ASC`).
		WithArgs(true, false).
		WillReturnRows(reminderRow("r1", false))

	out, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "r1", out[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
