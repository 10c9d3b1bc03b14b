package reminders_test

import (
	"context"
	"testing"
	"time"

	"vet-backoffice/internal/domain/reminders"

	"github.com/golang-sql/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPass_RunsBothPhases(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	day := civil.Date{Year: 2024, Month: time.June, Day: 15}

	f.seed(t, reminders.Reminder{ID: "r1", ClientID: "ana", TargetAt: time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC), LeadDays: 1, Active: true})
	pass := reminders.NewPass(f.dispatcher(), f.birthdays(birthdayBook{
		{ID: "max", ClientID: "ana", Name: "Max", BirthDate: bornOn(1990, time.June, 15)},
	}))

	res, err := pass.Run(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, reminders.Result{Processed: 1, Sent: 1}, res.Reminders)
	assert.Equal(t, reminders.Result{Processed: 1, Sent: 1}, res.Birthdays)
	assert.Equal(t, reminders.Result{Processed: 2, Sent: 2}, res.Total())
	assert.Len(t, f.mail.msgs, 2)

	res, err = pass.Run(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total().Sent)
	assert.Equal(t, 1, res.Birthdays.Skipped)
}

func TestPass_CancelledContext(t *testing.T) {
	f := newFixture()
	f.seed(t, reminders.Reminder{ID: "r1", ClientID: "ana", TargetAt: time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC), Active: true})
	pass := reminders.NewPass(f.dispatcher(), f.birthdays(birthdayBook{
		{ID: "max", ClientID: "ana", Name: "Max", BirthDate: bornOn(1990, time.June, 15)},
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pass.Run(ctx, civil.Date{Year: 2024, Month: time.June, Day: 15})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.mail.msgs)
}
