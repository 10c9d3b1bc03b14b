package reminders_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	mem "vet-backoffice/internal/adapters/storage/memory"
	"vet-backoffice/internal/domain/events"
	"vet-backoffice/internal/domain/pets"
	"vet-backoffice/internal/domain/reminders"
	"vet-backoffice/internal/platform/logger"

	"github.com/golang-sql/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type petsByClient map[string][]pets.Pet

func (p petsByClient) ListByClient(_ context.Context, clientID string) ([]pets.Pet, error) {
	return p[clientID], nil
}

func newReminderService(repo reminders.Repository, ps petsByClient) *reminders.Service {
	return reminders.NewService(repo, reminders.NewMapper(reminders.DefaultPolicy(), time.UTC), ps, time.UTC, logger.Nop())
}

func TestService_HandleArmsReminders(t *testing.T) {
	repo := mem.NewReminderRepo()
	svc := newReminderService(repo, nil)
	ctx := context.Background()
	recorded := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, svc.Handle(ctx, events.AppointmentBooked{
		AppointmentID: "a1",
		PetName:       "Max",
		ClientID:      "ana",
		ScheduledAt:   time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC),
	}))

	soon := civil.Date{Year: 2024, Month: time.June, Day: 2}
	require.NoError(t, svc.Handle(ctx, events.VaccineRecorded{VaccineID: "v-soon", ClientID: "ana", NextDoseOn: &soon, At: recorded}))

	later := civil.Date{Year: 2024, Month: time.July, Day: 1}
	require.NoError(t, svc.Handle(ctx, events.VaccineRecorded{VaccineID: "v-later", ClientID: "ana", NextDoseOn: &later, At: recorded}))

	birth := civil.Date{Year: 2020, Month: time.June, Day: 15}
	require.NoError(t, svc.Handle(ctx, events.PetRegistered{PetID: "p1", ClientID: "ana", BirthDate: &birth, At: recorded}))

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2, "cita + vacuna lejana; la dosis de mañana y el cumpleaños no se guardan")

	assert.Equal(t, reminders.CategoryAppointment, pending[0].Category)
	assert.Equal(t, 1, pending[0].LeadDays)
	assert.NotEmpty(t, pending[0].ID)
	assert.Equal(t, reminders.CategoryVaccine, pending[1].Category)
	assert.Equal(t, 7, pending[1].LeadDays)
	assert.Equal(t, "v-later", pending[1].RelatedID)
}

func TestService_ListUpcomingIncludesBirthdays(t *testing.T) {
	repo := mem.NewReminderRepo()
	ctx := context.Background()
	ps := petsByClient{"ana": {
		{ID: "p1", ClientID: "ana", Name: "Max", BirthDate: bornOn(2020, time.June, 15)},
		{ID: "p2", ClientID: "ana", Name: "Sin fecha"},
	}}
	svc := newReminderService(repo, ps)

	for _, r := range []reminders.Reminder{
		{ID: "old", ClientID: "ana", Category: reminders.CategoryAppointment, TargetAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), Active: true},
		{ID: "next", ClientID: "ana", Category: reminders.CategoryAppointment, TargetAt: time.Date(2024, 6, 20, 10, 0, 0, 0, time.UTC), Active: true},
		{ID: "soon", ClientID: "ana", Category: reminders.CategoryVaccine, TargetAt: time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC), Active: true},
		{ID: "other", ClientID: "luis", Category: reminders.CategoryVaccine, TargetAt: time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC), Active: true},
	} {
		require.NoError(t, repo.Create(ctx, r))
	}

	list, err := svc.ListUpcoming(ctx, "ana", civil.Date{Year: 2024, Month: time.June, Day: 10})
	require.NoError(t, err)

	ids := make([]string, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"soon", "birthday:p1", "next"}, ids)
}

func TestService_Deactivate(t *testing.T) {
	repo := mem.NewReminderRepo()
	ctx := context.Background()
	svc := newReminderService(repo, nil)
	require.NoError(t, repo.Create(ctx, reminders.Reminder{ID: "r1", ClientID: "ana", TargetAt: time.Now(), Active: true}))

	r, err := svc.Deactivate(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, r.Active)

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestService_ListUpcomingIsNotCapped(t *testing.T) {
	repo := mem.NewReminderRepo()
	ctx := context.Background()
	svc := newReminderService(repo, nil)
	start := time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC)

	for i := range 60 {
		require.NoError(t, svc.Handle(ctx, events.AppointmentBooked{
			AppointmentID: fmt.Sprintf("a%d", i),
			PetName:       "Max",
			ClientID:      "ana",
			ScheduledAt:   start.AddDate(0, 0, i),
		}))
	}

	list, err := svc.ListUpcoming(ctx, "ana", civil.Date{Year: 2024, Month: time.June, Day: 10})
	require.NoError(t, err)
	assert.Len(t, list, 60)
}
