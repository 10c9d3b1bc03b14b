package appointments_test

import (
	"context"
	"testing"
	"time"

	mem "vet-backoffice/internal/adapters/storage/memory"
	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/appointments"
	"vet-backoffice/internal/domain/events"
	"vet-backoffice/internal/domain/pets"
	"vet-backoffice/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type petsStub map[string]pets.Pet

func (p petsStub) GetByID(_ context.Context, id string) (pets.Pet, error) {
	pet, ok := p[id]
	if !ok {
		return pets.Pet{}, domain.ErrNotFound
	}
	return pet, nil
}

type recorder struct{ evs []events.Event }

func (r *recorder) Publish(_ context.Context, evs ...events.Event) int {
	r.evs = append(r.evs, evs...)
	return 0
}

// lunes 10/06/2024 09:00 UTC
var monday = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*appointments.Service, appointments.Repository, *recorder) {
	t.Helper()
	repo := mem.NewAppointmentRepo()
	bus := &recorder{}
	petDir := petsStub{"pet-max": {ID: "pet-max", ClientID: "client-1", Name: "Max"}}
	svc := appointments.NewService(repo, petDir, domain.NoopUnitOfWork{}, bus, appointments.DefaultBookingPolicy(), logger.Nop())
	svc.SetClock(func() time.Time { return monday })
	return svc, repo, bus
}

func TestBook_SelfServiceIsConfirmed(t *testing.T) {
	svc, repo, bus := newService(t)
	ctx := context.Background()
	at := time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC)

	a, err := svc.Book(ctx, events.Actor{Type: events.ActorTypeClient, ID: "client-1"}, appointments.BookInput{
		PetID:       "pet-max",
		ScheduledAt: at,
		Category:    appointments.CategoryConsultation,
		Channel:     appointments.ChannelSelfService,
		Reason:      "control",
	})
	require.NoError(t, err)
	assert.Equal(t, appointments.StatusConfirmed, a.Status)
	assert.Equal(t, appointments.PriorityNormal, a.Priority)
	assert.Equal(t, 30, a.DurationMinutes)

	stored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, stored.ID)

	require.Len(t, bus.evs, 1)
	ev, ok := bus.evs[0].(events.AppointmentBooked)
	require.True(t, ok)
	assert.Equal(t, "Max", ev.PetName)
	assert.Equal(t, "client-1", ev.ClientID)
	assert.Equal(t, "Consulta general", ev.CategoryLabel)
	assert.Equal(t, "confirmed", ev.Status)
	assert.Equal(t, at, ev.ScheduledAt)
}

func TestBook_StaffChannelIsScheduled(t *testing.T) {
	svc, _, _ := newService(t)
	a, err := svc.Book(context.Background(), events.Actor{Type: events.ActorTypeStaff, ID: "vet-1"}, appointments.BookInput{
		PetID:       "pet-max",
		ScheduledAt: time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC),
		Category:    appointments.CategoryUrgent,
		Priority:    appointments.PriorityEmergency,
		Reason:      "vómitos",
	})
	require.NoError(t, err)
	assert.Equal(t, appointments.StatusScheduled, a.Status)
	assert.Equal(t, appointments.ChannelStaff, a.Channel)
}

func TestBook_RuleViolationWritesNothing(t *testing.T) {
	svc, repo, bus := newService(t)
	ctx := context.Background()

	_, err := svc.Book(ctx, events.SystemActor, appointments.BookInput{
		PetID:       "pet-max",
		ScheduledAt: time.Date(2024, 6, 16, 10, 0, 0, 0, time.UTC), // domingo
		Category:    appointments.CategoryConsultation,
		Reason:      "control",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, bus.evs)

	list, err := repo.ListByPet(ctx, "pet-max", appointments.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBook_UnknownPet(t *testing.T) {
	svc, _, bus := newService(t)
	_, err := svc.Book(context.Background(), events.SystemActor, appointments.BookInput{
		PetID:       "ghost",
		ScheduledAt: time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC),
		Category:    appointments.CategoryConsultation,
		Reason:      "control",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, bus.evs)
}

func TestBook_InvalidInput(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Book(context.Background(), events.SystemActor, appointments.BookInput{
		PetID:       "pet-max",
		ScheduledAt: time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC),
		Category:    "peluqueria",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	fields := map[string]bool{}
	for _, fe := range ve.Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["category"])
	assert.True(t, fields["reason"])
}

func TestChangeStatus_PublishesSnapshot(t *testing.T) {
	svc, _, bus := newService(t)
	ctx := context.Background()
	a, err := svc.Book(ctx, events.SystemActor, appointments.BookInput{
		PetID:       "pet-max",
		ScheduledAt: time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC),
		Category:    appointments.CategoryConsultation,
		Reason:      "control",
	})
	require.NoError(t, err)

	vet := events.Actor{Type: events.ActorTypeStaff, ID: "vet-1"}
	a, err = svc.ChangeStatus(ctx, a.ID, appointments.StatusCancelled, vet)
	require.NoError(t, err)
	assert.Equal(t, appointments.StatusCancelled, a.Status)

	require.Len(t, bus.evs, 2)
	ev := bus.evs[1].(events.AppointmentStatusChanged)
	assert.Equal(t, "scheduled", ev.From)
	assert.Equal(t, "cancelled", ev.To)
	assert.Equal(t, vet, ev.Actor)
	assert.Nil(t, ev.PreviousScheduledAt)

	_, err = svc.ChangeStatus(ctx, a.ID, appointments.StatusConfirmed, vet)
	assert.ErrorIs(t, err, appointments.ErrInvalidTransition)
	assert.Len(t, bus.evs, 2, "una transición rechazada no publica")
}

func TestChangeStatus_RescheduledNeedsNewTime(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	a, err := svc.Book(ctx, events.SystemActor, appointments.BookInput{
		PetID:       "pet-max",
		ScheduledAt: time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC),
		Category:    appointments.CategoryConsultation,
		Reason:      "control",
	})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, a.ID, appointments.StatusRescheduled, events.SystemActor)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReschedule_MovesAndKeepsPrevious(t *testing.T) {
	svc, repo, bus := newService(t)
	ctx := context.Background()
	first := time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC)
	second := time.Date(2024, 6, 12, 15, 30, 0, 0, time.UTC)

	a, err := svc.Book(ctx, events.SystemActor, appointments.BookInput{
		PetID:       "pet-max",
		ScheduledAt: first,
		Category:    appointments.CategoryConsultation,
		Reason:      "control",
	})
	require.NoError(t, err)

	a, err = svc.Reschedule(ctx, a.ID, second, events.SystemActor)
	require.NoError(t, err)
	assert.Equal(t, appointments.StatusRescheduled, a.Status)
	assert.Equal(t, second, a.ScheduledAt)

	stored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, second, stored.ScheduledAt)

	ev := bus.evs[len(bus.evs)-1].(events.AppointmentStatusChanged)
	require.NotNil(t, ev.PreviousScheduledAt)
	assert.Equal(t, first, *ev.PreviousScheduledAt)

	// la nueva fecha pasa por las mismas reglas
	_, err = svc.Reschedule(ctx, a.ID, time.Date(2024, 6, 16, 10, 0, 0, 0, time.UTC), events.SystemActor)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReschedule_TerminalWinsOverRules(t *testing.T) {
	svc, repo, bus := newService(t)
	ctx := context.Background()
	at := time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC)

	a, err := svc.Book(ctx, events.SystemActor, appointments.BookInput{
		PetID:       "pet-max",
		ScheduledAt: at,
		Category:    appointments.CategoryConsultation,
		Reason:      "control",
	})
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, a.ID, appointments.StatusCancelled, events.SystemActor)
	require.NoError(t, err)
	published := len(bus.evs)

	// una fecha pasada también viola las reglas, pero manda el estado terminal
	_, err = svc.Reschedule(ctx, a.ID, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), events.SystemActor)
	require.ErrorIs(t, err, appointments.ErrInvalidTransition)
	assert.NotErrorIs(t, err, domain.ErrValidation)

	stored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, appointments.StatusCancelled, stored.Status)
	assert.Equal(t, at, stored.ScheduledAt)
	assert.Len(t, bus.evs, published)
}
