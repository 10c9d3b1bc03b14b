package reminders_test

import (
	"context"
	"testing"
	"time"

	mem "vet-backoffice/internal/adapters/storage/memory"
	"vet-backoffice/internal/domain/notifications"
	"vet-backoffice/internal/domain/pets"
	"vet-backoffice/internal/domain/reminders"
	"vet-backoffice/internal/platform/logger"

	"github.com/golang-sql/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type birthdayBook []pets.Pet

func (b birthdayBook) ListBirthdaysOn(_ context.Context, day civil.Date) ([]pets.Pet, error) {
	var out []pets.Pet
	for _, p := range b {
		bd, ok := p.Birthday()
		if ok && bd.Month == day.Month && bd.Day == day.Day {
			out = append(out, p)
		}
	}
	return out, nil
}

func bornOn(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func (f *fixture) birthdays(list birthdayBook) *reminders.BirthdayGenerator {
	return reminders.NewBirthdayGenerator(list, f.notifs, f.book, mem.NewTxManager(), f.mail, "Huellitas", logger.Nop())
}

func TestBirthdays_ExactlyOncePerDay(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	g := f.birthdays(birthdayBook{
		{ID: "max", ClientID: "ana", Name: "Max", BirthDate: bornOn(1990, time.June, 15)},
		{ID: "luna", ClientID: "ana", Name: "Luna", BirthDate: bornOn(2021, time.March, 2)},
	})
	day := civil.Date{Year: 2024, Month: time.June, Day: 15}

	res, err := g.RunOnce(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, reminders.Result{Processed: 1, Sent: 1}, res)

	res, err = g.RunOnce(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, reminders.Result{Processed: 1, Skipped: 1}, res)

	inbox, err := f.notifs.List(ctx, notifications.ClientRecipient("ana"), notifications.ListFilter{})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	n := inbox[0]
	assert.Equal(t, notifications.CategoryBirthday, n.Category)
	assert.Equal(t, "¡Feliz cumpleaños Max!", n.Title)
	assert.Equal(t, "Hoy Max cumple 34 años. ¡Muchas felicidades de parte de todo el equipo!", n.Message)
	assert.Equal(t, reminders.BirthdayKey("max", day), n.DedupKey)
	assert.Equal(t, "pet:max:birthday:2024-06-15", n.DedupKey)

	require.Len(t, f.mail.msgs, 1)
	assert.Equal(t, "¡Feliz cumpleaños Max!", f.mail.msgs[0].Subject)

	// al año siguiente vuelve a celebrarse
	res, err = g.RunOnce(ctx, civil.Date{Year: 2025, Month: time.June, Day: 15})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
}

func TestBirthdays_AgeWording(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	day := civil.Date{Year: 2024, Month: time.June, Day: 15}
	g := f.birthdays(birthdayBook{
		{ID: "uno", ClientID: "luis", Name: "Kira", BirthDate: bornOn(2023, time.June, 15)},
		{ID: "cero", ClientID: "luis", Name: "Bebé", BirthDate: bornOn(2024, time.June, 15)},
	})

	res, err := g.RunOnce(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Sent)
	assert.Empty(t, f.mail.msgs, "luis no prefiere email")

	inbox, err := f.notifs.List(ctx, notifications.ClientRecipient("luis"), notifications.ListFilter{})
	require.NoError(t, err)
	msgs := map[string]string{}
	for _, n := range inbox {
		msgs[n.RelatedID] = n.Message
	}
	assert.Equal(t, "Hoy Kira cumple 1 año. ¡Muchas felicidades de parte de todo el equipo!", msgs["uno"])
	assert.Equal(t, "Hoy es el cumpleaños de Bebé. ¡Muchas felicidades de parte de todo el equipo!", msgs["cero"])
}

func TestBirthdays_ExistingKeyIsSkipped(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	day := civil.Date{Year: 2024, Month: time.June, Day: 15}

	// otra pasada ya publicó el saludo de hoy
	_, err := f.notifs.Publish(ctx, notifications.Draft{
		Audience: notifications.SingleClient("ana"),
		Category: notifications.CategoryBirthday,
		Title:    "x",
		Message:  "y",
		DedupKey: reminders.BirthdayKey("max", day),
	})
	require.NoError(t, err)

	g := f.birthdays(birthdayBook{{ID: "max", ClientID: "ana", Name: "Max", BirthDate: bornOn(1990, time.June, 15)}})
	res, err := g.RunOnce(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, reminders.Result{Processed: 1, Skipped: 1}, res)
}
