package events_test

import (
	"context"
	"errors"
	"testing"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/events"
	"vet-backoffice/internal/platform/logger"

	"github.com/stretchr/testify/assert"
)

type countingSavepointer struct {
	domain.NoopUnitOfWork
	calls int
}

func (c *countingSavepointer) Savepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	c.calls++
	return fn(ctx)
}

func TestBus_DeliversInOrderAndSurvivesFailures(t *testing.T) {
	sp := &countingSavepointer{}
	bus := events.NewBus(sp, logger.Nop())

	var seen []string
	bus.Subscribe("first", events.HandlerFunc(func(_ context.Context, ev events.Event) error {
		seen = append(seen, "first:"+string(ev.Kind()))
		return errors.New("boom")
	}))
	bus.Subscribe("second", events.HandlerFunc(func(_ context.Context, ev events.Event) error {
		seen = append(seen, "second:"+string(ev.Kind()))
		return nil
	}))

	failed := bus.Publish(context.Background(),
		events.PetRegistered{PetID: "p1"},
		events.AppointmentBooked{AppointmentID: "a1"},
	)

	assert.Equal(t, 2, failed)
	assert.Equal(t, 4, sp.calls, "cada entrega va en su propio savepoint")
	assert.Equal(t, []string{
		"first:PET_REGISTERED",
		"second:PET_REGISTERED",
		"first:APPOINTMENT_BOOKED",
		"second:APPOINTMENT_BOOKED",
	}, seen)
}

func TestBus_NoSubscribers(t *testing.T) {
	bus := events.NewBus(domain.NoopUnitOfWork{}, logger.Nop())
	assert.Equal(t, 0, bus.Publish(context.Background(), events.VaccineRecorded{}))
}
