package notifications

import (
	"testing"
	"time"

	"vet-backoffice/internal/domain/events"

	"github.com/golang-sql/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unknownEvent struct{}

func (unknownEvent) Kind() events.Kind { return "UNKNOWN" }

func bogota(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	return loc
}

func TestBookingPriority(t *testing.T) {
	assert.Equal(t, PriorityNormal, BookingPriority("normal"))
	assert.Equal(t, PriorityHigh, BookingPriority("urgent"))
	assert.Equal(t, PriorityUrgent, BookingPriority("emergency"))
	assert.Equal(t, PriorityNormal, BookingPriority(""))
}

func TestStatusPriority(t *testing.T) {
	cases := map[string]struct {
		prio Priority
		ok   bool
	}{
		"confirmed":   {PriorityNormal, true},
		"completed":   {PriorityNormal, true},
		"cancelled":   {PriorityHigh, true},
		"rescheduled": {PriorityHigh, true},
		"in_progress": {"", false},
		"scheduled":   {"", false},
	}
	for status, want := range cases {
		p, ok := StatusPriority(status)
		assert.Equal(t, want.ok, ok, status)
		assert.Equal(t, want.prio, p, status)
	}
}

func TestFanOut_AppointmentBooked(t *testing.T) {
	f := NewFanOut(bogota(t))
	d, ok := f.Plan(events.AppointmentBooked{
		AppointmentID: "appt-1",
		PetName:       "Max",
		ClientID:      "client-1",
		ScheduledAt:   time.Date(2024, 6, 11, 15, 0, 0, 0, time.UTC),
		CategoryLabel: "Consulta general",
		Priority:      "urgent",
		Status:        "scheduled",
	})
	require.True(t, ok)

	assert.Equal(t, SingleClient("client-1"), d.Audience)
	assert.Equal(t, CategoryAppointment, d.Category)
	assert.Equal(t, PriorityHigh, d.Priority)
	assert.Equal(t, "Cita programada para Max", d.Title)
	assert.Equal(t, "La cita de Consulta general para Max quedó programada el 11/06/2024 a las 10:00.", d.Message)
	assert.Equal(t, "/appointments/appt-1", d.Link)
	assert.Equal(t, "appt-1", d.RelatedID)
	assert.Equal(t, "appointment", d.RelatedKind)
}

func TestFanOut_StatusChanged(t *testing.T) {
	f := NewFanOut(time.UTC)
	prev := time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC)
	base := events.AppointmentStatusChanged{
		AppointmentID: "appt-1",
		PetName:       "Max",
		ClientID:      "client-1",
		ScheduledAt:   time.Date(2024, 6, 12, 15, 30, 0, 0, time.UTC),
	}

	ev := base
	ev.To = "rescheduled"
	ev.PreviousScheduledAt = &prev
	d, ok := f.Plan(ev)
	require.True(t, ok)
	assert.Equal(t, PriorityHigh, d.Priority)
	assert.Equal(t, "Cita reprogramada", d.Title)
	assert.Equal(t, "La cita de Max del 11/06/2024 a las 10:00 se movió al 12/06/2024 a las 15:30.", d.Message)

	ev = base
	ev.To = "cancelled"
	d, ok = f.Plan(ev)
	require.True(t, ok)
	assert.Equal(t, "Cita cancelada", d.Title)
	assert.Equal(t, PriorityHigh, d.Priority)

	ev = base
	ev.To = "in_progress"
	_, ok = f.Plan(ev)
	assert.False(t, ok, "in_progress no se notifica")
}

func TestFanOut_VaccineRecorded(t *testing.T) {
	f := NewFanOut(time.UTC)
	next := civil.Date{Year: 2025, Month: time.June, Day: 1}
	d, ok := f.Plan(events.VaccineRecorded{
		VaccineID:  "vac-1",
		PetID:      "pet-1",
		PetName:    "Max",
		ClientID:   "client-1",
		Name:       "Rabia",
		AppliedOn:  civil.Date{Year: 2024, Month: time.June, Day: 1},
		NextDoseOn: &next,
	})
	require.True(t, ok)
	assert.Equal(t, PriorityHigh, d.Priority)
	assert.Equal(t, "Vacuna registrada: Rabia", d.Title)
	assert.Equal(t, "Se registró la vacuna Rabia de Max aplicada el 01/06/2024. Próxima dosis: 01/06/2025.", d.Message)
	assert.Equal(t, "/pets/pet-1/vaccines", d.Link)
}

func TestFanOut_PetRegisteredAndUnknown(t *testing.T) {
	f := NewFanOut(nil)
	d, ok := f.Plan(events.PetRegistered{PetID: "pet-1", PetName: "Max", ClientID: "client-1"})
	require.True(t, ok)
	assert.Equal(t, CategorySystem, d.Category)
	assert.Equal(t, PriorityNormal, d.Priority)

	_, ok = f.Plan(unknownEvent{})
	assert.False(t, ok)
}
