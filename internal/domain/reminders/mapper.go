package reminders

import (
	"fmt"
	"time"

	"vet-backoffice/internal/domain/events"

	"github.com/golang-sql/civil"
)

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04"
)

// Policy fija los tiempos de anticipación.
type Policy struct {
	AppointmentLeadDays int
	VaccineMaxLeadDays  int
}

func DefaultPolicy() Policy {
	return Policy{AppointmentLeadDays: 1, VaccineMaxLeadDays: 7}
}

// Mapper deriva recordatorios a partir de eventos de dominio. No persiste nada;
// "hoy" se toma de la fecha del evento en la zona de la clínica.
type Mapper struct {
	policy Policy
	loc    *time.Location
}

func NewMapper(policy Policy, loc *time.Location) *Mapper {
	if loc == nil {
		loc = time.UTC
	}
	return &Mapper{policy: policy, loc: loc}
}

// OnAppointmentBooked siempre arma exactamente un recordatorio.
func (m *Mapper) OnAppointmentBooked(e events.AppointmentBooked) Reminder {
	local := e.ScheduledAt.In(m.loc)
	return Reminder{
		ClientID: e.ClientID,
		Category: CategoryAppointment,
		Title:    fmt.Sprintf("Recordatorio: Cita de %s", e.PetName),
		Message: fmt.Sprintf("Tienes una cita de %s para %s el %s a las %s.",
			e.CategoryLabel, e.PetName, local.Format(dateLayout), local.Format(timeLayout)),
		Link:        "/appointments/" + e.AppointmentID,
		TargetAt:    e.ScheduledAt,
		LeadDays:    m.policy.AppointmentLeadDays,
		Active:      true,
		RelatedID:   e.AppointmentID,
		RelatedKind: "appointment",
	}
}

// OnVaccineRecorded arma un recordatorio de próxima dosis con
// lead = min(max, días hasta la dosis - 1). Sin próxima dosis, o con lead <= 0, no hay recordatorio.
func (m *Mapper) OnVaccineRecorded(e events.VaccineRecorded) (Reminder, bool) {
	if e.NextDoseOn == nil {
		return Reminder{}, false
	}
	next := *e.NextDoseOn
	today := civil.DateOf(e.At.In(m.loc))

	lead := min(m.policy.VaccineMaxLeadDays, next.DaysSince(today)-1)
	if lead <= 0 {
		return Reminder{}, false
	}

	return Reminder{
		ClientID: e.ClientID,
		Category: CategoryVaccine,
		Title:    fmt.Sprintf("Recordatorio: Próxima dosis de %s para %s", e.Name, e.PetName),
		Message: fmt.Sprintf("La próxima dosis de %s para %s es el %s. Agenda tu cita con anticipación.",
			e.Name, e.PetName, next.In(time.UTC).Format(dateLayout)),
		Link:        "/pets/" + e.PetID + "/vaccines",
		TargetAt:    next.In(m.loc),
		LeadDays:    lead,
		Active:      true,
		RelatedID:   e.VaccineID,
		RelatedKind: "vaccine",
	}, true
}

// OnPetRegistered devuelve el cumpleaños siguiente como recordatorio del mismo día.
// No se persiste: el generador de cumpleaños lo recalcula en cada pasada.
func (m *Mapper) OnPetRegistered(e events.PetRegistered) (Reminder, bool) {
	if e.BirthDate == nil {
		return Reminder{}, false
	}
	today := civil.DateOf(e.At.In(m.loc))
	return m.birthday(e.PetID, e.PetName, e.ClientID, *e.BirthDate, today), true
}

func (m *Mapper) birthday(petID, petName, clientID string, birth, today civil.Date) Reminder {
	next := NextBirthday(birth, today)
	return Reminder{
		ID:          "birthday:" + petID,
		ClientID:    clientID,
		Category:    CategoryBirthday,
		Title:       fmt.Sprintf("¡Feliz cumpleaños %s!", petName),
		Message:     fmt.Sprintf("%s cumple años el %s.", petName, next.In(time.UTC).Format(dateLayout)),
		Link:        "/pets/" + petID,
		TargetAt:    next.In(m.loc),
		LeadDays:    0,
		Active:      true,
		RelatedID:   petID,
		RelatedKind: "pet",
	}
}

// NextBirthday: el mes/día del nacimiento en el año en curso, o en el siguiente
// si ya pasó. El 29 de febrero se celebra el 28 en años no bisiestos.
func NextBirthday(birth, today civil.Date) civil.Date {
	d := occurrence(birth, today.Year)
	if d.Before(today) {
		d = occurrence(birth, today.Year+1)
	}
	return d
}

func occurrence(birth civil.Date, year int) civil.Date {
	d := civil.Date{Year: year, Month: birth.Month, Day: birth.Day}
	if birth.Month == time.February && birth.Day == 29 && !isLeap(year) {
		d.Day = 28
	}
	return d
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
