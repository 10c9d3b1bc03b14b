package notifications

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

// FanOut traduce eventos de dominio a borradores de notificación inmediata.
// Es puro: no persiste ni envía nada.
type FanOut struct {
	loc *time.Location
}

func NewFanOut(loc *time.Location) *FanOut {
	if loc == nil {
		loc = time.UTC
	}
	return &FanOut{loc: loc}
}

// Plan devuelve false cuando el evento no genera notificación.
func (f *FanOut) Plan(ev events.Event) (Draft, bool) {
	switch e := ev.(type) {
	case events.AppointmentBooked:
		return f.appointmentBooked(e), true
	case events.AppointmentStatusChanged:
		return f.statusChanged(e)
	case events.VaccineRecorded:
		return f.vaccineRecorded(e), true
	case events.PetRegistered:
		return f.petRegistered(e), true
	default:
		return Draft{}, false
	}
}

// BookingPriority: urgent -> high, emergency -> urgent, resto normal.
func BookingPriority(appointmentPriority string) Priority {
	switch appointmentPriority {
	case "urgent":
		return PriorityHigh
	case "emergency":
		return PriorityUrgent
	default:
		return PriorityNormal
	}
}

// StatusPriority devuelve la prioridad para un cambio de estado y false si
// ese estado no se notifica.
func StatusPriority(status string) (Priority, bool) {
	switch status {
	case "cancelled", "rescheduled":
		return PriorityHigh, true
	case "confirmed", "completed":
		return PriorityNormal, true
	default:
		return "", false
	}
}

// CategoryPriority es la prioridad por defecto de una notificación de esa categoría.
func CategoryPriority(c Category) Priority {
	switch c {
	case CategoryVaccine:
		return PriorityHigh
	case CategoryEmergency:
		return PriorityUrgent
	default:
		return PriorityNormal
	}
}

func (f *FanOut) appointmentBooked(e events.AppointmentBooked) Draft {
	state := "quedó programada"
	if e.Status == "confirmed" {
		state = "quedó confirmada"
	}
	return Draft{
		Audience: SingleClient(e.ClientID),
		Category: CategoryAppointment,
		Priority: BookingPriority(e.Priority),
		Title:    fmt.Sprintf("Cita programada para %s", e.PetName),
		Message: fmt.Sprintf("La cita de %s para %s %s el %s a las %s.",
			e.CategoryLabel, e.PetName, state, f.date(e.ScheduledAt), f.clock(e.ScheduledAt)),
		Link:        "/appointments/" + e.AppointmentID,
		RelatedID:   e.AppointmentID,
		RelatedKind: "appointment",
	}
}

func (f *FanOut) statusChanged(e events.AppointmentStatusChanged) (Draft, bool) {
	prio, ok := StatusPriority(e.To)
	if !ok {
		return Draft{}, false
	}

	d := Draft{
		Audience:    SingleClient(e.ClientID),
		Category:    CategoryAppointment,
		Priority:    prio,
		Link:        "/appointments/" + e.AppointmentID,
		RelatedID:   e.AppointmentID,
		RelatedKind: "appointment",
	}

	when := fmt.Sprintf("%s a las %s", f.date(e.ScheduledAt), f.clock(e.ScheduledAt))
	switch e.To {
	case "confirmed":
		d.Title = "Cita confirmada"
		d.Message = fmt.Sprintf("La cita de %s del %s fue confirmada.", e.PetName, when)
	case "completed":
		d.Title = "Cita completada"
		d.Message = fmt.Sprintf("La cita de %s del %s fue completada. ¡Gracias por confiar en nosotros!", e.PetName, f.date(e.ScheduledAt))
	case "cancelled":
		d.Title = "Cita cancelada"
		d.Message = fmt.Sprintf("La cita de %s programada para el %s fue cancelada.", e.PetName, when)
	case "rescheduled":
		d.Title = "Cita reprogramada"
		if e.PreviousScheduledAt != nil {
			prev := *e.PreviousScheduledAt
			d.Message = fmt.Sprintf("La cita de %s del %s a las %s se movió al %s.",
				e.PetName, f.date(prev), f.clock(prev), when)
		} else {
			d.Message = fmt.Sprintf("La cita de %s se movió al %s.", e.PetName, when)
		}
	}
	return d, true
}

func (f *FanOut) vaccineRecorded(e events.VaccineRecorded) Draft {
	msg := fmt.Sprintf("Se registró la vacuna %s de %s aplicada el %s.", e.Name, e.PetName, civilDate(e.AppliedOn))
	if e.NextDoseOn != nil {
		msg += fmt.Sprintf(" Próxima dosis: %s.", civilDate(*e.NextDoseOn))
	}
	return Draft{
		Audience:    SingleClient(e.ClientID),
		Category:    CategoryVaccine,
		Priority:    CategoryPriority(CategoryVaccine),
		Title:       fmt.Sprintf("Vacuna registrada: %s", e.Name),
		Message:     msg,
		Link:        "/pets/" + e.PetID + "/vaccines",
		RelatedID:   e.VaccineID,
		RelatedKind: "vaccine",
	}
}

func (f *FanOut) petRegistered(e events.PetRegistered) Draft {
	return Draft{
		Audience:    SingleClient(e.ClientID),
		Category:    CategorySystem,
		Priority:    PriorityNormal,
		Title:       "Mascota registrada",
		Message:     fmt.Sprintf("%s ya forma parte de nuestros pacientes.", e.PetName),
		Link:        "/pets/" + e.PetID,
		RelatedID:   e.PetID,
		RelatedKind: "pet",
	}
}

func (f *FanOut) date(t time.Time) string  { return t.In(f.loc).Format(dateLayout) }
func (f *FanOut) clock(t time.Time) string { return t.In(f.loc).Format(timeLayout) }

func civilDate(d civil.Date) string {
	return d.In(time.UTC).Format(dateLayout)
}
