package reminders

import (
	"fmt"
	"time"

	"vet-backoffice/internal/domain"

	"github.com/golang-sql/civil"
)

// ErrNotPending: el recordatorio ya se envió o fue desactivado.
var ErrNotPending = fmt.Errorf("%w: reminder is not pending", domain.ErrConflict)

// Category del recordatorio.
// @Enum appointment, vaccine, deworming, medication, checkup, birthday
type Category string

const (
	CategoryAppointment Category = "appointment"
	CategoryVaccine     Category = "vaccine"
	CategoryDeworming   Category = "deworming"
	CategoryMedication  Category = "medication"
	CategoryCheckup     Category = "checkup"
	CategoryBirthday    Category = "birthday"
)

// Reminder es un disparador futuro de un solo uso. Una vez Sent no se vuelve a considerar.
type Reminder struct {
	ID       string
	ClientID string

	Category Category
	Title    string
	Message  string
	Link     string

	TargetAt time.Time
	LeadDays int

	Active bool
	Sent   bool
	SentAt *time.Time

	RelatedID   string
	RelatedKind string

	CreatedAt time.Time
}

// Window devuelve el rango de días [desde, hasta] en que el recordatorio puede dispararse.
func (r Reminder) Window(loc *time.Location) (civil.Date, civil.Date) {
	target := civil.DateOf(r.TargetAt.In(loc))
	return target.AddDays(-r.LeadDays), target
}

// DueOn: target - lead <= today <= target, activo y no enviado.
func (r Reminder) DueOn(today civil.Date, loc *time.Location) bool {
	if !r.Active || r.Sent {
		return false
	}
	from, to := r.Window(loc)
	return !today.Before(from) && !today.After(to)
}

// NoLimit en ListFilter.Limit devuelve todas las filas; 0 usa el límite por defecto.
const NoLimit = -1

type ListFilter struct {
	PendingOnly bool
	From        *time.Time
	Limit       int
}
