package appointments

import "time"

// Status del ciclo de vida de una cita.
// @Enum scheduled, confirmed, in_progress, completed, cancelled, rescheduled
type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusConfirmed   Status = "confirmed"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
)

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal: completed y cancelled no admiten más transiciones.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Category es el tipo de atención. Los códigos siguen el vocabulario de la clínica.
// @Enum consulta, vacunacion, desparasitacion, urgencia, cirugia, estetica
type Category string

const (
	CategoryConsultation Category = "consulta"
	CategoryVaccination  Category = "vacunacion"
	CategoryDeworming    Category = "desparasitacion"
	CategoryUrgent       Category = "urgencia"
	CategorySurgery      Category = "cirugia"
	CategoryGrooming     Category = "estetica"
)

var categoryLabels = map[Category]string{
	CategoryConsultation: "Consulta general",
	CategoryVaccination:  "Vacunación",
	CategoryDeworming:    "Desparasitación",
	CategoryUrgent:       "Urgencia",
	CategorySurgery:      "Cirugía",
	CategoryGrooming:     "Estética y peluquería",
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label es el nombre que se muestra en mensajes al cliente.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Priority de la cita.
// @Enum normal, urgent, emergency
type Priority string

const (
	PriorityNormal    Priority = "normal"
	PriorityUrgent    Priority = "urgent"
	PriorityEmergency Priority = "emergency"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityNormal, PriorityUrgent, PriorityEmergency:
		return true
	}
	return false
}

// Channel indica por dónde entró la reserva.
type Channel string

const (
	ChannelStaff       Channel = "staff"
	ChannelSelfService Channel = "self_service"
)

type Appointment struct {
	ID    string
	PetID string

	ScheduledAt     time.Time
	DurationMinutes int

	Category Category
	Priority Priority
	Status   Status
	Channel  Channel

	StaffID string

	Reason   string
	Symptoms string
	Notes    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListFilter filtra citas; campos vacíos no filtran.
type ListFilter struct {
	Statuses []Status
	From     *time.Time
	To       *time.Time
	Limit    int
}
