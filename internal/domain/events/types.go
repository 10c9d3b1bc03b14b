package events

// Kind identifica el tipo de evento de dominio.
type Kind string

const (
	KindAppointmentBooked        Kind = "APPOINTMENT_BOOKED"
	KindAppointmentStatusChanged Kind = "APPOINTMENT_STATUS_CHANGED"
	KindVaccineRecorded          Kind = "VACCINE_RECORDED"
	KindPetRegistered            Kind = "PET_REGISTERED"
)

type ActorType string

const (
	ActorTypeStaff  ActorType = "STAFF"
	ActorTypeClient ActorType = "CLIENT"
	ActorTypeSystem ActorType = "SYSTEM"
)

// Actor es quien originó el cambio.
type Actor struct {
	Type ActorType
	ID   string
}

// SystemActor se usa para cambios que no vienen de una persona (p.ej. el scheduler).
var SystemActor = Actor{Type: ActorTypeSystem, ID: "system"}
