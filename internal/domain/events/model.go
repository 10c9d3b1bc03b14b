package events

import (
	"time"

	"github.com/golang-sql/civil"
)

// Event es un hecho ya persistido que otros módulos consumen.
// Los eventos llevan snapshots con lo necesario para armar mensajes,
// así los consumidores no releen el store.
type Event interface {
	Kind() Kind
}

type AppointmentBooked struct {
	AppointmentID string
	PetID         string
	PetName       string
	ClientID      string

	ScheduledAt   time.Time
	Category      string
	CategoryLabel string
	Priority      string
	Status        string

	Actor Actor
	At    time.Time
}

func (AppointmentBooked) Kind() Kind { return KindAppointmentBooked }

type AppointmentStatusChanged struct {
	AppointmentID string
	PetID         string
	PetName       string
	ClientID      string

	From string
	To   string

	ScheduledAt time.Time
	// PreviousScheduledAt solo viene informado en reprogramaciones.
	PreviousScheduledAt *time.Time
	CategoryLabel       string

	Actor Actor
	At    time.Time
}

func (AppointmentStatusChanged) Kind() Kind { return KindAppointmentStatusChanged }

type VaccineRecorded struct {
	VaccineID string
	PetID     string
	PetName   string
	ClientID  string

	Name       string
	AppliedOn  civil.Date
	NextDoseOn *civil.Date

	Actor Actor
	At    time.Time
}

func (VaccineRecorded) Kind() Kind { return KindVaccineRecorded }

type PetRegistered struct {
	PetID     string
	PetName   string
	ClientID  string
	BirthDate *civil.Date

	Actor Actor
	At    time.Time
}

func (PetRegistered) Kind() Kind { return KindPetRegistered }
