package pets

import (
	"time"

	"github.com/golang-sql/civil"
)

// Species define las especies atendidas.
// @Enum dog, cat, bird, rabbit, other
type Species string

const (
	SpeciesDog    Species = "dog"
	SpeciesCat    Species = "cat"
	SpeciesBird   Species = "bird"
	SpeciesRabbit Species = "rabbit"
	SpeciesOther  Species = "other"
)

func (s Species) Valid() bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesRabbit, SpeciesOther:
		return true
	}
	return false
}

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Pet representa una mascota registrada por la clínica. Pertenece a un único cliente.
type Pet struct {
	ID       string
	ClientID string

	Name    string
	Species Species
	Breed   string
	Sex     Sex

	// BirthDate es una fecha calendario (medianoche UTC).
	BirthDate *time.Time
	Microchip string

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Birthday devuelve la fecha de nacimiento como fecha calendario.
func (p Pet) Birthday() (civil.Date, bool) {
	if p.BirthDate == nil {
		return civil.Date{}, false
	}
	return civil.DateOf(p.BirthDate.UTC()), true
}

// AgeOn calcula la edad en años cumplidos al día indicado.
func (p Pet) AgeOn(day civil.Date) int {
	bd, ok := p.Birthday()
	if !ok {
		return 0
	}
	age := day.Year - bd.Year
	if day.Month < bd.Month || (day.Month == bd.Month && day.Day < bd.Day) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
