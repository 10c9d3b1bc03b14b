package vaccines

import (
	"time"

	"github.com/golang-sql/civil"
)

// Vaccine es una aplicación de vacuna registrada en la historia de la mascota.
type Vaccine struct {
	ID    string
	PetID string

	Name  string
	Batch string

	// Fechas calendario (medianoche UTC).
	AppliedOn  time.Time
	NextDoseOn *time.Time

	StaffID string
	Notes   string

	CreatedAt time.Time
}

func (v Vaccine) NextDose() (civil.Date, bool) {
	if v.NextDoseOn == nil {
		return civil.Date{}, false
	}
	return civil.DateOf(v.NextDoseOn.UTC()), true
}
