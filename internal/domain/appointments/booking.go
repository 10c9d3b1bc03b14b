package appointments

import (
	"fmt"
	"time"

	"vet-backoffice/internal/domain"
)

// Reglas de reserva. Cada una nombra la regla violada en FieldError.Rule.
const (
	RulePast        = "past"
	RuleOutsideHour = "outside_hours"
	RuleClosedDay   = "closed_day"
	RuleTooFar      = "too_far_ahead"
)

// BookingPolicy es la configuración de agenda de la clínica.
type BookingPolicy struct {
	Location *time.Location

	// Horario de atención como offset desde medianoche, ambos extremos inclusive.
	OpensAt  time.Duration
	ClosesAt time.Duration

	ClosedDays   []time.Weekday
	MaxDaysAhead int

	// SelfServiceConfirms: reservas hechas por el cliente nacen confirmadas.
	SelfServiceConfirms bool
}

// DefaultBookingPolicy: 08:00-18:00, domingos cerrado, hasta 30 días.
func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		Location:            time.UTC,
		OpensAt:             8 * time.Hour,
		ClosesAt:            18 * time.Hour,
		ClosedDays:          []time.Weekday{time.Sunday},
		MaxDaysAhead:        30,
		SelfServiceConfirms: true,
	}
}

// Rule evalúa un horario propuesto contra "ahora". nil = ok.
type Rule func(at, now time.Time) *domain.FieldError

// Rules se evalúan todas; el error acumula cada violación.
type Rules []Rule

func (rs Rules) Validate(at, now time.Time) error {
	var out []domain.FieldError
	for _, r := range rs {
		if fe := r(at, now); fe != nil {
			out = append(out, *fe)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return &domain.ValidationError{Errors: out}
}

func NotInPast() Rule {
	return func(at, now time.Time) *domain.FieldError {
		if at.After(now) {
			return nil
		}
		return &domain.FieldError{Field: "scheduled_at", Rule: RulePast, Message: "the appointment must be in the future"}
	}
}

func WithinHours(loc *time.Location, opens, closes time.Duration) Rule {
	return func(at, _ time.Time) *domain.FieldError {
		local := at.In(loc)
		tod := time.Duration(local.Hour())*time.Hour +
			time.Duration(local.Minute())*time.Minute +
			time.Duration(local.Second())*time.Second
		if tod >= opens && tod <= closes {
			return nil
		}
		return &domain.FieldError{
			Field:   "scheduled_at",
			Rule:    RuleOutsideHour,
			Message: fmt.Sprintf("the clinic attends from %s to %s", clock(opens), clock(closes)),
		}
	}
}

func NotOnDays(loc *time.Location, days ...time.Weekday) Rule {
	return func(at, _ time.Time) *domain.FieldError {
		wd := at.In(loc).Weekday()
		for _, d := range days {
			if wd == d {
				return &domain.FieldError{
					Field:   "scheduled_at",
					Rule:    RuleClosedDay,
					Message: fmt.Sprintf("the clinic is closed on %s", d),
				}
			}
		}
		return nil
	}
}

func WithinHorizon(maxDays int) Rule {
	return func(at, now time.Time) *domain.FieldError {
		if !at.After(now.AddDate(0, 0, maxDays)) {
			return nil
		}
		return &domain.FieldError{
			Field:   "scheduled_at",
			Rule:    RuleTooFar,
			Message: fmt.Sprintf("appointments can be booked at most %d days ahead", maxDays),
		}
	}
}

// Rules arma el set de reglas de la política.
func (p BookingPolicy) Rules() Rules {
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	rs := Rules{NotInPast(), WithinHours(loc, p.OpensAt, p.ClosesAt)}
	if len(p.ClosedDays) > 0 {
		rs = append(rs, NotOnDays(loc, p.ClosedDays...))
	}
	if p.MaxDaysAhead > 0 {
		rs = append(rs, WithinHorizon(p.MaxDaysAhead))
	}
	return rs
}

func clock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
