package appointments

import (
	"errors"
	"fmt"
	"time"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/events"
)

var (
	ErrInvalidTransition = fmt.Errorf("%w: invalid transition", domain.ErrConflict)
	ErrUnknownStatus     = fmt.Errorf("%w: unknown status", domain.ErrValidation)
)

// transitions es el grafo permitido. rescheduled vuelve a comportarse como scheduled.
var transitions = map[Status][]Status{
	StatusScheduled:   {StatusConfirmed, StatusCancelled, StatusRescheduled},
	StatusConfirmed:   {StatusInProgress, StatusCancelled, StatusRescheduled},
	StatusInProgress:  {StatusCompleted},
	StatusRescheduled: {StatusConfirmed, StatusCancelled, StatusRescheduled},
	StatusCompleted:   nil,
	StatusCancelled:   nil,
}

// TransitionError informa el par from/to rechazado.
type TransitionError struct {
	From Status
	To   Status
	err  error
}

func (e *TransitionError) Error() string {
	if errors.Is(e.err, ErrUnknownStatus) {
		return fmt.Sprintf("unknown status %q", e.To)
	}
	if e.From.Terminal() {
		return fmt.Sprintf("appointment is %s and cannot change status", e.From)
	}
	return fmt.Sprintf("cannot change status from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return e.err }

// StatusChange es el evento que devuelve una transición aplicada.
type StatusChange struct {
	AppointmentID string
	From          Status
	To            Status
	Actor         events.Actor
	At            time.Time
}

// CanTransition indica si el grafo permite from -> to.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition valida y aplica un cambio de estado sobre una copia de la cita.
// No hace I/O: persistir y publicar el StatusChange es responsabilidad del caller.
func Transition(a Appointment, to Status, actor events.Actor, at time.Time) (Appointment, StatusChange, error) {
	if a.Status.Terminal() {
		return a, StatusChange{}, &TransitionError{From: a.Status, To: to, err: ErrInvalidTransition}
	}
	if !to.Valid() {
		return a, StatusChange{}, &TransitionError{From: a.Status, To: to, err: ErrUnknownStatus}
	}
	if !CanTransition(a.Status, to) {
		return a, StatusChange{}, &TransitionError{From: a.Status, To: to, err: ErrInvalidTransition}
	}

	change := StatusChange{
		AppointmentID: a.ID,
		From:          a.Status,
		To:            to,
		Actor:         actor,
		At:            at,
	}
	a.Status = to
	a.UpdatedAt = at
	return a, change, nil
}
