package reminders

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-sql/civil"
)

// PassResult junta ambas fases de runReminderPass.
type PassResult struct {
	Reminders Result `json:"reminders"`
	Birthdays Result `json:"birthdays"`
}

func (r PassResult) Total() Result {
	return Result{
		Processed: r.Reminders.Processed + r.Birthdays.Processed,
		Sent:      r.Reminders.Sent + r.Birthdays.Sent,
		Skipped:   r.Reminders.Skipped + r.Birthdays.Skipped,
		Errors:    r.Reminders.Errors + r.Birthdays.Errors,
	}
}

// Pass es la pasada programada: primero los recordatorios guardados, después
// los cumpleaños. Un fallo en una fase no impide la otra.
type Pass struct {
	dispatcher *Dispatcher
	birthdays  *BirthdayGenerator
}

func NewPass(d *Dispatcher, b *BirthdayGenerator) *Pass {
	return &Pass{dispatcher: d, birthdays: b}
}

func (p *Pass) Run(ctx context.Context, today civil.Date) (PassResult, error) {
	var out PassResult
	var errs []error

	res, err := p.dispatcher.RunOnce(ctx, today)
	out.Reminders = res
	if err != nil {
		errs = append(errs, fmt.Errorf("reminders: %w", err))
	}

	res, err = p.birthdays.RunOnce(ctx, today)
	out.Birthdays = res
	if err != nil {
		errs = append(errs, fmt.Errorf("birthdays: %w", err))
	}

	return out, errors.Join(errs...)
}
