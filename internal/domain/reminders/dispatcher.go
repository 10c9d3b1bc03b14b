package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/clients"
	"vet-backoffice/internal/domain/notifications"
	"vet-backoffice/internal/platform/logger"
	"vet-backoffice/internal/ports/email"

	"github.com/golang-sql/civil"
)

type notifier interface {
	Publish(ctx context.Context, d notifications.Draft) ([]notifications.Notification, error)
}

type contactBook interface {
	GetByID(ctx context.Context, id string) (clients.Client, error)
}

// Mailer encola un email sin bloquear.
type Mailer interface {
	Go(msg email.Message)
}

// Result resume una pasada. Processed cuenta los pendientes evaluados.
type Result struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// Dispatcher dispara los recordatorios pendientes que vencen hoy.
type Dispatcher struct {
	repo     Repository
	notifier notifier
	contacts contactBook
	uow      domain.UnitOfWork
	mailer   Mailer
	clinic   string
	loc      *time.Location
	log      logger.Logger
	now      func() time.Time
}

type DispatcherConfig struct {
	ClinicName string
	Location   *time.Location
}

func NewDispatcher(repo Repository, n notifier, contacts contactBook, uow domain.UnitOfWork, mailer Mailer, cfg DispatcherConfig, log logger.Logger) *Dispatcher {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		repo:     repo,
		notifier: n,
		contacts: contacts,
		uow:      uow,
		mailer:   mailer,
		clinic:   cfg.ClinicName,
		loc:      cfg.Location,
		log:      log.With(map[string]any{"component": "reminders.dispatcher"}),
		now:      time.Now,
	}
}

// RunOnce evalúa todos los pendientes contra today. Cada recordatorio vencido se
// procesa en su propia transacción: notificación y marca de enviado van juntas,
// y el email sale después del commit. Un fallo individual no corta la pasada.
func (d *Dispatcher) RunOnce(ctx context.Context, today civil.Date) (Result, error) {
	pending, err := d.repo.ListPending(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list pending reminders: %w", err)
	}

	var res Result
	for _, r := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Processed++
		if !r.DueOn(today, d.loc) {
			continue
		}

		err := d.dispatch(ctx, r.ID, today)
		switch {
		case err == nil:
			res.Sent++
		case errors.Is(err, ErrNotPending):
			res.Skipped++
		default:
			res.Errors++
			d.log.Error("reminder dispatch failed", map[string]any{
				"reminder_id": r.ID,
				"category":    string(r.Category),
				"error":       err,
			})
		}
	}

	d.log.Info("reminder dispatch finished", map[string]any{
		"date":      today.String(),
		"processed": res.Processed,
		"sent":      res.Sent,
		"skipped":   res.Skipped,
		"errors":    res.Errors,
	})
	return res, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, id string, today civil.Date) error {
	var msg *email.Message
	err := d.uow.RunInTx(ctx, func(ctx context.Context) error {
		// Releer con lock: otra pasada pudo haberlo enviado entre el listado y ahora.
		r, err := d.repo.LockPending(ctx, id)
		if err != nil {
			return err
		}
		if !r.DueOn(today, d.loc) {
			return ErrNotPending
		}

		if _, err := d.notifier.Publish(ctx, notifications.Draft{
			Audience:    notifications.SingleClient(r.ClientID),
			Category:    notificationCategory(r.Category),
			Title:       r.Title,
			Message:     r.Message,
			Link:        r.Link,
			RelatedID:   r.RelatedID,
			RelatedKind: r.RelatedKind,
		}); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}

		msg = d.emailFor(ctx, r)

		if err := d.repo.MarkSent(ctx, r.ID, d.now()); err != nil {
			return fmt.Errorf("mark sent: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if msg != nil && d.mailer != nil {
		d.mailer.Go(*msg)
	}
	return nil
}

// emailFor devuelve nil si el cliente no prefiere email. Un error al buscarlo
// no debe impedir marcar el recordatorio como enviado.
func (d *Dispatcher) emailFor(ctx context.Context, r Reminder) *email.Message {
	if d.contacts == nil {
		return nil
	}
	c, err := d.contacts.GetByID(ctx, r.ClientID)
	if err != nil {
		d.log.Warn("client lookup for reminder email failed", map[string]any{
			"reminder_id": r.ID,
			"client_id":   r.ClientID,
			"error":       err,
		})
		return nil
	}
	if !c.WantsEmail() {
		return nil
	}
	m := composeEmail(c, d.clinic, "Recordatorio: "+r.Title, r.Message)
	return &m
}

func composeEmail(c clients.Client, clinic, subject, body string) email.Message {
	if clinic == "" {
		clinic = "la clínica"
	}
	return email.Message{
		To:      c.Email,
		Subject: subject,
		Body:    fmt.Sprintf("Hola %s,\n\n%s\n\nAtentamente,\nEquipo de %s", c.Name, body, clinic),
	}
}

func notificationCategory(c Category) notifications.Category {
	switch c {
	case CategoryAppointment:
		return notifications.CategoryAppointment
	case CategoryVaccine:
		return notifications.CategoryVaccine
	case CategoryDeworming:
		return notifications.CategoryDeworming
	case CategoryMedication:
		return notifications.CategoryMedication
	case CategoryCheckup:
		return notifications.CategoryCheckup
	case CategoryBirthday:
		return notifications.CategoryBirthday
	default:
		return notifications.CategoryGeneral
	}
}
