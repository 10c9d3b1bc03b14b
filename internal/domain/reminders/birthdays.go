package reminders

import (
	"context"
	"errors"
	"fmt"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/notifications"
	"vet-backoffice/internal/domain/pets"
	"vet-backoffice/internal/platform/logger"
	"vet-backoffice/internal/ports/email"

	"github.com/golang-sql/civil"
)

type birthdaySource interface {
	ListBirthdaysOn(ctx context.Context, day civil.Date) ([]pets.Pet, error)
}

type dedupNotifier interface {
	notifier
	AlreadyPublished(ctx context.Context, dedupKey string) (bool, error)
}

// BirthdayGenerator crea la notificación de cumpleaños de cada mascota que cumple
// años hoy. No hay filas de recordatorio: la clave de idempotencia es
// mascota + día, así una segunda pasada el mismo día no duplica.
type BirthdayGenerator struct {
	pets     birthdaySource
	notifier dedupNotifier
	contacts contactBook
	uow      domain.UnitOfWork
	mailer   Mailer
	clinic   string
	log      logger.Logger
}

func NewBirthdayGenerator(pets birthdaySource, n dedupNotifier, contacts contactBook, uow domain.UnitOfWork, mailer Mailer, clinicName string, log logger.Logger) *BirthdayGenerator {
	if log == nil {
		log = logger.Nop()
	}
	return &BirthdayGenerator{
		pets:     pets,
		notifier: n,
		contacts: contacts,
		uow:      uow,
		mailer:   mailer,
		clinic:   clinicName,
		log:      log.With(map[string]any{"component": "reminders.birthdays"}),
	}
}

// BirthdayKey es la clave de idempotencia de un cumpleaños.
func BirthdayKey(petID string, day civil.Date) string {
	return fmt.Sprintf("pet:%s:birthday:%s", petID, day.String())
}

func (g *BirthdayGenerator) RunOnce(ctx context.Context, today civil.Date) (Result, error) {
	list, err := g.pets.ListBirthdaysOn(ctx, today)
	if err != nil {
		return Result{}, fmt.Errorf("list birthdays on %s: %w", today, err)
	}

	var res Result
	for _, p := range list {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Processed++

		err := g.celebrate(ctx, p, today)
		switch {
		case err == nil:
			res.Sent++
		case errors.Is(err, ErrNotPending), errors.Is(err, domain.ErrAlreadyExists):
			res.Skipped++
		default:
			res.Errors++
			g.log.Error("birthday notification failed", map[string]any{"pet_id": p.ID, "error": err})
		}
	}

	g.log.Info("birthday pass finished", map[string]any{
		"date":    today.String(),
		"pets":    res.Processed,
		"sent":    res.Sent,
		"skipped": res.Skipped,
		"errors":  res.Errors,
	})
	return res, nil
}

func (g *BirthdayGenerator) celebrate(ctx context.Context, p pets.Pet, today civil.Date) error {
	key := BirthdayKey(p.ID, today)
	title, body := birthdayText(p, today)

	err := g.uow.RunInTx(ctx, func(ctx context.Context) error {
		done, err := g.notifier.AlreadyPublished(ctx, key)
		if err != nil {
			return err
		}
		if done {
			return ErrNotPending
		}
		// El índice único sobre dedup_key cubre dos pasadas concurrentes.
		_, err = g.notifier.Publish(ctx, notifications.Draft{
			Audience:    notifications.SingleClient(p.ClientID),
			Category:    notifications.CategoryBirthday,
			Title:       title,
			Message:     body,
			Link:        "/pets/" + p.ID,
			RelatedID:   p.ID,
			RelatedKind: "pet",
			DedupKey:    key,
		})
		return err
	})
	if err != nil {
		return err
	}

	if msg := g.emailFor(ctx, p, title, body); msg != nil && g.mailer != nil {
		g.mailer.Go(*msg)
	}
	return nil
}

func (g *BirthdayGenerator) emailFor(ctx context.Context, p pets.Pet, title, body string) *email.Message {
	if g.contacts == nil {
		return nil
	}
	c, err := g.contacts.GetByID(ctx, p.ClientID)
	if err != nil {
		g.log.Warn("client lookup for birthday email failed", map[string]any{"pet_id": p.ID, "client_id": p.ClientID, "error": err})
		return nil
	}
	if !c.WantsEmail() {
		return nil
	}
	m := composeEmail(c, g.clinic, title, body)
	return &m
}

func birthdayText(p pets.Pet, today civil.Date) (string, string) {
	title := fmt.Sprintf("¡Feliz cumpleaños %s!", p.Name)
	age := p.AgeOn(today)
	switch {
	case age == 1:
		return title, fmt.Sprintf("Hoy %s cumple 1 año. ¡Muchas felicidades de parte de todo el equipo!", p.Name)
	case age > 1:
		return title, fmt.Sprintf("Hoy %s cumple %d años. ¡Muchas felicidades de parte de todo el equipo!", p.Name, age)
	default:
		return title, fmt.Sprintf("Hoy es el cumpleaños de %s. ¡Muchas felicidades de parte de todo el equipo!", p.Name)
	}
}
