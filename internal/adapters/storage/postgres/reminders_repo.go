package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/reminders"

	sq "github.com/Masterminds/squirrel"
)

var reminderColumns = []string{
	"id", "client_id", "category", "title", "message", "link",
	"target_at", "lead_days", "active", "sent", "sent_at",
	"related_id", "related_kind", "created_at",
}

type RemindersRepo struct {
	db *sql.DB
}

func NewRemindersRepo(db *sql.DB) *RemindersRepo {
	return &RemindersRepo{db: db}
}

func (r *RemindersRepo) Create(ctx context.Context, rem reminders.Reminder) error {
	query, args, err := psql.Insert("reminders").Columns(reminderColumns...).Values(
		rem.ID, rem.ClientID, rem.Category, rem.Title, rem.Message, rem.Link,
		rem.TargetAt, rem.LeadDays, rem.Active, rem.Sent, rem.SentAt,
		rem.RelatedID, rem.RelatedKind, rem.CreatedAt,
	).ToSql()
	if err != nil {
		return err
	}
	_, err = conn(ctx, r.db).ExecContext(ctx, query, args...)
	return mapError(err, "reminder", rem.ID)
}

func (r *RemindersRepo) GetByID(ctx context.Context, id string) (reminders.Reminder, error) {
	query, args, err := psql.Select(reminderColumns...).From("reminders").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return reminders.Reminder{}, err
	}
	rem, err := scanReminder(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		return reminders.Reminder{}, mapError(err, "reminder", id)
	}
	return rem, nil
}

func (r *RemindersRepo) ListPending(ctx context.Context) ([]reminders.Reminder, error) {
	return r.list(ctx, psql.Select(reminderColumns...).From("reminders").
		Where(sq.Eq{"active": true, "sent": false}).
		OrderBy("target_at ASC", "id ASC"))
}

// LockPending toma el lock de fila; una pasada concurrente espera al commit
// y al releer ve sent = true.
func (r *RemindersRepo) LockPending(ctx context.Context, id string) (reminders.Reminder, error) {
	query, args, err := psql.Select(reminderColumns...).From("reminders").
		Where(sq.Eq{"id": id}).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return reminders.Reminder{}, err
	}
	rem, err := scanReminder(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		return reminders.Reminder{}, mapError(err, "reminder", id)
	}
	if !rem.Active || rem.Sent {
		return reminders.Reminder{}, reminders.ErrNotPending
	}
	return rem, nil
}

func (r *RemindersRepo) MarkSent(ctx context.Context, id string, at time.Time) error {
	query, args, err := psql.Update("reminders").
		Set("sent", true).
		Set("sent_at", at).
		Where(sq.Eq{"id": id, "sent": false}).ToSql()
	if err != nil {
		return err
	}
	res, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "reminder", id)
	}
	if err := affectedOne(res, "reminder", id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return reminders.ErrNotPending
		}
		return err
	}
	return nil
}

func (r *RemindersRepo) Deactivate(ctx context.Context, id string) error {
	query, args, err := psql.Update("reminders").Set("active", false).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "reminder", id)
	}
	return affectedOne(res, "reminder", id)
}

func (r *RemindersRepo) ListByClient(ctx context.Context, clientID string, f reminders.ListFilter) ([]reminders.Reminder, error) {
	q := psql.Select(reminderColumns...).From("reminders").Where(sq.Eq{"client_id": clientID})
	if f.PendingOnly {
		q = q.Where(sq.Eq{"active": true, "sent": false})
	}
	if f.From != nil {
		q = q.Where(sq.GtOrEq{"target_at": *f.From})
	}
	return r.list(ctx, withLimit(q.OrderBy("target_at ASC", "id ASC"), f.Limit))
}

func (r *RemindersRepo) list(ctx context.Context, q sq.SelectBuilder) ([]reminders.Reminder, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "reminders", "")
	}
	defer rows.Close()

	out := make([]reminders.Reminder, 0)
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}

func scanReminder(s scanner) (reminders.Reminder, error) {
	var rem reminders.Reminder
	var sentAt sql.NullTime
	if err := s.Scan(
		&rem.ID, &rem.ClientID, &rem.Category, &rem.Title, &rem.Message, &rem.Link,
		&rem.TargetAt, &rem.LeadDays, &rem.Active, &rem.Sent, &sentAt,
		&rem.RelatedID, &rem.RelatedKind, &rem.CreatedAt,
	); err != nil {
		return reminders.Reminder{}, err
	}
	rem.SentAt = fromNullTime(sentAt)
	return rem, nil
}
