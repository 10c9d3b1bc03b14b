package postgres

import (
	"context"
	"database/sql"
	"time"

	"vet-backoffice/internal/domain/notifications"

	sq "github.com/Masterminds/squirrel"
)

var notificationColumns = []string{
	"id", "recipient_kind", "recipient_id",
	"category", "priority", "title", "message", "link",
	"related_id", "related_kind", "dedup_key",
	"read", "read_at", "created_at",
}

type NotificationsRepo struct {
	db *sql.DB
}

func NewNotificationsRepo(db *sql.DB) *NotificationsRepo {
	return &NotificationsRepo{db: db}
}

// CreateBatch es un único INSERT multi-fila: todas o ninguna.
func (r *NotificationsRepo) CreateBatch(ctx context.Context, ns []notifications.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	ins := psql.Insert("notifications").Columns(notificationColumns...)
	for _, n := range ns {
		ins = ins.Values(
			n.ID, n.Recipient.Kind, n.Recipient.ID,
			n.Category, n.Priority, n.Title, n.Message, n.Link,
			n.RelatedID, n.RelatedKind, nullString(n.DedupKey),
			n.Read, n.ReadAt, n.CreatedAt,
		)
	}
	query, args, err := ins.ToSql()
	if err != nil {
		return err
	}
	_, err = conn(ctx, r.db).ExecContext(ctx, query, args...)
	return mapError(err, "notification", ns[0].ID)
}

func (r *NotificationsRepo) GetByID(ctx context.Context, id string) (notifications.Notification, error) {
	query, args, err := psql.Select(notificationColumns...).From("notifications").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return notifications.Notification{}, err
	}
	n, err := scanNotification(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		return notifications.Notification{}, mapError(err, "notification", id)
	}
	return n, nil
}

func (r *NotificationsRepo) ListByRecipient(ctx context.Context, rcp notifications.Recipient, f notifications.ListFilter) ([]notifications.Notification, error) {
	q := psql.Select(notificationColumns...).From("notifications").Where(recipientEq(rcp))
	if f.UnreadOnly {
		q = q.Where(sq.Eq{"read": false})
	}
	query, args, err := withLimit(q.OrderBy("created_at DESC", "id DESC"), f.Limit).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "notifications", rcp.ID)
	}
	defer rows.Close()

	out := make([]notifications.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationsRepo) CountUnread(ctx context.Context, rcp notifications.Recipient) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From("notifications").
		Where(recipientEq(rcp)).Where(sq.Eq{"read": false}).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, mapError(err, "notifications", rcp.ID)
	}
	return n, nil
}

// MarkRead no pisa read_at si ya estaba leída.
func (r *NotificationsRepo) MarkRead(ctx context.Context, id string, at time.Time) error {
	query, args, err := psql.Update("notifications").
		Set("read", true).
		Set("read_at", sq.Expr("COALESCE(read_at, ?)", at)).
		Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "notification", id)
	}
	return affectedOne(res, "notification", id)
}

func (r *NotificationsRepo) MarkAllRead(ctx context.Context, rcp notifications.Recipient, at time.Time) (int, error) {
	query, args, err := psql.Update("notifications").
		Set("read", true).
		Set("read_at", at).
		Where(recipientEq(rcp)).Where(sq.Eq{"read": false}).ToSql()
	if err != nil {
		return 0, err
	}
	res, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapError(err, "notifications", rcp.ID)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *NotificationsRepo) ExistsByDedupKey(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM notifications WHERE dedup_key = $1)`, key).Scan(&exists)
	if err != nil {
		return false, mapError(err, "notification", key)
	}
	return exists, nil
}

func recipientEq(rcp notifications.Recipient) sq.Eq {
	return sq.Eq{"recipient_kind": rcp.Kind, "recipient_id": rcp.ID}
}

func scanNotification(s scanner) (notifications.Notification, error) {
	var n notifications.Notification
	var dedup sql.NullString
	var readAt sql.NullTime
	if err := s.Scan(
		&n.ID, &n.Recipient.Kind, &n.Recipient.ID,
		&n.Category, &n.Priority, &n.Title, &n.Message, &n.Link,
		&n.RelatedID, &n.RelatedKind, &dedup,
		&n.Read, &readAt, &n.CreatedAt,
	); err != nil {
		return notifications.Notification{}, err
	}
	n.DedupKey = dedup.String
	n.ReadAt = fromNullTime(readAt)
	return n, nil
}
