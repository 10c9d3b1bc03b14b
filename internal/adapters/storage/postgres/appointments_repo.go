package postgres

import (
	"context"
	"database/sql"

	"vet-backoffice/internal/domain/appointments"

	sq "github.com/Masterminds/squirrel"
)

var appointmentColumns = []string{
	"id", "pet_id", "scheduled_at", "duration_minutes",
	"category", "priority", "status", "channel", "staff_id",
	"reason", "symptoms", "notes",
	"created_at", "updated_at",
}

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	query, args, err := psql.Insert("appointments").Columns(appointmentColumns...).Values(
		a.ID, a.PetID, a.ScheduledAt, a.DurationMinutes,
		a.Category, a.Priority, a.Status, a.Channel, a.StaffID,
		a.Reason, a.Symptoms, a.Notes,
		a.CreatedAt, a.UpdatedAt,
	).ToSql()
	if err != nil {
		return err
	}
	_, err = conn(ctx, r.db).ExecContext(ctx, query, args...)
	return mapError(err, "appointment", a.ID)
}

func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	query, args, err := psql.Update("appointments").SetMap(map[string]any{
		"scheduled_at":     a.ScheduledAt,
		"duration_minutes": a.DurationMinutes,
		"category":         a.Category,
		"priority":         a.Priority,
		"status":           a.Status,
		"staff_id":         a.StaffID,
		"reason":           a.Reason,
		"symptoms":         a.Symptoms,
		"notes":            a.Notes,
		"updated_at":       a.UpdatedAt,
	}).Where(sq.Eq{"id": a.ID}).ToSql()
	if err != nil {
		return err
	}
	res, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "appointment", a.ID)
	}
	return affectedOne(res, "appointment", a.ID)
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	query, args, err := psql.Select(appointmentColumns...).From("appointments").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return appointments.Appointment{}, err
	}
	a, err := scanAppointment(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		return appointments.Appointment{}, mapError(err, "appointment", id)
	}
	return a, nil
}

func (r *AppointmentsRepo) ListByPet(ctx context.Context, petID string, f appointments.ListFilter) ([]appointments.Appointment, error) {
	q := psql.Select(appointmentColumns...).From("appointments").Where(sq.Eq{"pet_id": petID})
	if len(f.Statuses) > 0 {
		q = q.Where(sq.Eq{"status": f.Statuses})
	}
	if f.From != nil {
		q = q.Where(sq.GtOrEq{"scheduled_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(sq.LtOrEq{"scheduled_at": *f.To})
	}
	query, args, err := withLimit(q.OrderBy("scheduled_at ASC"), f.Limit).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "appointments", petID)
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAppointment(s scanner) (appointments.Appointment, error) {
	var a appointments.Appointment
	err := s.Scan(
		&a.ID, &a.PetID, &a.ScheduledAt, &a.DurationMinutes,
		&a.Category, &a.Priority, &a.Status, &a.Channel, &a.StaffID,
		&a.Reason, &a.Symptoms, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}
