package postgres

import (
	"context"
	"database/sql"

	"vet-backoffice/internal/domain/vaccines"

	sq "github.com/Masterminds/squirrel"
)

var vaccineColumns = []string{"id", "pet_id", "name", "batch", "applied_on", "next_dose_on", "staff_id", "notes", "created_at"}

type VaccinesRepo struct {
	db *sql.DB
}

func NewVaccinesRepo(db *sql.DB) *VaccinesRepo {
	return &VaccinesRepo{db: db}
}

func (r *VaccinesRepo) Create(ctx context.Context, v vaccines.Vaccine) error {
	query, args, err := psql.Insert("vaccines").Columns(vaccineColumns...).Values(
		v.ID, v.PetID, v.Name, v.Batch,
		toNullDate(&v.AppliedOn).Time, toNullDate(v.NextDoseOn),
		v.StaffID, v.Notes, v.CreatedAt,
	).ToSql()
	if err != nil {
		return err
	}
	_, err = conn(ctx, r.db).ExecContext(ctx, query, args...)
	return mapError(err, "vaccine", v.ID)
}

func (r *VaccinesRepo) GetByID(ctx context.Context, id string) (vaccines.Vaccine, error) {
	query, args, err := psql.Select(vaccineColumns...).From("vaccines").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return vaccines.Vaccine{}, err
	}
	v, err := scanVaccine(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		return vaccines.Vaccine{}, mapError(err, "vaccine", id)
	}
	return v, nil
}

func (r *VaccinesRepo) ListByPet(ctx context.Context, petID string) ([]vaccines.Vaccine, error) {
	query, args, err := psql.Select(vaccineColumns...).From("vaccines").
		Where(sq.Eq{"pet_id": petID}).
		OrderBy("applied_on DESC", "created_at DESC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "vaccines", petID)
	}
	defer rows.Close()

	out := make([]vaccines.Vaccine, 0)
	for rows.Next() {
		v, err := scanVaccine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVaccine(s scanner) (vaccines.Vaccine, error) {
	var v vaccines.Vaccine
	var next sql.NullTime
	if err := s.Scan(&v.ID, &v.PetID, &v.Name, &v.Batch, &v.AppliedOn, &next, &v.StaffID, &v.Notes, &v.CreatedAt); err != nil {
		return vaccines.Vaccine{}, err
	}
	v.AppliedOn = *fromNullDate(sql.NullTime{Time: v.AppliedOn, Valid: true})
	v.NextDoseOn = fromNullDate(next)
	return v, nil
}
