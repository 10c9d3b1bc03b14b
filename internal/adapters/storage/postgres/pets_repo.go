package postgres

import (
	"context"
	"database/sql"
	"time"

	"vet-backoffice/internal/domain/pets"

	sq "github.com/Masterminds/squirrel"
)

var petColumns = []string{
	"id", "client_id",
	"name", "species", "breed", "sex",
	"birth_date", "microchip", "notes",
	"created_at", "updated_at",
}

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	query, args, err := psql.Insert("pets").Columns(petColumns...).Values(
		p.ID, p.ClientID,
		p.Name, p.Species, p.Breed, p.Sex,
		toNullDate(p.BirthDate), p.Microchip, p.Notes,
		p.CreatedAt, p.UpdatedAt,
	).ToSql()
	if err != nil {
		return err
	}
	_, err = conn(ctx, r.db).ExecContext(ctx, query, args...)
	return mapError(err, "pet", p.ID)
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	query, args, err := psql.Update("pets").SetMap(map[string]any{
		"name":       p.Name,
		"species":    p.Species,
		"breed":      p.Breed,
		"sex":        p.Sex,
		"birth_date": toNullDate(p.BirthDate),
		"microchip":  p.Microchip,
		"notes":      p.Notes,
		"updated_at": p.UpdatedAt,
	}).Where(sq.Eq{"id": p.ID}).ToSql()
	if err != nil {
		return err
	}
	res, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "pet", p.ID)
	}
	return affectedOne(res, "pet", p.ID)
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	query, args, err := psql.Select(petColumns...).From("pets").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return pets.Pet{}, err
	}
	p, err := scanPet(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		return pets.Pet{}, mapError(err, "pet", id)
	}
	return p, nil
}

func (r *PetsRepo) ListByClient(ctx context.Context, clientID string) ([]pets.Pet, error) {
	return r.list(ctx, sq.Eq{"client_id": clientID})
}

func (r *PetsRepo) ListBornOn(ctx context.Context, month time.Month, day int) ([]pets.Pet, error) {
	return r.list(ctx, sq.And{
		sq.NotEq{"birth_date": nil},
		sq.Expr("EXTRACT(MONTH FROM birth_date) = ?", int(month)),
		sq.Expr("EXTRACT(DAY FROM birth_date) = ?", day),
	})
}

func (r *PetsRepo) list(ctx context.Context, where sq.Sqlizer) ([]pets.Pet, error) {
	query, args, err := psql.Select(petColumns...).From("pets").Where(where).OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "pets", "")
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPet(s scanner) (pets.Pet, error) {
	var p pets.Pet
	var bd sql.NullTime
	if err := s.Scan(
		&p.ID, &p.ClientID,
		&p.Name, &p.Species, &p.Breed, &p.Sex,
		&bd, &p.Microchip, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	p.BirthDate = fromNullDate(bd)
	return p, nil
}

// birth_date es DATE: se guarda y se lee como medianoche UTC.
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	u := t.UTC()
	return sql.NullTime{Time: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC), Valid: true}
}

func fromNullDate(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := time.Date(nt.Time.Year(), nt.Time.Month(), nt.Time.Day(), 0, 0, 0, 0, time.UTC)
	return &t
}

func fromNullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
