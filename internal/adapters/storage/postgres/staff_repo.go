package postgres

import (
	"context"
	"database/sql"

	"vet-backoffice/internal/domain/staff"

	sq "github.com/Masterminds/squirrel"
)

var staffColumns = []string{"id", "name", "email", "role", "created_at"}

type StaffRepo struct {
	db *sql.DB
}

func NewStaffRepo(db *sql.DB) *StaffRepo {
	return &StaffRepo{db: db}
}

func (r *StaffRepo) Create(ctx context.Context, m staff.Member) error {
	query, args, err := psql.Insert("staff").Columns(staffColumns...).
		Values(m.ID, m.Name, m.Email, m.Role, m.CreatedAt).ToSql()
	if err != nil {
		return err
	}
	_, err = conn(ctx, r.db).ExecContext(ctx, query, args...)
	return mapError(err, "staff", m.ID)
}

func (r *StaffRepo) GetByID(ctx context.Context, id string) (staff.Member, error) {
	query, args, err := psql.Select(staffColumns...).From("staff").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return staff.Member{}, err
	}
	var m staff.Member
	err = conn(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.CreatedAt)
	if err != nil {
		return staff.Member{}, mapError(err, "staff", id)
	}
	return m, nil
}

func (r *StaffRepo) ListByRole(ctx context.Context, role staff.Role) ([]staff.Member, error) {
	query, args, err := psql.Select(staffColumns...).From("staff").Where(sq.Eq{"role": role}).OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "staff", "")
	}
	defer rows.Close()

	out := make([]staff.Member, 0)
	for rows.Next() {
		var m staff.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
