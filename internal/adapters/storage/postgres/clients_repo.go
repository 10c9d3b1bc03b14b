package postgres

import (
	"context"
	"database/sql"

	"vet-backoffice/internal/domain/clients"

	sq "github.com/Masterminds/squirrel"
)

var clientColumns = []string{"id", "name", "email", "phone", "communication_preference", "created_at", "updated_at"}

type ClientsRepo struct {
	db *sql.DB
}

func NewClientsRepo(db *sql.DB) *ClientsRepo {
	return &ClientsRepo{db: db}
}

func (r *ClientsRepo) Create(ctx context.Context, c clients.Client) error {
	query, args, err := psql.Insert("clients").Columns(clientColumns...).
		Values(c.ID, c.Name, c.Email, c.Phone, c.Preference, c.CreatedAt, c.UpdatedAt).ToSql()
	if err != nil {
		return err
	}
	_, err = conn(ctx, r.db).ExecContext(ctx, query, args...)
	return mapError(err, "client", c.ID)
}

func (r *ClientsRepo) GetByID(ctx context.Context, id string) (clients.Client, error) {
	query, args, err := psql.Select(clientColumns...).From("clients").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return clients.Client{}, err
	}
	c, err := scanClient(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		return clients.Client{}, mapError(err, "client", id)
	}
	return c, nil
}

func (r *ClientsRepo) List(ctx context.Context) ([]clients.Client, error) {
	query, args, err := psql.Select(clientColumns...).From("clients").OrderBy("name ASC", "id ASC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "clients", "")
	}
	defer rows.Close()

	out := make([]clients.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanClient(s scanner) (clients.Client, error) {
	var c clients.Client
	err := s.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Preference, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
