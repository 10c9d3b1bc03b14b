package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"vet-backoffice/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
)

// mapError traduce errores del driver a sentinels de dominio.
func mapError(err error, kind, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, id)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s (%s)", domain.ErrAlreadyExists, kind, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s references a missing record (%s)", domain.ErrNotFound, kind, pgErr.ConstraintName)
		case "23514": // check_violation
			return fmt.Errorf("%w: %s (%s)", domain.ErrValidation, kind, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", kind, err)
}

func affectedOne(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, id)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

const defaultLimit = 50

// withLimit: 0 usa el default, negativo no agrega LIMIT.
func withLimit(q sq.SelectBuilder, n int) sq.SelectBuilder {
	switch {
	case n < 0:
		return q
	case n == 0:
		return q.Limit(defaultLimit)
	}
	return q.Limit(uint64(n))
}
