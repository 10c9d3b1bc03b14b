package postgres

import (
	"context"
	"testing"
	"time"

	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/pets"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPetsRepo_ListBornOn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPetsRepo(db)

	created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	bd := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM pets WHERE .*EXTRACT\(MONTH FROM birth_date\) = \$1.*EXTRACT\(DAY FROM birth_date\) = \$2`).
		WithArgs(6, 15).
		WillReturnRows(sqlmock.NewRows(petColumns).AddRow(
			"p1", "c1", "Max", "dog", "", "male", bd, "", "", created, created,
		))

	out, err := repo.ListBornOn(context.Background(), time.June, 15)
	require.NoError(t, err)
	require.Len(t, out, 1)
	got, ok := out[0].Birthday()
	require.True(t, ok)
	assert.Equal(t, 1990, got.Year)
	assert.Equal(t, pets.SpeciesDog, out[0].Species)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPetsRepo_CreateUnknownClient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPetsRepo(db)

	mock.ExpectExec(`INSERT INTO pets`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "pets_client_id_fkey"})

	err = repo.Create(context.Background(), pets.Pet{ID: "p1", ClientID: "missing", Name: "Max", Species: pets.SpeciesDog})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPetsRepo_UpdateMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPetsRepo(db)

	mock.ExpectExec(`UPDATE pets SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.Update(context.Background(), pets.Pet{ID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
