package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/skyharbor/fleetops-api/internal/models"
)

func newAircraftRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAircraftRepositoryListFiltersByStatus(t *testing.T) {
	db, mock, cleanup := newAircraftRepoMock(t)
	defer cleanup()
	repo := NewAircraftRepository(db)

	rows := sqlmock.NewRows([]string{"registration_number", "aircraft_company", "model", "capacity", "status"}).
		AddRow("N100SH", "SkyHarbor", "A320", 180, models.AircraftActive)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT registration_number, aircraft_company, model, capacity, status FROM aircraft WHERE status = $1")).
		WithArgs(models.AircraftActive).
		WillReturnRows(rows)

	status := models.AircraftActive
	fleet, err := repo.List(context.Background(), &status)
	require.NoError(t, err)
	require.Len(t, fleet, 1)
	require.Equal(t, "N100SH", fleet[0].RegistrationNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAircraftRepositoryCountByStatus(t *testing.T) {
	db, mock, cleanup := newAircraftRepoMock(t)
	defer cleanup()
	repo := NewAircraftRepository(db)

	rows := sqlmock.NewRows([]string{"status", "total"}).
		AddRow(models.AircraftActive, 8).
		AddRow(models.AircraftMaintenance, 2)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) AS total FROM aircraft GROUP BY status")).
		WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, 8, counts[models.AircraftActive])
	require.Equal(t, 2, counts[models.AircraftMaintenance])
	require.NoError(t, mock.ExpectationsWereMet())
}
