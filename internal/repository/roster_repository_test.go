package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/skyharbor/fleetops-api/internal/models"
)

func newRosterRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRosterRepositoryListCrewForFlight(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	rows := sqlmock.NewRows([]string{"email", "name", "phone", "is_pilot"}).
		AddRow("amy@fleetops.test", "Amy Barnes", "555-0100", true).
		AddRow("zed@fleetops.test", "Zed Young", "555-0101", false)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT c.email, c.name, c.phone, c.is_pilot")).
		WithArgs("AA100", "2025-03-10").
		WillReturnRows(rows)

	crew, err := repo.ListCrewForFlight(context.Background(), "AA100", "2025-03-10")
	require.NoError(t, err)
	require.Len(t, crew, 2)
	require.True(t, crew[0].IsPilot)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryReplaceRoster(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM crew_assignments WHERE flight_number = $1 AND date = $2::date")).
		WithArgs("AA100", "2025-03-10").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO crew_assignments")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO crew_assignments")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assignments := []models.CrewAssignment{
		{FlightNumber: "AA100", Date: date, DepartureTime: "09:00:00", CrewEmail: "amy@fleetops.test"},
		{FlightNumber: "AA100", Date: date, DepartureTime: "09:00:00", CrewEmail: "zed@fleetops.test"},
	}
	err := repo.WithTx(context.Background(), func(tx RosterTxn) error {
		return tx.ReplaceRoster(context.Background(), "AA100", "2025-03-10", assignments)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryLockCrewMembersExpandsIn(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectBegin()
	rows := sqlmock.NewRows([]string{"email", "name", "phone", "is_pilot"}).
		AddRow("amy@fleetops.test", "Amy Barnes", "555-0100", true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT email, name, phone, is_pilot FROM crew_members")).
		WithArgs("amy@fleetops.test").
		WillReturnRows(rows)
	mock.ExpectRollback()

	err := repo.WithTx(context.Background(), func(tx RosterTxn) error {
		crew, err := tx.LockCrewMembers(context.Background(), []string{"amy@fleetops.test"})
		if err != nil {
			return err
		}
		require.Len(t, crew, 1)
		return context.Canceled
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
