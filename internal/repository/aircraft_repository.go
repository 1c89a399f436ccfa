package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/skyharbor/fleetops-api/internal/models"
)

// AircraftRepository provides persistence for the aircraft registry.
type AircraftRepository struct {
	db *sqlx.DB
}

// NewAircraftRepository constructs the repository.
func NewAircraftRepository(db *sqlx.DB) *AircraftRepository {
	return &AircraftRepository{db: db}
}

// FindByRegistration loads a single aircraft. Returns sql.ErrNoRows when the
// registration is unknown.
func (r *AircraftRepository) FindByRegistration(ctx context.Context, registration string) (*models.Aircraft, error) {
	const query = `SELECT registration_number, aircraft_company, model, capacity, status
	FROM aircraft WHERE registration_number = $1`
	var aircraft models.Aircraft
	if err := r.db.GetContext(ctx, &aircraft, query, registration); err != nil {
		return nil, err
	}
	return &aircraft, nil
}

// List returns aircraft ordered by registration, optionally filtered by status.
func (r *AircraftRepository) List(ctx context.Context, status *models.AircraftStatus) ([]models.Aircraft, error) {
	query := `SELECT registration_number, aircraft_company, model, capacity, status FROM aircraft`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY registration_number ASC`

	var fleet []models.Aircraft
	if err := r.db.SelectContext(ctx, &fleet, query, args...); err != nil {
		return nil, fmt.Errorf("list aircraft: %w", err)
	}
	return fleet, nil
}

// Create inserts a new aircraft record.
func (r *AircraftRepository) Create(ctx context.Context, aircraft *models.Aircraft) error {
	const query = `INSERT INTO aircraft (registration_number, aircraft_company, model, capacity, status)
	VALUES (:registration_number, :aircraft_company, :model, :capacity, :status)`
	if _, err := r.db.NamedExecContext(ctx, query, aircraft); err != nil {
		return fmt.Errorf("create aircraft %s: %w", aircraft.RegistrationNumber, err)
	}
	return nil
}

// Update modifies the mutable attributes of an aircraft.
func (r *AircraftRepository) Update(ctx context.Context, aircraft *models.Aircraft) error {
	const query = `UPDATE aircraft SET aircraft_company = :aircraft_company, model = :model,
	capacity = :capacity, status = :status WHERE registration_number = :registration_number`
	result, err := r.db.NamedExecContext(ctx, query, aircraft)
	if err != nil {
		return fmt.Errorf("update aircraft %s: %w", aircraft.RegistrationNumber, err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("update aircraft %s: no rows affected", aircraft.RegistrationNumber)
	}
	return nil
}

// Delete removes an aircraft from the registry.
func (r *AircraftRepository) Delete(ctx context.Context, registration string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM aircraft WHERE registration_number = $1`, registration); err != nil {
		return fmt.Errorf("delete aircraft %s: %w", registration, err)
	}
	return nil
}

// SetStatus changes only the lifecycle status of an aircraft.
func (r *AircraftRepository) SetStatus(ctx context.Context, registration string, status models.AircraftStatus) error {
	const query = `UPDATE aircraft SET status = $1 WHERE registration_number = $2`
	if _, err := r.db.ExecContext(ctx, query, status, registration); err != nil {
		return fmt.Errorf("set aircraft %s status %s: %w", registration, status, err)
	}
	return nil
}

// CountByStatus returns the number of aircraft per lifecycle status.
func (r *AircraftRepository) CountByStatus(ctx context.Context) (map[models.AircraftStatus]int, error) {
	const query = `SELECT status, COUNT(*) AS total FROM aircraft GROUP BY status`
	rows := []struct {
		Status models.AircraftStatus `db:"status"`
		Total  int                   `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count aircraft by status: %w", err)
	}
	counts := make(map[models.AircraftStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// CountFutureFlights returns how many flights of the aircraft have not yet
// departed relative to the given date and wall-clock time.
func (r *AircraftRepository) CountFutureFlights(ctx context.Context, registration string, date string, clock string) (int, error) {
	const query = `SELECT COUNT(*) FROM flights
	WHERE aircraft_registration = $1
	AND (date > $2::date OR (date = $2::date AND scheduled_departure_time > $3))`
	var count int
	if err := r.db.GetContext(ctx, &count, query, registration, date, clock); err != nil {
		return 0, fmt.Errorf("count future flights for %s: %w", registration, err)
	}
	return count, nil
}

// CountOpenJobs returns the number of non-terminal maintenance jobs for the
// aircraft.
func (r *AircraftRepository) CountOpenJobs(ctx context.Context, registration string) (int, error) {
	const query = `SELECT COUNT(*) FROM maintenance_jobs
	WHERE registration_number = $1 AND status IN ('pending', 'in_progress')`
	var count int
	if err := r.db.GetContext(ctx, &count, query, registration); err != nil {
		return 0, fmt.Errorf("count open jobs for %s: %w", registration, err)
	}
	return count, nil
}
