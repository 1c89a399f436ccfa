package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/skyharbor/fleetops-api/internal/models"
)

// RosterTxn is the set of operations available inside a crew roster
// transaction. Assigning a roster is a full replacement: validation against
// every member's other duties and the rewrite happen under one transaction.
type RosterTxn interface {
	GetFlight(ctx context.Context, number string, date string) (*models.Flight, error)
	// LockCrewMembers loads the given crew rows under FOR UPDATE in
	// ascending email order, so two concurrent roster writes touching
	// overlapping crews serialize instead of deadlocking.
	LockCrewMembers(ctx context.Context, emails []string) ([]models.CrewMember, error)
	// ListDutiesOnDate returns the member's assignments on the given day,
	// joined with flight times, excluding the flight being re-rostered.
	ListDutiesOnDate(ctx context.Context, email string, date string, excludeNumber string) ([]models.CrewAssignmentWithFlight, error)
	// ReplaceRoster deletes the flight's current assignments and inserts the
	// new ones.
	ReplaceRoster(ctx context.Context, number string, date string, assignments []models.CrewAssignment) error
}

// RosterRepository provides persistence for crew rosters and crew-facing
// flight views.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository constructs the repository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// WithTx runs fn inside a database transaction.
func (r *RosterRepository) WithTx(ctx context.Context, fn func(RosterTxn) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin roster tx: %w", err)
	}
	if err := fn(&rosterTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit roster tx: %w", err)
	}
	return nil
}

// ListCrewForFlight returns the flight's roster ordered by member name.
func (r *RosterRepository) ListCrewForFlight(ctx context.Context, number string, date string) ([]models.CrewMember, error) {
	const query = `SELECT c.email, c.name, c.phone, c.is_pilot
	FROM crew_assignments ca JOIN crew_members c ON c.email = ca.crew_email
	WHERE ca.flight_number = $1 AND ca.date = $2::date
	ORDER BY c.name ASC`
	var crew []models.CrewMember
	if err := r.db.SelectContext(ctx, &crew, query, number, date); err != nil {
		return nil, fmt.Errorf("crew for flight %s/%s: %w", number, date, err)
	}
	return crew, nil
}

// ListFlightsForCrew returns the member's flights joined with route endpoints.
// When upcoming is true only flights at or after the given moment are
// returned, otherwise the full history.
func (r *RosterRepository) ListFlightsForCrew(ctx context.Context, email string, upcoming bool, date string, clock string) ([]models.FlightWithRoute, error) {
	query := `SELECT f.flight_number, f.date, f.route_id, f.scheduled_departure_time,
	f.scheduled_arrival_time, f.aircraft_registration,
	r.source_airport_code, r.destination_airport_code
	FROM crew_assignments ca
	JOIN flights f ON f.flight_number = ca.flight_number AND f.date = ca.date
	JOIN routes r ON r.route_id = f.route_id
	WHERE ca.crew_email = $1`
	args := []interface{}{email}
	if upcoming {
		query += ` AND (f.date > $2::date OR (f.date = $2::date AND f.scheduled_departure_time >= $3))`
		args = append(args, date, clock)
	}
	query += ` ORDER BY f.date ASC, f.scheduled_departure_time ASC`

	var flights []models.FlightWithRoute
	if err := r.db.SelectContext(ctx, &flights, query, args...); err != nil {
		return nil, fmt.Errorf("flights for crew %s: %w", email, err)
	}
	return flights, nil
}

// FindLatestFlightForCrew returns the member's most recent assignment to the
// given flight number, or sql.ErrNoRows.
func (r *RosterRepository) FindLatestFlightForCrew(ctx context.Context, email string, number string) (*models.FlightWithRoute, error) {
	const query = `SELECT f.flight_number, f.date, f.route_id, f.scheduled_departure_time,
	f.scheduled_arrival_time, f.aircraft_registration,
	r.source_airport_code, r.destination_airport_code
	FROM crew_assignments ca
	JOIN flights f ON f.flight_number = ca.flight_number AND f.date = ca.date
	JOIN routes r ON r.route_id = f.route_id
	WHERE ca.crew_email = $1 AND ca.flight_number = $2
	ORDER BY f.date DESC LIMIT 1`
	var flight models.FlightWithRoute
	if err := r.db.GetContext(ctx, &flight, query, email, number); err != nil {
		return nil, err
	}
	return &flight, nil
}

// ListAircraftForCrew returns the distinct aircraft the member has flown or
// is scheduled to fly.
func (r *RosterRepository) ListAircraftForCrew(ctx context.Context, email string) ([]models.Aircraft, error) {
	const query = `SELECT DISTINCT a.registration_number, a.aircraft_company, a.model, a.capacity, a.status
	FROM crew_assignments ca
	JOIN flights f ON f.flight_number = ca.flight_number AND f.date = ca.date
	JOIN aircraft a ON a.registration_number = f.aircraft_registration
	WHERE ca.crew_email = $1
	ORDER BY a.registration_number ASC`
	var fleet []models.Aircraft
	if err := r.db.SelectContext(ctx, &fleet, query, email); err != nil {
		return nil, fmt.Errorf("aircraft for crew %s: %w", email, err)
	}
	return fleet, nil
}

// CompletedMinutesForCrew sums flight durations for the member's flights that
// have already departed. Overnight arrivals count an extra day.
func (r *RosterRepository) CompletedMinutesForCrew(ctx context.Context, email string, date string, clock string) (int, error) {
	const query = `SELECT COALESCE(SUM(
	CASE WHEN f.scheduled_arrival_time <= f.scheduled_departure_time
	THEN 1440 ELSE 0 END
	+ (EXTRACT(EPOCH FROM (f.scheduled_arrival_time - f.scheduled_departure_time)) / 60)::int
	), 0)
	FROM crew_assignments ca
	JOIN flights f ON f.flight_number = ca.flight_number AND f.date = ca.date
	WHERE ca.crew_email = $1
	AND (f.date < $2::date OR (f.date = $2::date AND f.scheduled_departure_time < $3))`
	var minutes int
	if err := r.db.GetContext(ctx, &minutes, query, email, date, clock); err != nil {
		return 0, fmt.Errorf("completed minutes for crew %s: %w", email, err)
	}
	return minutes, nil
}

// ListCrewMembers returns crew members ordered by name, optionally filtered
// by pilot qualification.
func (r *RosterRepository) ListCrewMembers(ctx context.Context, isPilot *bool) ([]models.CrewMember, error) {
	query := `SELECT email, name, phone, is_pilot FROM crew_members`
	args := []interface{}{}
	if isPilot != nil {
		query += ` WHERE is_pilot = $1`
		args = append(args, *isPilot)
	}
	query += ` ORDER BY name ASC`

	var crew []models.CrewMember
	if err := r.db.SelectContext(ctx, &crew, query, args...); err != nil {
		return nil, fmt.Errorf("list crew members: %w", err)
	}
	return crew, nil
}

// FindCrewMember loads one crew member by email.
func (r *RosterRepository) FindCrewMember(ctx context.Context, email string) (*models.CrewMember, error) {
	const query = `SELECT email, name, phone, is_pilot FROM crew_members WHERE email = $1`
	var member models.CrewMember
	if err := r.db.GetContext(ctx, &member, query, email); err != nil {
		return nil, err
	}
	return &member, nil
}

// SetCrewPilotFlag flips a crew member's pilot qualification.
func (r *RosterRepository) SetCrewPilotFlag(ctx context.Context, email string, isPilot bool) error {
	const query = `UPDATE crew_members SET is_pilot = $2 WHERE email = $1`
	result, err := r.db.ExecContext(ctx, query, email, isPilot)
	if err != nil {
		return fmt.Errorf("set crew pilot flag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set crew pilot flag: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rosterTx struct {
	tx *sqlx.Tx
}

func (t *rosterTx) GetFlight(ctx context.Context, number string, date string) (*models.Flight, error) {
	var flight models.Flight
	if err := t.tx.GetContext(ctx, &flight, flightByKeyQuery, number, date); err != nil {
		return nil, err
	}
	return &flight, nil
}

func (t *rosterTx) LockCrewMembers(ctx context.Context, emails []string) ([]models.CrewMember, error) {
	const base = `SELECT email, name, phone, is_pilot FROM crew_members
	WHERE email IN (?) ORDER BY email ASC FOR UPDATE`
	query, args, err := sqlx.In(base, emails)
	if err != nil {
		return nil, fmt.Errorf("expand crew lock query: %w", err)
	}
	query = t.tx.Rebind(query)

	var crew []models.CrewMember
	if err := t.tx.SelectContext(ctx, &crew, query, args...); err != nil {
		return nil, fmt.Errorf("lock crew members: %w", err)
	}
	return crew, nil
}

func (t *rosterTx) ListDutiesOnDate(ctx context.Context, email string, date string, excludeNumber string) ([]models.CrewAssignmentWithFlight, error) {
	const query = `SELECT ca.flight_number, ca.date, ca.scheduled_departure_time, ca.crew_email,
	f.scheduled_arrival_time
	FROM crew_assignments ca
	JOIN flights f ON f.flight_number = ca.flight_number AND f.date = ca.date
	WHERE ca.crew_email = $1 AND ca.date = $2::date AND ca.flight_number <> $3
	ORDER BY ca.scheduled_departure_time ASC`
	var duties []models.CrewAssignmentWithFlight
	if err := t.tx.SelectContext(ctx, &duties, query, email, date, excludeNumber); err != nil {
		return nil, fmt.Errorf("duties for %s on %s: %w", email, date, err)
	}
	return duties, nil
}

func (t *rosterTx) ReplaceRoster(ctx context.Context, number string, date string, assignments []models.CrewAssignment) error {
	const clear = `DELETE FROM crew_assignments WHERE flight_number = $1 AND date = $2::date`
	if _, err := t.tx.ExecContext(ctx, clear, number, date); err != nil {
		return fmt.Errorf("clear roster %s/%s: %w", number, date, err)
	}
	const insert = `INSERT INTO crew_assignments (flight_number, date, scheduled_departure_time, crew_email)
	VALUES (:flight_number, :date, :scheduled_departure_time, :crew_email)`
	for i := range assignments {
		if _, err := t.tx.NamedExecContext(ctx, insert, &assignments[i]); err != nil {
			return fmt.Errorf("insert roster entry %s/%s %s: %w", number, date, assignments[i].CrewEmail, err)
		}
	}
	return nil
}
