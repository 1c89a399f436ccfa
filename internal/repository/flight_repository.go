package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/skyharbor/fleetops-api/internal/models"
)

// FlightTxn is the set of operations available inside a timetable
// transaction. All checks and writes for one timetable mutation run through a
// single FlightTxn so conflict validation and the write commit or roll back
// together.
type FlightTxn interface {
	// LockAircraft loads the aircraft row under FOR UPDATE, serializing
	// concurrent timetable mutations that target the same tail number.
	LockAircraft(ctx context.Context, registration string) (*models.Aircraft, error)
	GetRoute(ctx context.Context, id int64) (*models.Route, error)
	FindByKey(ctx context.Context, number string, date string) (*models.Flight, error)
	// ListByAircraftOnDate returns the aircraft's flights on the given day,
	// excluding the flight identified by excludeNumber (empty string excludes
	// nothing).
	ListByAircraftOnDate(ctx context.Context, registration string, date string, excludeNumber string) ([]models.Flight, error)
	Insert(ctx context.Context, flight *models.Flight) error
	// Update rewrites the flight row identified by (oldNumber, oldDate) and
	// re-synchronizes the duplicated departure time on crew assignments.
	Update(ctx context.Context, oldNumber string, oldDate string, flight *models.Flight) error
	// Delete removes the flight and its crew assignments.
	Delete(ctx context.Context, number string, date string) error
}

// FlightRepository provides persistence for the flight timetable.
type FlightRepository struct {
	db *sqlx.DB
}

// NewFlightRepository constructs the repository.
func NewFlightRepository(db *sqlx.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// WithTx runs fn inside a database transaction. The transaction commits when
// fn returns nil and rolls back otherwise.
func (r *FlightRepository) WithTx(ctx context.Context, fn func(FlightTxn) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin flight tx: %w", err)
	}
	if err := fn(&flightTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit flight tx: %w", err)
	}
	return nil
}

// FindByKey loads one flight by its composite key.
func (r *FlightRepository) FindByKey(ctx context.Context, number string, date string) (*models.Flight, error) {
	var flight models.Flight
	if err := r.db.GetContext(ctx, &flight, flightByKeyQuery, number, date); err != nil {
		return nil, err
	}
	return &flight, nil
}

// List returns flights ordered by date then departure time, optionally
// restricted to a single day.
func (r *FlightRepository) List(ctx context.Context, date *string) ([]models.FlightWithRoute, error) {
	query := `SELECT f.flight_number, f.date, f.route_id, f.scheduled_departure_time,
	f.scheduled_arrival_time, f.aircraft_registration,
	r.source_airport_code, r.destination_airport_code
	FROM flights f JOIN routes r ON r.route_id = f.route_id`
	args := []interface{}{}
	if date != nil {
		query += ` WHERE f.date = $1::date`
		args = append(args, *date)
	}
	query += ` ORDER BY f.date ASC, f.scheduled_departure_time ASC, f.flight_number ASC`

	var flights []models.FlightWithRoute
	if err := r.db.SelectContext(ctx, &flights, query, args...); err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	return flights, nil
}

// ListByAircraft returns every flight scheduled on the given aircraft.
func (r *FlightRepository) ListByAircraft(ctx context.Context, registration string) ([]models.FlightWithRoute, error) {
	const query = `SELECT f.flight_number, f.date, f.route_id, f.scheduled_departure_time,
	f.scheduled_arrival_time, f.aircraft_registration,
	r.source_airport_code, r.destination_airport_code
	FROM flights f JOIN routes r ON r.route_id = f.route_id
	WHERE f.aircraft_registration = $1
	ORDER BY f.date ASC, f.scheduled_departure_time ASC`
	var flights []models.FlightWithRoute
	if err := r.db.SelectContext(ctx, &flights, query, registration); err != nil {
		return nil, fmt.Errorf("list flights for aircraft %s: %w", registration, err)
	}
	return flights, nil
}

// Recent returns the most recently scheduled flights for the dashboard.
func (r *FlightRepository) Recent(ctx context.Context, limit int) ([]models.FlightWithRoute, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `SELECT f.flight_number, f.date, f.route_id, f.scheduled_departure_time,
	f.scheduled_arrival_time, f.aircraft_registration,
	r.source_airport_code, r.destination_airport_code
	FROM flights f JOIN routes r ON r.route_id = f.route_id
	ORDER BY f.date DESC, f.scheduled_departure_time DESC LIMIT $1`
	var flights []models.FlightWithRoute
	if err := r.db.SelectContext(ctx, &flights, query, limit); err != nil {
		return nil, fmt.Errorf("recent flights: %w", err)
	}
	return flights, nil
}

// CountInAir counts flights whose scheduled window contains the given moment.
func (r *FlightRepository) CountInAir(ctx context.Context, date string, clock string) (int, error) {
	const query = `SELECT COUNT(*) FROM flights
	WHERE date = $1::date AND scheduled_departure_time <= $2 AND scheduled_arrival_time > $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, date, clock); err != nil {
		return 0, fmt.Errorf("count flights in air: %w", err)
	}
	return count, nil
}

// CountInRange counts flights with dates inside [from, to].
func (r *FlightRepository) CountInRange(ctx context.Context, from string, to string) (int, error) {
	const query = `SELECT COUNT(*) FROM flights WHERE date BETWEEN $1::date AND $2::date`
	var count int
	if err := r.db.GetContext(ctx, &count, query, from, to); err != nil {
		return 0, fmt.Errorf("count flights in range: %w", err)
	}
	return count, nil
}

// CountAircraftInAir counts distinct aircraft with a flight in progress at the
// given moment.
func (r *FlightRepository) CountAircraftInAir(ctx context.Context, date string, clock string) (int, error) {
	const query = `SELECT COUNT(DISTINCT aircraft_registration) FROM flights
	WHERE date = $1::date AND scheduled_departure_time <= $2 AND scheduled_arrival_time > $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, date, clock); err != nil {
		return 0, fmt.Errorf("count aircraft in air: %w", err)
	}
	return count, nil
}

// Count returns the total number of flight instances.
func (r *FlightRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM flights`); err != nil {
		return 0, fmt.Errorf("count flights: %w", err)
	}
	return count, nil
}

const flightByKeyQuery = `SELECT flight_number, date, route_id, scheduled_departure_time,
	scheduled_arrival_time, aircraft_registration
	FROM flights WHERE flight_number = $1 AND date = $2::date`

type flightTx struct {
	tx *sqlx.Tx
}

func (t *flightTx) LockAircraft(ctx context.Context, registration string) (*models.Aircraft, error) {
	const query = `SELECT registration_number, aircraft_company, model, capacity, status
	FROM aircraft WHERE registration_number = $1 FOR UPDATE`
	var aircraft models.Aircraft
	if err := t.tx.GetContext(ctx, &aircraft, query, registration); err != nil {
		return nil, err
	}
	return &aircraft, nil
}

func (t *flightTx) GetRoute(ctx context.Context, id int64) (*models.Route, error) {
	const query = `SELECT route_id, source_airport_code, destination_airport_code, approved_capacity
	FROM routes WHERE route_id = $1`
	var route models.Route
	if err := t.tx.GetContext(ctx, &route, query, id); err != nil {
		return nil, err
	}
	return &route, nil
}

func (t *flightTx) FindByKey(ctx context.Context, number string, date string) (*models.Flight, error) {
	var flight models.Flight
	if err := t.tx.GetContext(ctx, &flight, flightByKeyQuery, number, date); err != nil {
		return nil, err
	}
	return &flight, nil
}

func (t *flightTx) ListByAircraftOnDate(ctx context.Context, registration string, date string, excludeNumber string) ([]models.Flight, error) {
	const query = `SELECT flight_number, date, route_id, scheduled_departure_time,
	scheduled_arrival_time, aircraft_registration
	FROM flights
	WHERE aircraft_registration = $1 AND date = $2::date AND flight_number <> $3
	ORDER BY scheduled_departure_time ASC`
	var flights []models.Flight
	if err := t.tx.SelectContext(ctx, &flights, query, registration, date, excludeNumber); err != nil {
		return nil, fmt.Errorf("flights for %s on %s: %w", registration, date, err)
	}
	return flights, nil
}

func (t *flightTx) Insert(ctx context.Context, flight *models.Flight) error {
	const query = `INSERT INTO flights (flight_number, date, route_id, scheduled_departure_time,
	scheduled_arrival_time, aircraft_registration)
	VALUES (:flight_number, :date, :route_id, :scheduled_departure_time, :scheduled_arrival_time, :aircraft_registration)`
	if _, err := t.tx.NamedExecContext(ctx, query, flight); err != nil {
		return fmt.Errorf("insert flight %s/%s: %w", flight.FlightNumber, flight.DateString(), err)
	}
	return nil
}

func (t *flightTx) Update(ctx context.Context, oldNumber string, oldDate string, flight *models.Flight) error {
	const query = `UPDATE flights SET flight_number = $1, date = $2, route_id = $3,
	scheduled_departure_time = $4, scheduled_arrival_time = $5, aircraft_registration = $6
	WHERE flight_number = $7 AND date = $8::date`
	if _, err := t.tx.ExecContext(ctx, query,
		flight.FlightNumber, flight.Date, flight.RouteID,
		flight.DepartureTime, flight.ArrivalTime, flight.AircraftRegistration,
		oldNumber, oldDate); err != nil {
		return fmt.Errorf("update flight %s/%s: %w", oldNumber, oldDate, err)
	}

	// Crew assignments carry the flight key and a copy of the departure time,
	// so a rekey or retime must cascade to them in the same transaction.
	const cascade = `UPDATE crew_assignments SET flight_number = $1, date = $2, scheduled_departure_time = $3
	WHERE flight_number = $4 AND date = $5::date`
	if _, err := t.tx.ExecContext(ctx, cascade,
		flight.FlightNumber, flight.Date, flight.DepartureTime,
		oldNumber, oldDate); err != nil {
		return fmt.Errorf("cascade flight update to crew assignments %s/%s: %w", oldNumber, oldDate, err)
	}
	return nil
}

func (t *flightTx) Delete(ctx context.Context, number string, date string) error {
	const crewQuery = `DELETE FROM crew_assignments WHERE flight_number = $1 AND date = $2::date`
	if _, err := t.tx.ExecContext(ctx, crewQuery, number, date); err != nil {
		return fmt.Errorf("delete crew assignments %s/%s: %w", number, date, err)
	}
	const query = `DELETE FROM flights WHERE flight_number = $1 AND date = $2::date`
	if _, err := t.tx.ExecContext(ctx, query, number, date); err != nil {
		return fmt.Errorf("delete flight %s/%s: %w", number, date, err)
	}
	return nil
}
