package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/skyharbor/fleetops-api/internal/models"
)

// CatalogRepository provides persistence for the airport/route reference
// catalog. The scheduling core only reads it; mutation is an administrative
// concern.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListAirports returns all airports ordered by code.
func (r *CatalogRepository) ListAirports(ctx context.Context) ([]models.Airport, error) {
	const query = `SELECT airport_code, city, state, country, airport_name FROM airports ORDER BY airport_code ASC`
	var airports []models.Airport
	if err := r.db.SelectContext(ctx, &airports, query); err != nil {
		return nil, fmt.Errorf("list airports: %w", err)
	}
	return airports, nil
}

// FindAirport loads an airport by its code.
func (r *CatalogRepository) FindAirport(ctx context.Context, code string) (*models.Airport, error) {
	const query = `SELECT airport_code, city, state, country, airport_name FROM airports WHERE airport_code = $1`
	var airport models.Airport
	if err := r.db.GetContext(ctx, &airport, query, code); err != nil {
		return nil, err
	}
	return &airport, nil
}

// AirportExists reports whether an airport code is known.
func (r *CatalogRepository) AirportExists(ctx context.Context, code string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM airports WHERE airport_code = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, code); err != nil {
		return false, fmt.Errorf("airport exists %s: %w", code, err)
	}
	return exists, nil
}

// ListRoutes returns all routes ordered by id.
func (r *CatalogRepository) ListRoutes(ctx context.Context) ([]models.Route, error) {
	const query = `SELECT route_id, source_airport_code, destination_airport_code, approved_capacity FROM routes ORDER BY route_id ASC`
	var routes []models.Route
	if err := r.db.SelectContext(ctx, &routes, query); err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return routes, nil
}

// FindRoute loads a route by id.
func (r *CatalogRepository) FindRoute(ctx context.Context, id int64) (*models.Route, error) {
	const query = `SELECT route_id, source_airport_code, destination_airport_code, approved_capacity FROM routes WHERE route_id = $1`
	var route models.Route
	if err := r.db.GetContext(ctx, &route, query, id); err != nil {
		return nil, err
	}
	return &route, nil
}

// CreateRoute inserts a route and fills in the generated id.
func (r *CatalogRepository) CreateRoute(ctx context.Context, route *models.Route) error {
	const query = `INSERT INTO routes (source_airport_code, destination_airport_code, approved_capacity)
	VALUES ($1, $2, $3) RETURNING route_id`
	if err := r.db.GetContext(ctx, &route.ID, query, route.SourceAirportCode, route.DestinationAirportCode, route.ApprovedCapacity); err != nil {
		return fmt.Errorf("create route: %w", err)
	}
	return nil
}

// UpdateRoute modifies a route record.
func (r *CatalogRepository) UpdateRoute(ctx context.Context, route *models.Route) error {
	const query = `UPDATE routes SET source_airport_code = :source_airport_code,
	destination_airport_code = :destination_airport_code, approved_capacity = :approved_capacity
	WHERE route_id = :route_id`
	if _, err := r.db.NamedExecContext(ctx, query, route); err != nil {
		return fmt.Errorf("update route: %w", err)
	}
	return nil
}

// DeleteRoute removes a route by id.
func (r *CatalogRepository) DeleteRoute(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM routes WHERE route_id = $1`, id); err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	return nil
}

// CountFlightsOnRoute returns how many flight instances reference the route.
func (r *CatalogRepository) CountFlightsOnRoute(ctx context.Context, id int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM flights WHERE route_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count flights on route %d: %w", id, err)
	}
	return count, nil
}

// MaxCapacityOnRoute returns the largest aircraft capacity among flights
// scheduled on the route. Used to guard capacity reductions.
func (r *CatalogRepository) MaxCapacityOnRoute(ctx context.Context, id int64) (int, error) {
	const query = `SELECT COALESCE(MAX(a.capacity), 0)
	FROM flights f JOIN aircraft a ON a.registration_number = f.aircraft_registration
	WHERE f.route_id = $1`
	var max int
	if err := r.db.GetContext(ctx, &max, query, id); err != nil {
		return 0, fmt.Errorf("max capacity on route %d: %w", id, err)
	}
	return max, nil
}

// CountAirports returns the number of known airports.
func (r *CatalogRepository) CountAirports(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM airports`); err != nil {
		return 0, fmt.Errorf("count airports: %w", err)
	}
	return count, nil
}

// CountRoutes returns the number of routes.
func (r *CatalogRepository) CountRoutes(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM routes`); err != nil {
		return 0, fmt.Errorf("count routes: %w", err)
	}
	return count, nil
}

// PopularRouteRow is a route ranked by scheduled flight count.
type PopularRouteRow struct {
	RouteID                int64  `db:"route_id"`
	SourceAirportCode      string `db:"source_airport_code"`
	DestinationAirportCode string `db:"destination_airport_code"`
	FlightCount            int    `db:"flight_count"`
}

// PopularRoutes ranks routes by the number of scheduled flights.
func (r *CatalogRepository) PopularRoutes(ctx context.Context, limit int) ([]PopularRouteRow, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `SELECT r.route_id, r.source_airport_code, r.destination_airport_code, COUNT(f.flight_number) AS flight_count
	FROM routes r LEFT JOIN flights f ON f.route_id = r.route_id
	GROUP BY r.route_id, r.source_airport_code, r.destination_airport_code
	ORDER BY flight_count DESC, r.route_id ASC LIMIT $1`
	var rows []PopularRouteRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("popular routes: %w", err)
	}
	return rows, nil
}
