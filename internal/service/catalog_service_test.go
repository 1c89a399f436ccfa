package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyharbor/fleetops-api/internal/models"
	appErrors "github.com/skyharbor/fleetops-api/pkg/errors"
)

type fakeCatalogStore struct {
	airports     map[string]models.Airport
	routes       map[int64]models.Route
	flightCounts map[int64]int
	maxCapacity  map[int64]int
	nextRouteID  int64
}

func (f *fakeCatalogStore) ListAirports(ctx context.Context) ([]models.Airport, error) {
	var out []models.Airport
	for _, airport := range f.airports {
		out = append(out, airport)
	}
	return out, nil
}

func (f *fakeCatalogStore) FindAirport(ctx context.Context, code string) (*models.Airport, error) {
	if airport, ok := f.airports[code]; ok {
		return &airport, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCatalogStore) AirportExists(ctx context.Context, code string) (bool, error) {
	_, ok := f.airports[code]
	return ok, nil
}

func (f *fakeCatalogStore) ListRoutes(ctx context.Context) ([]models.Route, error) {
	var out []models.Route
	for _, route := range f.routes {
		out = append(out, route)
	}
	return out, nil
}

func (f *fakeCatalogStore) FindRoute(ctx context.Context, id int64) (*models.Route, error) {
	if route, ok := f.routes[id]; ok {
		return &route, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCatalogStore) CreateRoute(ctx context.Context, route *models.Route) error {
	f.nextRouteID++
	route.ID = f.nextRouteID
	f.routes[route.ID] = *route
	return nil
}

func (f *fakeCatalogStore) UpdateRoute(ctx context.Context, route *models.Route) error {
	if _, ok := f.routes[route.ID]; !ok {
		return sql.ErrNoRows
	}
	f.routes[route.ID] = *route
	return nil
}

func (f *fakeCatalogStore) DeleteRoute(ctx context.Context, id int64) error {
	delete(f.routes, id)
	return nil
}

func (f *fakeCatalogStore) CountFlightsOnRoute(ctx context.Context, id int64) (int, error) {
	return f.flightCounts[id], nil
}

func (f *fakeCatalogStore) MaxCapacityOnRoute(ctx context.Context, id int64) (int, error) {
	return f.maxCapacity[id], nil
}

func newCatalogFixture() (*fakeCatalogStore, *CatalogService) {
	store := &fakeCatalogStore{
		airports: map[string]models.Airport{
			"PHX": {Code: "PHX", Name: "Phoenix Sky Harbor"},
			"SEA": {Code: "SEA", Name: "Seattle Tacoma"},
		},
		routes: map[int64]models.Route{
			7: {ID: 7, SourceAirportCode: "PHX", DestinationAirportCode: "SEA", ApprovedCapacity: 190},
		},
		flightCounts: map[int64]int{},
		maxCapacity:  map[int64]int{},
		nextRouteID:  7,
	}
	return store, NewCatalogService(store, nil, nil)
}

func TestCreateRoute(t *testing.T) {
	store, svc := newCatalogFixture()

	route, err := svc.CreateRoute(context.Background(), CreateRouteRequest{
		SourceAirportCode:      "SEA",
		DestinationAirportCode: "PHX",
		ApprovedCapacity:       220,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), route.ID)
	assert.Len(t, store.routes, 2)
}

func TestCreateRouteSameEndpoints(t *testing.T) {
	_, svc := newCatalogFixture()
	_, err := svc.CreateRoute(context.Background(), CreateRouteRequest{
		SourceAirportCode:      "PHX",
		DestinationAirportCode: "PHX",
		ApprovedCapacity:       100,
	})
	requireAppError(t, err, appErrors.ErrValidation.Code)
}

func TestCreateRouteUnknownAirport(t *testing.T) {
	_, svc := newCatalogFixture()
	_, err := svc.CreateRoute(context.Background(), CreateRouteRequest{
		SourceAirportCode:      "PHX",
		DestinationAirportCode: "XXX",
		ApprovedCapacity:       100,
	})
	requireAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestUpdateRouteCapacityFloor(t *testing.T) {
	store, svc := newCatalogFixture()
	store.maxCapacity[7] = 180

	_, err := svc.UpdateRoute(context.Background(), 7, UpdateRouteRequest{ApprovedCapacity: 150})
	requireAppError(t, err, appErrors.ErrStateViolation.Code)

	route, err := svc.UpdateRoute(context.Background(), 7, UpdateRouteRequest{ApprovedCapacity: 200})
	require.NoError(t, err)
	assert.Equal(t, 200, route.ApprovedCapacity)
}

func TestGetAirport(t *testing.T) {
	_, svc := newCatalogFixture()

	airport, err := svc.GetAirport(context.Background(), "PHX")
	require.NoError(t, err)
	assert.Equal(t, "Phoenix Sky Harbor", airport.Name)

	_, err = svc.GetAirport(context.Background(), "XXX")
	requireAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestDeleteRouteWithFlights(t *testing.T) {
	store, svc := newCatalogFixture()
	store.flightCounts[7] = 3

	err := svc.DeleteRoute(context.Background(), 7)
	requireAppError(t, err, appErrors.ErrStateViolation.Code)
	assert.Len(t, store.routes, 1)
}

func TestDeleteRoute(t *testing.T) {
	store, svc := newCatalogFixture()
	require.NoError(t, svc.DeleteRoute(context.Background(), 7))
	assert.Empty(t, store.routes)

	err := svc.DeleteRoute(context.Background(), 7)
	requireAppError(t, err, appErrors.ErrRouteNotFound.Code)
}
