package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyharbor/fleetops-api/internal/models"
	"github.com/skyharbor/fleetops-api/internal/repository"
)

type fakeDashboardReaders struct {
	recent        []models.FlightWithRoute
	inAir         int
	weekly        int
	aircraftInAir int
	statusCounts  map[models.AircraftStatus]int
	airports      int
	routes        int
	popular       []repository.PopularRouteRow
}

func (f *fakeDashboardReaders) Recent(ctx context.Context, limit int) ([]models.FlightWithRoute, error) {
	if limit < len(f.recent) {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeDashboardReaders) CountInAir(ctx context.Context, date string, clock string) (int, error) {
	return f.inAir, nil
}

func (f *fakeDashboardReaders) CountInRange(ctx context.Context, from string, to string) (int, error) {
	return f.weekly, nil
}

func (f *fakeDashboardReaders) CountAircraftInAir(ctx context.Context, date string, clock string) (int, error) {
	return f.aircraftInAir, nil
}

func (f *fakeDashboardReaders) CountByStatus(ctx context.Context) (map[models.AircraftStatus]int, error) {
	return f.statusCounts, nil
}

func (f *fakeDashboardReaders) CountAirports(ctx context.Context) (int, error) {
	return f.airports, nil
}

func (f *fakeDashboardReaders) CountRoutes(ctx context.Context) (int, error) {
	return f.routes, nil
}

func (f *fakeDashboardReaders) PopularRoutes(ctx context.Context, limit int) ([]repository.PopularRouteRow, error) {
	return f.popular, nil
}

func newDashboardFixture(readers *fakeDashboardReaders) *DashboardService {
	svc := NewDashboardService(DashboardServiceParams{
		Flights: readers,
		Fleet:   readers,
		Catalog: readers,
	})
	svc.now = func() time.Time {
		return time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestSchedulerDashboardStats(t *testing.T) {
	readers := &fakeDashboardReaders{
		recent: []models.FlightWithRoute{
			{
				Flight: models.Flight{
					FlightNumber:         "AA100",
					Date:                 time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
					RouteID:              7,
					DepartureTime:        "08:00:00",
					ArrivalTime:          "10:00:00",
					AircraftRegistration: "N100SH",
				},
				SourceAirportCode:      "PHX",
				DestinationAirportCode: "SEA",
				ApprovedCapacity:       190,
			},
		},
		inAir:         3,
		weekly:        42,
		aircraftInAir: 2,
		statusCounts: map[models.AircraftStatus]int{
			models.AircraftActive:      8,
			models.AircraftMaintenance: 2,
		},
	}
	svc := newDashboardFixture(readers)

	dashboard, err := svc.SchedulerDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, dashboard.Stats.FlightsInAir)
	assert.Equal(t, 42, dashboard.Stats.WeeklyFlights)
	assert.InDelta(t, 0.25, dashboard.Stats.UtilizationRate, 0.001)
	assert.Equal(t, 6, dashboard.Stats.AircraftOnGround)
	assert.Equal(t, 2, dashboard.Stats.MaintenanceAircraft)
	require.Len(t, dashboard.RecentFlights, 1)
	assert.Equal(t, "PHX", dashboard.RecentFlights[0].SourceAirportCode)
	assert.Equal(t, "2025-03-15", dashboard.RecentFlights[0].Date)
}

func TestSchedulerDashboardEmptyFleet(t *testing.T) {
	svc := newDashboardFixture(&fakeDashboardReaders{
		statusCounts: map[models.AircraftStatus]int{},
	})

	dashboard, err := svc.SchedulerDashboard(context.Background())
	require.NoError(t, err)
	assert.Zero(t, dashboard.Stats.UtilizationRate)
	assert.Zero(t, dashboard.Stats.AircraftOnGround)
}

func TestAdminDashboardCounts(t *testing.T) {
	svc := newDashboardFixture(&fakeDashboardReaders{
		statusCounts: map[models.AircraftStatus]int{
			models.AircraftActive:      8,
			models.AircraftMaintenance: 2,
			models.AircraftRetired:     1,
		},
		airports: 12,
		routes:   30,
		popular: []repository.PopularRouteRow{
			{RouteID: 7, SourceAirportCode: "PHX", DestinationAirportCode: "SEA", FlightCount: 120},
		},
	})

	dashboard, err := svc.AdminDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 11, dashboard.TotalAircraft)
	assert.Equal(t, 8, dashboard.ActiveAircraft)
	assert.Equal(t, 1, dashboard.RetiredAircraft)
	assert.Equal(t, 30, dashboard.TotalRoutes)
	assert.Equal(t, 12, dashboard.TotalAirports)
	require.Len(t, dashboard.PopularRoutes, 1)
	assert.Equal(t, 120, dashboard.PopularRoutes[0].FlightCount)
}
