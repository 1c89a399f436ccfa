package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/skyharbor/fleetops-api/internal/dto"
	"github.com/skyharbor/fleetops-api/internal/models"
	"github.com/skyharbor/fleetops-api/internal/repository"
	appErrors "github.com/skyharbor/fleetops-api/pkg/errors"
)

const (
	schedulerDashboardCacheKey = "dashboard:scheduler"
	adminDashboardCacheKey     = "dashboard:admin"
)

type dashboardFlightReader interface {
	Recent(ctx context.Context, limit int) ([]models.FlightWithRoute, error)
	CountInAir(ctx context.Context, date string, clock string) (int, error)
	CountInRange(ctx context.Context, from string, to string) (int, error)
	CountAircraftInAir(ctx context.Context, date string, clock string) (int, error)
}

type dashboardFleetReader interface {
	CountByStatus(ctx context.Context) (map[models.AircraftStatus]int, error)
}

type dashboardCatalogReader interface {
	CountAirports(ctx context.Context) (int, error)
	CountRoutes(ctx context.Context) (int, error)
	PopularRoutes(ctx context.Context, limit int) ([]repository.PopularRouteRow, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL           time.Duration
	RecentFlightsLimit int
	PopularRoutesLimit int
}

// DashboardService composes the scheduler and admin aggregate views. Both
// payloads are cached under a short TTL; a cold or disabled cache falls
// through to the database.
type DashboardService struct {
	flights dashboardFlightReader
	fleet   dashboardFleetReader
	catalog dashboardCatalogReader
	cache   *CacheService
	logger  *zap.Logger
	now     func() time.Time
	cfg     DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Flights dashboardFlightReader
	Fleet   dashboardFleetReader
	Catalog dashboardCatalogReader
	Cache   *CacheService
	Logger  *zap.Logger
	Config  DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RecentFlightsLimit <= 0 {
		cfg.RecentFlightsLimit = 10
	}
	if cfg.PopularRoutesLimit <= 0 {
		cfg.PopularRoutesLimit = 5
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		flights: params.Flights,
		fleet:   params.Fleet,
		catalog: params.Catalog,
		cache:   params.Cache,
		logger:  logger,
		now:     time.Now,
		cfg:     cfg,
	}
}

// SchedulerDashboard returns the fleet-wide scheduling view.
func (s *DashboardService) SchedulerDashboard(ctx context.Context) (*dto.SchedulerDashboard, error) {
	var cached dto.SchedulerDashboard
	if hit, _ := s.cache.Get(ctx, schedulerDashboardCacheKey, &cached); hit {
		return &cached, nil
	}

	now := s.now().UTC()
	today := now.Format(models.DateOnly)
	clock := now.Format(clockLayout)

	recent, err := s.flights.Recent(ctx, s.cfg.RecentFlightsLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent flights")
	}
	inAir, err := s.flights.CountInAir(ctx, today, clock)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count flights in air")
	}

	weekStart := now.AddDate(0, 0, -int(now.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 6)
	weekly, err := s.flights.CountInRange(ctx, weekStart.Format(models.DateOnly), weekEnd.Format(models.DateOnly))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count weekly flights")
	}

	counts, err := s.fleet.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count aircraft")
	}
	aircraftInAir, err := s.flights.CountAircraftInAir(ctx, today, clock)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count aircraft in air")
	}

	active := counts[models.AircraftActive]
	var utilization float64
	if active > 0 {
		utilization = float64(aircraftInAir) / float64(active)
	}

	dashboard := &dto.SchedulerDashboard{
		RecentFlights: make([]dto.DashboardFlight, 0, len(recent)),
		Stats: dto.SchedulerDashboardStats{
			FlightsInAir:        inAir,
			WeeklyFlights:       weekly,
			UtilizationRate:     utilization,
			AircraftOnGround:    active - aircraftInAir,
			MaintenanceAircraft: counts[models.AircraftMaintenance],
		},
	}
	for _, flight := range recent {
		dashboard.RecentFlights = append(dashboard.RecentFlights, dto.DashboardFlight{
			FlightNumber:           flight.FlightNumber,
			RouteID:                flight.RouteID,
			SourceAirportCode:      flight.SourceAirportCode,
			DestinationAirportCode: flight.DestinationAirportCode,
			ApprovedCapacity:       flight.ApprovedCapacity,
			Date:                   flight.DateString(),
			DepartureTime:          flight.DepartureTime,
			ArrivalTime:            flight.ArrivalTime,
			AircraftRegistration:   flight.AircraftRegistration,
		})
	}

	if err := s.cache.Set(ctx, schedulerDashboardCacheKey, dashboard, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache scheduler dashboard", zap.Error(err))
	}
	return dashboard, nil
}

// AdminDashboard returns fleet-wide counts for administrators.
func (s *DashboardService) AdminDashboard(ctx context.Context) (*dto.AdminDashboard, error) {
	var cached dto.AdminDashboard
	if hit, _ := s.cache.Get(ctx, adminDashboardCacheKey, &cached); hit {
		return &cached, nil
	}

	counts, err := s.fleet.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count aircraft")
	}
	routes, err := s.catalog.CountRoutes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count routes")
	}
	airports, err := s.catalog.CountAirports(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count airports")
	}
	popular, err := s.catalog.PopularRoutes(ctx, s.cfg.PopularRoutesLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to rank routes")
	}

	dashboard := &dto.AdminDashboard{
		TotalAircraft:       counts[models.AircraftActive] + counts[models.AircraftMaintenance] + counts[models.AircraftRetired],
		ActiveAircraft:      counts[models.AircraftActive],
		MaintenanceAircraft: counts[models.AircraftMaintenance],
		RetiredAircraft:     counts[models.AircraftRetired],
		TotalRoutes:         routes,
		TotalAirports:       airports,
		PopularRoutes:       make([]dto.PopularRoute, 0, len(popular)),
	}
	for _, row := range popular {
		dashboard.PopularRoutes = append(dashboard.PopularRoutes, dto.PopularRoute{
			RouteID:                row.RouteID,
			SourceAirportCode:      row.SourceAirportCode,
			DestinationAirportCode: row.DestinationAirportCode,
			FlightCount:            row.FlightCount,
		})
	}

	if err := s.cache.Set(ctx, adminDashboardCacheKey, dashboard, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache admin dashboard", zap.Error(err))
	}
	return dashboard, nil
}

// InvalidateDashboards drops both cached payloads after a mutation.
func (s *DashboardService) InvalidateDashboards(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
