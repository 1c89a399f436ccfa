package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/skyharbor/fleetops-api/internal/models"
	appErrors "github.com/skyharbor/fleetops-api/pkg/errors"
)

type catalogStore interface {
	ListAirports(ctx context.Context) ([]models.Airport, error)
	FindAirport(ctx context.Context, code string) (*models.Airport, error)
	AirportExists(ctx context.Context, code string) (bool, error)
	ListRoutes(ctx context.Context) ([]models.Route, error)
	FindRoute(ctx context.Context, id int64) (*models.Route, error)
	CreateRoute(ctx context.Context, route *models.Route) error
	UpdateRoute(ctx context.Context, route *models.Route) error
	DeleteRoute(ctx context.Context, id int64) error
	CountFlightsOnRoute(ctx context.Context, id int64) (int, error)
	MaxCapacityOnRoute(ctx context.Context, id int64) (int, error)
}

// CreateRouteRequest registers a route between two known airports.
type CreateRouteRequest struct {
	SourceAirportCode      string `json:"source_airport_code" validate:"required,len=3"`
	DestinationAirportCode string `json:"destination_airport_code" validate:"required,len=3"`
	ApprovedCapacity       int    `json:"approved_capacity" validate:"required,gt=0"`
}

// UpdateRouteRequest changes a route's approved capacity.
type UpdateRouteRequest struct {
	ApprovedCapacity int `json:"approved_capacity" validate:"required,gt=0"`
}

// CatalogService owns the airport/route reference catalog.
type CatalogService struct {
	catalog   catalogStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(catalog catalogStore, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{catalog: catalog, validator: validate, logger: logger}
}

// ListAirports returns all airports.
func (s *CatalogService) ListAirports(ctx context.Context) ([]models.Airport, error) {
	airports, err := s.catalog.ListAirports(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list airports")
	}
	return airports, nil
}

// GetAirport returns one airport by IATA code.
func (s *CatalogService) GetAirport(ctx context.Context, code string) (*models.Airport, error) {
	airport, err := s.catalog.FindAirport(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "airport not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load airport")
	}
	return airport, nil
}

// ListRoutes returns all routes.
func (s *CatalogService) ListRoutes(ctx context.Context) ([]models.Route, error) {
	routes, err := s.catalog.ListRoutes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list routes")
	}
	return routes, nil
}

// GetRoute returns one route.
func (s *CatalogService) GetRoute(ctx context.Context, id int64) (*models.Route, error) {
	route, err := s.catalog.FindRoute(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrRouteNotFound, "route not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load route")
	}
	return route, nil
}

// CreateRoute registers a route. Both endpoints must be known airports and
// must differ.
func (s *CatalogService) CreateRoute(ctx context.Context, req CreateRouteRequest) (*models.Route, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid route payload")
	}
	if req.SourceAirportCode == req.DestinationAirportCode {
		return nil, appErrors.Clone(appErrors.ErrValidation, "route endpoints must differ")
	}
	for _, code := range []string{req.SourceAirportCode, req.DestinationAirportCode} {
		exists, err := s.catalog.AirportExists(ctx, code)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check airport")
		}
		if !exists {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown airport "+code)
		}
	}

	route := &models.Route{
		SourceAirportCode:      req.SourceAirportCode,
		DestinationAirportCode: req.DestinationAirportCode,
		ApprovedCapacity:       req.ApprovedCapacity,
	}
	if err := s.catalog.CreateRoute(ctx, route); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create route")
	}
	s.logger.Info("route created",
		zap.Int64("route_id", route.ID),
		zap.String("source", route.SourceAirportCode),
		zap.String("destination", route.DestinationAirportCode))
	return route, nil
}

// UpdateRoute changes the approved capacity. The capacity cannot drop below
// the largest aircraft already scheduled on the route.
func (s *CatalogService) UpdateRoute(ctx context.Context, id int64, req UpdateRouteRequest) (*models.Route, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid route payload")
	}
	route, err := s.GetRoute(ctx, id)
	if err != nil {
		return nil, err
	}

	maxScheduled, err := s.catalog.MaxCapacityOnRoute(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check scheduled capacity")
	}
	if req.ApprovedCapacity < maxScheduled {
		return nil, appErrors.Clone(appErrors.ErrStateViolation, "approved capacity below an already scheduled aircraft")
	}

	route.ApprovedCapacity = req.ApprovedCapacity
	if err := s.catalog.UpdateRoute(ctx, route); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update route")
	}
	return route, nil
}

// DeleteRoute removes a route with no scheduled flights.
func (s *CatalogService) DeleteRoute(ctx context.Context, id int64) error {
	if _, err := s.GetRoute(ctx, id); err != nil {
		return err
	}
	count, err := s.catalog.CountFlightsOnRoute(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count route flights")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrStateViolation, "route still has scheduled flights")
	}
	if err := s.catalog.DeleteRoute(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete route")
	}
	s.logger.Info("route deleted", zap.Int64("route_id", id))
	return nil
}
