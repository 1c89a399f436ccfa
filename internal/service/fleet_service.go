package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/skyharbor/fleetops-api/internal/models"
	appErrors "github.com/skyharbor/fleetops-api/pkg/errors"
)

type aircraftStore interface {
	FindByRegistration(ctx context.Context, registration string) (*models.Aircraft, error)
	List(ctx context.Context, status *models.AircraftStatus) ([]models.Aircraft, error)
	Create(ctx context.Context, aircraft *models.Aircraft) error
	Update(ctx context.Context, aircraft *models.Aircraft) error
	Delete(ctx context.Context, registration string) error
	SetStatus(ctx context.Context, registration string, status models.AircraftStatus) error
	CountFutureFlights(ctx context.Context, registration string, date string, clock string) (int, error)
	CountOpenJobs(ctx context.Context, registration string) (int, error)
}

// CreateAircraftRequest registers a new aircraft.
type CreateAircraftRequest struct {
	RegistrationNumber string `json:"registration_number" validate:"required,max=20"`
	Company            string `json:"aircraft_company" validate:"required,max=100"`
	Model              string `json:"model" validate:"required,max=100"`
	Capacity           int    `json:"capacity" validate:"required,gt=0"`
}

// UpdateAircraftRequest modifies an aircraft's descriptive attributes.
type UpdateAircraftRequest struct {
	Company  string `json:"aircraft_company" validate:"required,max=100"`
	Model    string `json:"model" validate:"required,max=100"`
	Capacity int    `json:"capacity" validate:"required,gt=0"`
}

// FleetService owns the administrative aircraft registry. Lifecycle moves
// that would strand scheduled flights or open maintenance jobs are rejected.
type FleetService struct {
	fleet     aircraftStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewFleetService constructs FleetService.
func NewFleetService(fleet aircraftStore, validate *validator.Validate, logger *zap.Logger) *FleetService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FleetService{fleet: fleet, validator: validate, logger: logger, now: time.Now}
}

// List returns the fleet, optionally filtered by status.
func (s *FleetService) List(ctx context.Context, statusFilter string) ([]models.Aircraft, error) {
	var status *models.AircraftStatus
	if statusFilter != "" {
		candidate := models.AircraftStatus(statusFilter)
		if !candidate.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown aircraft status")
		}
		status = &candidate
	}
	fleet, err := s.fleet.List(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list aircraft")
	}
	return fleet, nil
}

// Get returns one aircraft.
func (s *FleetService) Get(ctx context.Context, registration string) (*models.Aircraft, error) {
	aircraft, err := s.fleet.FindByRegistration(ctx, registration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrAircraftNotFound, "aircraft not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load aircraft")
	}
	return aircraft, nil
}

// Create registers a new aircraft in active status.
func (s *FleetService) Create(ctx context.Context, req CreateAircraftRequest) (*models.Aircraft, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid aircraft payload")
	}
	if _, err := s.fleet.FindByRegistration(ctx, req.RegistrationNumber); err == nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "registration number already in use")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check registration")
	}

	aircraft := &models.Aircraft{
		RegistrationNumber: req.RegistrationNumber,
		Company:            req.Company,
		Model:              req.Model,
		Capacity:           req.Capacity,
		Status:             models.AircraftActive,
	}
	if err := s.fleet.Create(ctx, aircraft); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create aircraft")
	}
	s.logger.Info("aircraft registered", zap.String("registration", aircraft.RegistrationNumber))
	return aircraft, nil
}

// Update modifies an aircraft's company, model, and capacity. Status moves
// go through Retire and the maintenance workflow, not here.
func (s *FleetService) Update(ctx context.Context, registration string, req UpdateAircraftRequest) (*models.Aircraft, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid aircraft payload")
	}
	aircraft, err := s.Get(ctx, registration)
	if err != nil {
		return nil, err
	}

	aircraft.Company = req.Company
	aircraft.Model = req.Model
	aircraft.Capacity = req.Capacity
	if err := s.fleet.Update(ctx, aircraft); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update aircraft")
	}
	return aircraft, nil
}

// Retire takes an aircraft permanently out of service. An aircraft with
// undeparted flights or an open maintenance job cannot retire.
func (s *FleetService) Retire(ctx context.Context, registration string) (*models.Aircraft, error) {
	aircraft, err := s.Get(ctx, registration)
	if err != nil {
		return nil, err
	}
	if aircraft.Status == models.AircraftRetired {
		return nil, appErrors.Clone(appErrors.ErrStateViolation, "aircraft already retired")
	}
	if err := s.requireIdle(ctx, registration); err != nil {
		return nil, err
	}

	if err := s.fleet.SetStatus(ctx, registration, models.AircraftRetired); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to retire aircraft")
	}
	aircraft.Status = models.AircraftRetired
	s.logger.Info("aircraft retired", zap.String("registration", registration))
	return aircraft, nil
}

// Delete removes an aircraft from the registry under the same guards as
// retirement.
func (s *FleetService) Delete(ctx context.Context, registration string) error {
	if _, err := s.Get(ctx, registration); err != nil {
		return err
	}
	if err := s.requireIdle(ctx, registration); err != nil {
		return err
	}
	if err := s.fleet.Delete(ctx, registration); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete aircraft")
	}
	s.logger.Info("aircraft deleted", zap.String("registration", registration))
	return nil
}

func (s *FleetService) requireIdle(ctx context.Context, registration string) error {
	now := s.now().UTC()
	flights, err := s.fleet.CountFutureFlights(ctx, registration, now.Format(models.DateOnly), now.Format(clockLayout))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count future flights")
	}
	if flights > 0 {
		return appErrors.Clone(appErrors.ErrStateViolation, "aircraft still has undeparted flights")
	}
	jobs, err := s.fleet.CountOpenJobs(ctx, registration)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count open jobs")
	}
	if jobs > 0 {
		return appErrors.Clone(appErrors.ErrStateViolation, "aircraft has an open maintenance job")
	}
	return nil
}
