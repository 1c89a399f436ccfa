package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/skyharbor/fleetops-api/internal/dto"
	"github.com/skyharbor/fleetops-api/internal/models"
	"github.com/skyharbor/fleetops-api/internal/repository"
	appErrors "github.com/skyharbor/fleetops-api/pkg/errors"
)

type flightStore interface {
	WithTx(ctx context.Context, fn func(repository.FlightTxn) error) error
	FindByKey(ctx context.Context, number string, date string) (*models.Flight, error)
	List(ctx context.Context, date *string) ([]models.FlightWithRoute, error)
	ListByAircraft(ctx context.Context, registration string) ([]models.FlightWithRoute, error)
}

type flightCrewReader interface {
	ListCrewForFlight(ctx context.Context, number string, date string) ([]models.CrewMember, error)
}

// CreateFlightRequest describes a new timetable instance.
type CreateFlightRequest struct {
	FlightNumber         string `json:"flight_number" validate:"required,max=10"`
	Date                 string `json:"date" validate:"required,datetime=2006-01-02"`
	RouteID              int64  `json:"route_id" validate:"required"`
	DepartureTime        string `json:"scheduled_departure_time" validate:"required,datetime=15:04:05"`
	ArrivalTime          string `json:"scheduled_arrival_time" validate:"required,datetime=15:04:05"`
	AircraftRegistration string `json:"aircraft_registration" validate:"required"`
}

// UpdateFlightRequest is a patch over an existing instance; nil fields keep
// their current values. A new number or date rekeys the flight and cascades
// to its roster.
type UpdateFlightRequest struct {
	FlightNumber         *string `json:"flight_number" validate:"omitempty,max=10"`
	Date                 *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	RouteID              *int64  `json:"route_id" validate:"omitempty,min=1"`
	DepartureTime        *string `json:"scheduled_departure_time" validate:"omitempty,datetime=15:04:05"`
	ArrivalTime          *string `json:"scheduled_arrival_time" validate:"omitempty,datetime=15:04:05"`
	AircraftRegistration *string `json:"aircraft_registration" validate:"omitempty,min=1"`
}

// TimetableService owns the flight timetable and its conflict rules. Every
// mutation validates and writes inside one transaction, with the target
// aircraft row locked so concurrent mutations on the same tail number
// serialize.
type TimetableService struct {
	flights   flightStore
	crew      flightCrewReader
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewTimetableService constructs TimetableService.
func NewTimetableService(flights flightStore, crew flightCrewReader, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{flights: flights, crew: crew, validator: validate, logger: logger, now: time.Now}
}

func flightResponse(f models.Flight) *dto.FlightResponse {
	return &dto.FlightResponse{
		FlightNumber:         f.FlightNumber,
		Date:                 f.DateString(),
		RouteID:              f.RouteID,
		DepartureTime:        f.DepartureTime,
		ArrivalTime:          f.ArrivalTime,
		AircraftRegistration: f.AircraftRegistration,
	}
}

// Create schedules a new flight. Rule order is fixed: duplicate key, route
// existence, aircraft existence, aircraft status, capacity, time window, then
// aircraft double booking. The first violated rule is returned.
func (s *TimetableService) Create(ctx context.Context, req CreateFlightRequest) (*dto.FlightResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid flight payload")
	}
	date, err := time.Parse(models.DateOnly, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid flight date")
	}

	flight := &models.Flight{
		FlightNumber:         req.FlightNumber,
		Date:                 date,
		RouteID:              req.RouteID,
		DepartureTime:        req.DepartureTime,
		ArrivalTime:          req.ArrivalTime,
		AircraftRegistration: req.AircraftRegistration,
	}

	err = s.flights.WithTx(ctx, func(tx repository.FlightTxn) error {
		if _, err := tx.FindByKey(ctx, req.FlightNumber, req.Date); err == nil {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "flight already scheduled for this date")
		} else if !errors.Is(err, sql.ErrNoRows) {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check flight key")
		}

		route, err := tx.GetRoute(ctx, req.RouteID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrRouteNotFound, "route not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load route")
		}

		aircraft, err := tx.LockAircraft(ctx, req.AircraftRegistration)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrAircraftNotFound, "aircraft not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load aircraft")
		}

		return s.checkSchedulingRules(ctx, tx, flight, route, aircraft, "")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("flight scheduled",
		zap.String("flight_number", flight.FlightNumber),
		zap.String("date", flight.DateString()),
		zap.String("aircraft", flight.AircraftRegistration))
	return flightResponse(*flight), nil
}

// checkSchedulingRules runs the status, capacity, window, and double-booking
// checks and then inserts or updates the flight. excludeNumber removes the
// flight's previous instance from the double-booking scan on update.
func (s *TimetableService) checkSchedulingRules(ctx context.Context, tx repository.FlightTxn, flight *models.Flight, route *models.Route, aircraft *models.Aircraft, oldNumber string) error {
	if aircraft.Status != models.AircraftActive {
		return appErrors.Clone(appErrors.ErrAircraftNotActive, "aircraft is not in active service")
	}
	if aircraft.Capacity > route.ApprovedCapacity {
		return appErrors.Clone(appErrors.ErrCapacityExceeded, "aircraft capacity exceeds route approved capacity")
	}

	dep, err := parseClock(flight.DepartureTime)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid departure time")
	}
	arr, err := parseClock(flight.ArrivalTime)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid arrival time")
	}
	if arr <= dep {
		return appErrors.Clone(appErrors.ErrInvalidTimeWindow, "arrival must be after departure")
	}
	if flight.Date.Add(time.Duration(dep) * time.Second).Before(s.now().UTC()) {
		return appErrors.Clone(appErrors.ErrInvalidTimeWindow, "departure is in the past")
	}

	others, err := tx.ListByAircraftOnDate(ctx, flight.AircraftRegistration, flight.DateString(), oldNumber)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to scan aircraft schedule")
	}
	for _, other := range others {
		conflict, err := windowConflicts(flight.DepartureTime, flight.ArrivalTime, other.DepartureTime, other.ArrivalTime)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compare flight windows")
		}
		if conflict {
			return appErrors.Clone(appErrors.ErrAircraftDoubleBooked, "aircraft already booked for an overlapping window")
		}
	}

	if oldNumber == "" {
		if err := tx.Insert(ctx, flight); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert flight")
		}
		return nil
	}
	return nil
}

// Update patches an existing flight identified by (number, date). Set fields
// replace the stored values, the merged result is revalidated in full, and a
// key change rekeys the flight with the roster's duplicated departure time
// following in the same transaction.
func (s *TimetableService) Update(ctx context.Context, number string, dateStr string, req UpdateFlightRequest) (*dto.FlightResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid flight payload")
	}
	if _, err := time.Parse(models.DateOnly, dateStr); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid flight date")
	}

	var updated models.Flight
	err := s.flights.WithTx(ctx, func(tx repository.FlightTxn) error {
		current, err := tx.FindByKey(ctx, number, dateStr)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "flight not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load flight")
		}

		flight := *current
		if req.FlightNumber != nil {
			flight.FlightNumber = *req.FlightNumber
		}
		if req.Date != nil {
			newDate, err := time.Parse(models.DateOnly, *req.Date)
			if err != nil {
				return appErrors.Clone(appErrors.ErrValidation, "invalid flight date")
			}
			flight.Date = newDate
		}
		if req.RouteID != nil {
			flight.RouteID = *req.RouteID
		}
		if req.DepartureTime != nil {
			flight.DepartureTime = *req.DepartureTime
		}
		if req.ArrivalTime != nil {
			flight.ArrivalTime = *req.ArrivalTime
		}
		if req.AircraftRegistration != nil {
			flight.AircraftRegistration = *req.AircraftRegistration
		}

		if flight.FlightNumber != number || flight.DateString() != dateStr {
			if _, err := tx.FindByKey(ctx, flight.FlightNumber, flight.DateString()); err == nil {
				return appErrors.Clone(appErrors.ErrDuplicateKey, "target flight key already exists")
			} else if !errors.Is(err, sql.ErrNoRows) {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check flight key")
			}
		}

		route, err := tx.GetRoute(ctx, flight.RouteID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrRouteNotFound, "route not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load route")
		}

		aircraft, err := tx.LockAircraft(ctx, flight.AircraftRegistration)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrAircraftNotFound, "aircraft not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load aircraft")
		}

		if err := s.checkSchedulingRules(ctx, tx, &flight, route, aircraft, number); err != nil {
			return err
		}
		if err := tx.Update(ctx, number, dateStr, &flight); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update flight")
		}
		updated = flight
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("flight updated",
		zap.String("flight_number", number),
		zap.String("date", dateStr),
		zap.String("new_flight_number", updated.FlightNumber))
	return flightResponse(updated), nil
}

// Delete removes a flight and its roster.
func (s *TimetableService) Delete(ctx context.Context, number string, dateStr string) error {
	if _, err := time.Parse(models.DateOnly, dateStr); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid flight date")
	}
	return s.flights.WithTx(ctx, func(tx repository.FlightTxn) error {
		if _, err := tx.FindByKey(ctx, number, dateStr); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "flight not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load flight")
		}
		if err := tx.Delete(ctx, number, dateStr); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete flight")
		}
		return nil
	})
}

// Get returns one flight with its roster ordered by crew name.
func (s *TimetableService) Get(ctx context.Context, number string, dateStr string) (*dto.FlightResponse, []dto.CrewSummary, error) {
	if _, err := time.Parse(models.DateOnly, dateStr); err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid flight date")
	}
	flight, err := s.flights.FindByKey(ctx, number, dateStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "flight not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load flight")
	}
	crew, err := s.crew.ListCrewForFlight(ctx, number, dateStr)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load flight crew")
	}
	return flightResponse(*flight), crewSummaries(crew), nil
}

// List returns the timetable, optionally filtered to one day.
func (s *TimetableService) List(ctx context.Context, dateStr *string) ([]dto.FlightResponse, error) {
	if dateStr != nil {
		if _, err := time.Parse(models.DateOnly, *dateStr); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date filter")
		}
	}
	flights, err := s.flights.List(ctx, dateStr)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list flights")
	}
	responses := make([]dto.FlightResponse, 0, len(flights))
	for _, f := range flights {
		responses = append(responses, *flightResponse(f.Flight))
	}
	return responses, nil
}

// ListByAircraft returns every flight scheduled on an aircraft.
func (s *TimetableService) ListByAircraft(ctx context.Context, registration string) ([]dto.FlightResponse, error) {
	flights, err := s.flights.ListByAircraft(ctx, registration)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list aircraft flights")
	}
	responses := make([]dto.FlightResponse, 0, len(flights))
	for _, f := range flights {
		responses = append(responses, *flightResponse(f.Flight))
	}
	return responses, nil
}

func crewSummaries(crew []models.CrewMember) []dto.CrewSummary {
	summaries := make([]dto.CrewSummary, 0, len(crew))
	for _, member := range crew {
		summaries = append(summaries, dto.CrewSummary{
			Email:   member.Email,
			Name:    member.Name,
			Phone:   member.Phone,
			IsPilot: member.IsPilot,
		})
	}
	return summaries
}
