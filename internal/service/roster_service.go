package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/skyharbor/fleetops-api/internal/dto"
	"github.com/skyharbor/fleetops-api/internal/models"
	"github.com/skyharbor/fleetops-api/internal/repository"
	appErrors "github.com/skyharbor/fleetops-api/pkg/errors"
)

type rosterStore interface {
	WithTx(ctx context.Context, fn func(repository.RosterTxn) error) error
	ListCrewForFlight(ctx context.Context, number string, date string) ([]models.CrewMember, error)
	ListFlightsForCrew(ctx context.Context, email string, upcoming bool, date string, clock string) ([]models.FlightWithRoute, error)
	FindLatestFlightForCrew(ctx context.Context, email string, number string) (*models.FlightWithRoute, error)
	ListAircraftForCrew(ctx context.Context, email string) ([]models.Aircraft, error)
	CompletedMinutesForCrew(ctx context.Context, email string, date string, clock string) (int, error)
}

type aircraftReader interface {
	FindByRegistration(ctx context.Context, registration string) (*models.Aircraft, error)
}

// AssignCrewRequest replaces a flight's roster wholesale.
type AssignCrewRequest struct {
	Crew []string `json:"crew" validate:"required,min=1,dive,required,email"`
}

// RosterService owns crew roster assignment and the crew member's read
// surface. A roster write validates every member against their other duties
// and replaces the flight's roster in one transaction.
type RosterService struct {
	roster    rosterStore
	aircraft  aircraftReader
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewRosterService constructs RosterService.
func NewRosterService(roster rosterStore, aircraft aircraftReader, validate *validator.Validate, logger *zap.Logger) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{roster: roster, aircraft: aircraft, validator: validate, logger: logger, now: time.Now}
}

// AssignCrew replaces the roster of a flight. Rule order is fixed: empty
// roster, flight existence, unknown members, pilot presence, past departure,
// then per-member double booking. The previous roster survives any failure.
func (s *RosterService) AssignCrew(ctx context.Context, number string, dateStr string, req AssignCrewRequest) (*dto.CrewAssignmentResponse, error) {
	if len(req.Crew) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyRoster, "roster must contain at least one crew member")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roster payload")
	}
	if _, err := time.Parse(models.DateOnly, dateStr); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid flight date")
	}

	emails := dedupe(req.Crew)
	var roster []models.CrewMember

	err := s.roster.WithTx(ctx, func(tx repository.RosterTxn) error {
		flight, err := tx.GetFlight(ctx, number, dateStr)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "flight not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load flight")
		}

		members, err := tx.LockCrewMembers(ctx, emails)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock crew members")
		}
		if len(members) != len(emails) {
			known := make(map[string]struct{}, len(members))
			for _, member := range members {
				known[member.Email] = struct{}{}
			}
			missing := make([]string, 0, len(emails)-len(members))
			for _, email := range emails {
				if _, ok := known[email]; !ok {
					missing = append(missing, email)
				}
			}
			return appErrors.Clone(appErrors.ErrUnknownCrew, "unknown crew members: "+strings.Join(missing, ", "))
		}

		hasPilot := false
		for _, member := range members {
			if member.IsPilot {
				hasPilot = true
				break
			}
		}
		if !hasPilot {
			return appErrors.Clone(appErrors.ErrNoPilotAssigned, "roster must include at least one pilot")
		}

		if s.departed(flight) {
			return appErrors.Clone(appErrors.ErrPastFlight, "flight has already departed")
		}

		for _, member := range members {
			duties, err := tx.ListDutiesOnDate(ctx, member.Email, dateStr, number)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to scan crew duties")
			}
			for _, duty := range duties {
				conflict, err := windowConflicts(flight.DepartureTime, flight.ArrivalTime, duty.DepartureTime, duty.ArrivalTime)
				if err != nil {
					return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compare duty windows")
				}
				if conflict {
					return appErrors.Clone(appErrors.ErrCrewDoubleBooked, "crew member "+member.Email+" is double booked")
				}
			}
		}

		assignments := make([]models.CrewAssignment, 0, len(members))
		for _, member := range members {
			assignments = append(assignments, models.CrewAssignment{
				FlightNumber:  flight.FlightNumber,
				Date:          flight.Date,
				DepartureTime: flight.DepartureTime,
				CrewEmail:     member.Email,
			})
		}
		if err := tx.ReplaceRoster(ctx, number, dateStr, assignments); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace roster")
		}

		roster = members
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(roster, func(i, j int) bool { return roster[i].Name < roster[j].Name })
	s.logger.Info("roster assigned",
		zap.String("flight_number", number),
		zap.String("date", dateStr),
		zap.Int("crew", len(roster)))
	return &dto.CrewAssignmentResponse{
		FlightNumber: number,
		Date:         dateStr,
		Crew:         crewSummaries(roster),
	}, nil
}

// departed reports whether the flight's scheduled departure is in the past.
func (s *RosterService) departed(flight *models.Flight) bool {
	now := s.now().UTC()
	today := now.Format(models.DateOnly)
	flightDay := flight.DateString()
	if flightDay != today {
		return flightDay < today
	}
	return flight.DepartureTime < now.Format(clockLayout)
}

// ListCrew returns a flight's roster ordered by member name.
func (s *RosterService) ListCrew(ctx context.Context, number string, dateStr string) ([]dto.CrewSummary, error) {
	if _, err := time.Parse(models.DateOnly, dateStr); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid flight date")
	}
	crew, err := s.roster.ListCrewForFlight(ctx, number, dateStr)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list flight crew")
	}
	return crewSummaries(crew), nil
}

// MyFlights returns the member's flights, upcoming-only or full history.
func (s *RosterService) MyFlights(ctx context.Context, email string, upcoming bool) ([]dto.CrewFlightSummary, error) {
	now := s.now().UTC()
	flights, err := s.roster.ListFlightsForCrew(ctx, email, upcoming, now.Format(models.DateOnly), now.Format(clockLayout))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list crew flights")
	}
	summaries := make([]dto.CrewFlightSummary, 0, len(flights))
	for _, flight := range flights {
		summaries = append(summaries, crewFlightSummary(flight))
	}
	return summaries, nil
}

// MyFlightDetail returns the member's most recent assignment for the given
// flight number, with aircraft details and colleagues.
func (s *RosterService) MyFlightDetail(ctx context.Context, email string, number string) (*dto.CrewFlightDetail, error) {
	flight, err := s.roster.FindLatestFlightForCrew(ctx, email, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no assignment for this flight")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load crew flight")
	}
	aircraft, err := s.aircraft.FindByRegistration(ctx, flight.AircraftRegistration)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load aircraft")
	}
	crew, err := s.roster.ListCrewForFlight(ctx, flight.FlightNumber, flight.DateString())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load flight crew")
	}

	detail := &dto.CrewFlightDetail{
		CrewFlightSummary: crewFlightSummary(*flight),
		AircraftCompany:   aircraft.Company,
		AircraftModel:     aircraft.Model,
		AircraftCapacity:  aircraft.Capacity,
		Crew:              make([]dto.CrewOnFlight, 0, len(crew)),
	}
	for _, member := range crew {
		role := "Cabin Crew"
		if member.IsPilot {
			role = "Pilot"
		}
		detail.Crew = append(detail.Crew, dto.CrewOnFlight{
			Email:   member.Email,
			Name:    member.Name,
			IsPilot: member.IsPilot,
			Role:    role,
		})
	}
	return detail, nil
}

// MyAircrafts returns the distinct aircraft the member flies.
func (s *RosterService) MyAircrafts(ctx context.Context, email string) ([]models.Aircraft, error) {
	fleet, err := s.roster.ListAircraftForCrew(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list crew aircraft")
	}
	return fleet, nil
}

// Dashboard aggregates the member's completed hours, upcoming flights, and
// next departure.
func (s *RosterService) Dashboard(ctx context.Context, email string) (*dto.CrewDashboard, error) {
	now := s.now().UTC()
	today := now.Format(models.DateOnly)
	clock := now.Format(clockLayout)

	upcoming, err := s.roster.ListFlightsForCrew(ctx, email, true, today, clock)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list upcoming flights")
	}
	minutes, err := s.roster.CompletedMinutesForCrew(ctx, email, today, clock)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum completed time")
	}

	dashboard := &dto.CrewDashboard{
		UpcomingFlights: make([]dto.CrewFlightSummary, 0, len(upcoming)),
		Stats: dto.CrewDashboardStats{
			TotalHoursCompleted: float64(minutes) / 60.0,
		},
	}
	for _, flight := range upcoming {
		dashboard.UpcomingFlights = append(dashboard.UpcomingFlights, crewFlightSummary(flight))
	}
	if len(upcoming) > 0 {
		next := upcoming[0]
		summary := crewFlightSummary(next)
		dashboard.Stats.NextFlight = &dto.NextFlightInfo{
			CrewFlightSummary:         summary,
			TimeUntilDepartureMinutes: minutesUntil(now, next.Date, next.DepartureTime),
		}
	}
	return dashboard, nil
}

func crewFlightSummary(flight models.FlightWithRoute) dto.CrewFlightSummary {
	duration, err := flightDuration(flight.DepartureTime, flight.ArrivalTime)
	if err != nil {
		duration = 0
	}
	return dto.CrewFlightSummary{
		FlightNumber:           flight.FlightNumber,
		Date:                   flight.DateString(),
		DepartureTime:          flight.DepartureTime,
		ArrivalTime:            flight.ArrivalTime,
		DurationMinutes:        duration,
		AircraftRegistration:   flight.AircraftRegistration,
		SourceAirportCode:      flight.SourceAirportCode,
		DestinationAirportCode: flight.DestinationAirportCode,
	}
}

// minutesUntil computes whole minutes from now until the departure moment.
func minutesUntil(now time.Time, date time.Time, departure string) int {
	dep, err := parseClock(departure)
	if err != nil {
		return 0
	}
	moment := time.Date(date.Year(), date.Month(), date.Day(), dep/3600, (dep%3600)/60, dep%60, 0, time.UTC)
	diff := moment.Sub(now)
	if diff < 0 {
		return 0
	}
	return int(diff / time.Minute)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
