package service

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyharbor/fleetops-api/internal/models"
	"github.com/skyharbor/fleetops-api/internal/repository"
	appErrors "github.com/skyharbor/fleetops-api/pkg/errors"
)

type fakeRosterStore struct {
	flights  map[string]models.Flight
	crew     map[string]models.CrewMember
	rosters  map[string][]models.CrewAssignment
	aircraft map[string]models.Aircraft
}

func (f *fakeRosterStore) WithTx(ctx context.Context, fn func(repository.RosterTxn) error) error {
	staged := make(map[string][]models.CrewAssignment, len(f.rosters))
	for k, v := range f.rosters {
		staged[k] = append([]models.CrewAssignment(nil), v...)
	}
	tx := &fakeRosterTx{store: f, staged: staged}
	if err := fn(tx); err != nil {
		return err
	}
	f.rosters = tx.staged
	return nil
}

func (f *fakeRosterStore) ListCrewForFlight(ctx context.Context, number string, date string) ([]models.CrewMember, error) {
	var out []models.CrewMember
	for _, a := range f.rosters[flightKey(number, date)] {
		out = append(out, f.crew[a.CrewEmail])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRosterStore) ListFlightsForCrew(ctx context.Context, email string, upcoming bool, date string, clock string) ([]models.FlightWithRoute, error) {
	var out []models.FlightWithRoute
	for key, roster := range f.rosters {
		for _, a := range roster {
			if a.CrewEmail != email {
				continue
			}
			flight := f.flights[key]
			if upcoming {
				day := flight.DateString()
				if day < date || (day == date && flight.DepartureTime <= clock) {
					continue
				}
			}
			out = append(out, models.FlightWithRoute{Flight: flight})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].DepartureTime < out[j].DepartureTime
	})
	return out, nil
}

func (f *fakeRosterStore) FindLatestFlightForCrew(ctx context.Context, email string, number string) (*models.FlightWithRoute, error) {
	var latest *models.FlightWithRoute
	for key, roster := range f.rosters {
		for _, a := range roster {
			if a.CrewEmail != email {
				continue
			}
			flight := f.flights[key]
			if flight.FlightNumber != number {
				continue
			}
			if latest == nil || flight.Date.After(latest.Date) {
				latest = &models.FlightWithRoute{Flight: flight}
			}
		}
	}
	if latest == nil {
		return nil, sql.ErrNoRows
	}
	return latest, nil
}

func (f *fakeRosterStore) ListAircraftForCrew(ctx context.Context, email string) ([]models.Aircraft, error) {
	seen := map[string]bool{}
	var out []models.Aircraft
	for key, roster := range f.rosters {
		for _, a := range roster {
			if a.CrewEmail != email {
				continue
			}
			reg := f.flights[key].AircraftRegistration
			if !seen[reg] {
				seen[reg] = true
				out = append(out, f.aircraft[reg])
			}
		}
	}
	return out, nil
}

func (f *fakeRosterStore) CompletedMinutesForCrew(ctx context.Context, email string, date string, clock string) (int, error) {
	total := 0
	for key, roster := range f.rosters {
		for _, a := range roster {
			if a.CrewEmail != email {
				continue
			}
			flight := f.flights[key]
			day := flight.DateString()
			if day > date || (day == date && flight.ArrivalTime > clock) {
				continue
			}
			minutes, err := flightDuration(flight.DepartureTime, flight.ArrivalTime)
			if err != nil {
				return 0, err
			}
			total += minutes
		}
	}
	return total, nil
}

func (f *fakeRosterStore) FindByRegistration(ctx context.Context, registration string) (*models.Aircraft, error) {
	if aircraft, ok := f.aircraft[registration]; ok {
		return &aircraft, nil
	}
	return nil, sql.ErrNoRows
}

type fakeRosterTx struct {
	store  *fakeRosterStore
	staged map[string][]models.CrewAssignment
}

func (t *fakeRosterTx) GetFlight(ctx context.Context, number string, date string) (*models.Flight, error) {
	if flight, ok := t.store.flights[flightKey(number, date)]; ok {
		return &flight, nil
	}
	return nil, sql.ErrNoRows
}

func (t *fakeRosterTx) LockCrewMembers(ctx context.Context, emails []string) ([]models.CrewMember, error) {
	var out []models.CrewMember
	for _, email := range emails {
		if member, ok := t.store.crew[email]; ok {
			out = append(out, member)
		}
	}
	return out, nil
}

func (t *fakeRosterTx) ListDutiesOnDate(ctx context.Context, email string, date string, excludeNumber string) ([]models.CrewAssignmentWithFlight, error) {
	var out []models.CrewAssignmentWithFlight
	for key, roster := range t.staged {
		for _, a := range roster {
			if a.CrewEmail != email {
				continue
			}
			flight := t.store.flights[key]
			if flight.DateString() != date || flight.FlightNumber == excludeNumber {
				continue
			}
			out = append(out, models.CrewAssignmentWithFlight{
				FlightNumber:  flight.FlightNumber,
				Date:          flight.Date,
				DepartureTime: flight.DepartureTime,
				ArrivalTime:   flight.ArrivalTime,
				CrewEmail:     a.CrewEmail,
			})
		}
	}
	return out, nil
}

func (t *fakeRosterTx) ReplaceRoster(ctx context.Context, number string, date string, assignments []models.CrewAssignment) error {
	t.staged[flightKey(number, date)] = append([]models.CrewAssignment(nil), assignments...)
	return nil
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(models.DateOnly, value)
	require.NoError(t, err)
	return d
}

func newRosterFixture(t *testing.T) (*fakeRosterStore, *RosterService) {
	store := &fakeRosterStore{
		flights: map[string]models.Flight{
			flightKey("AA100", "2025-03-10"): {
				FlightNumber:         "AA100",
				Date:                 mustDate(t, "2025-03-10"),
				RouteID:              7,
				DepartureTime:        "10:00:00",
				ArrivalTime:          "12:00:00",
				AircraftRegistration: "N100SH",
			},
			flightKey("AA200", "2025-03-10"): {
				FlightNumber:         "AA200",
				Date:                 mustDate(t, "2025-03-10"),
				RouteID:              7,
				DepartureTime:        "11:00:00",
				ArrivalTime:          "13:00:00",
				AircraftRegistration: "N200SH",
			},
		},
		crew: map[string]models.CrewMember{
			"pilot@skyharbor.io": {Email: "pilot@skyharbor.io", Name: "Ava Pilot", IsPilot: true},
			"cabin@skyharbor.io": {Email: "cabin@skyharbor.io", Name: "Ben Cabin", IsPilot: false},
			"other@skyharbor.io": {Email: "other@skyharbor.io", Name: "Cara Cabin", IsPilot: false},
		},
		rosters:  map[string][]models.CrewAssignment{},
		aircraft: map[string]models.Aircraft{},
	}
	svc := NewRosterService(store, store, nil, nil)
	// Fixed clock well before the fixture flights depart.
	svc.now = func() time.Time {
		return time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	}
	return store, svc
}

func TestAssignCrewSuccess(t *testing.T) {
	store, svc := newRosterFixture(t)

	resp, err := svc.AssignCrew(context.Background(), "AA100", "2025-03-10", AssignCrewRequest{
		Crew: []string{"pilot@skyharbor.io", "cabin@skyharbor.io"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Crew, 2)
	assert.Equal(t, "Ava Pilot", resp.Crew[0].Name)
	assert.Equal(t, "Ben Cabin", resp.Crew[1].Name)

	roster := store.rosters[flightKey("AA100", "2025-03-10")]
	require.Len(t, roster, 2)
	for _, a := range roster {
		assert.Equal(t, "10:00:00", a.DepartureTime)
	}
}

func TestAssignCrewReplacesPreviousRoster(t *testing.T) {
	store, svc := newRosterFixture(t)
	_, err := svc.AssignCrew(context.Background(), "AA100", "2025-03-10", AssignCrewRequest{
		Crew: []string{"pilot@skyharbor.io", "cabin@skyharbor.io"},
	})
	require.NoError(t, err)

	_, err = svc.AssignCrew(context.Background(), "AA100", "2025-03-10", AssignCrewRequest{
		Crew: []string{"pilot@skyharbor.io", "other@skyharbor.io"},
	})
	require.NoError(t, err)

	roster := store.rosters[flightKey("AA100", "2025-03-10")]
	require.Len(t, roster, 2)
	emails := []string{roster[0].CrewEmail, roster[1].CrewEmail}
	sort.Strings(emails)
	assert.Equal(t, []string{"other@skyharbor.io", "pilot@skyharbor.io"}, emails)
}

func TestAssignCrewEmptyRoster(t *testing.T) {
	_, svc := newRosterFixture(t)
	_, err := svc.AssignCrew(context.Background(), "AA100", "2025-03-10", AssignCrewRequest{})
	requireAppError(t, err, appErrors.ErrEmptyRoster.Code)
}

func TestAssignCrewFlightNotFound(t *testing.T) {
	_, svc := newRosterFixture(t)
	_, err := svc.AssignCrew(context.Background(), "AA404", "2025-03-10", AssignCrewRequest{
		Crew: []string{"pilot@skyharbor.io"},
	})
	requireAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestAssignCrewUnknownMember(t *testing.T) {
	_, svc := newRosterFixture(t)
	_, err := svc.AssignCrew(context.Background(), "AA100", "2025-03-10", AssignCrewRequest{
		Crew: []string{"pilot@skyharbor.io", "ghost@skyharbor.io", "phantom@skyharbor.io"},
	})
	requireAppError(t, err, appErrors.ErrUnknownCrew.Code)

	// Every missing email is named, known ones are not.
	appErr := appErrors.FromError(err)
	assert.Contains(t, appErr.Message, "ghost@skyharbor.io")
	assert.Contains(t, appErr.Message, "phantom@skyharbor.io")
	assert.NotContains(t, appErr.Message, "pilot@skyharbor.io")
}

func TestAssignCrewNoPilot(t *testing.T) {
	_, svc := newRosterFixture(t)
	_, err := svc.AssignCrew(context.Background(), "AA100", "2025-03-10", AssignCrewRequest{
		Crew: []string{"cabin@skyharbor.io", "other@skyharbor.io"},
	})
	requireAppError(t, err, appErrors.ErrNoPilotAssigned.Code)
}

func TestAssignCrewPastFlight(t *testing.T) {
	store, svc := newRosterFixture(t)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC)
	}

	_, err := svc.AssignCrew(context.Background(), "AA100", "2025-03-10", AssignCrewRequest{
		Crew: []string{"pilot@skyharbor.io"},
	})
	requireAppError(t, err, appErrors.ErrPastFlight.Code)
	assert.Empty(t, store.rosters[flightKey("AA100", "2025-03-10")])
}

func TestAssignCrewDoubleBooked(t *testing.T) {
	store, svc := newRosterFixture(t)
	_, err := svc.AssignCrew(context.Background(), "AA100", "2025-03-10", AssignCrewRequest{
		Crew: []string{"pilot@skyharbor.io", "cabin@skyharbor.io"},
	})
	require.NoError(t, err)

	// AA200 overlaps AA100, so the pilot cannot serve on both.
	_, err = svc.AssignCrew(context.Background(), "AA200", "2025-03-10", AssignCrewRequest{
		Crew: []string{"pilot@skyharbor.io"},
	})
	requireAppError(t, err, appErrors.ErrCrewDoubleBooked.Code)
	assert.Empty(t, store.rosters[flightKey("AA200", "2025-03-10")])
}

func TestMyFlightsUpcomingOnly(t *testing.T) {
	store, svc := newRosterFixture(t)
	store.flights[flightKey("AA100", "2025-02-01")] = models.Flight{
		FlightNumber:         "AA100",
		Date:                 mustDate(t, "2025-02-01"),
		RouteID:              7,
		DepartureTime:        "10:00:00",
		ArrivalTime:          "12:00:00",
		AircraftRegistration: "N100SH",
	}
	store.rosters[flightKey("AA100", "2025-02-01")] = []models.CrewAssignment{{CrewEmail: "pilot@skyharbor.io"}}
	store.rosters[flightKey("AA100", "2025-03-10")] = []models.CrewAssignment{{CrewEmail: "pilot@skyharbor.io"}}

	upcoming, err := svc.MyFlights(context.Background(), "pilot@skyharbor.io", true)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "2025-03-10", upcoming[0].Date)
	assert.Equal(t, 120, upcoming[0].DurationMinutes)

	history, err := svc.MyFlights(context.Background(), "pilot@skyharbor.io", false)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestCrewDashboard(t *testing.T) {
	store, svc := newRosterFixture(t)
	store.flights[flightKey("AA100", "2025-02-01")] = models.Flight{
		FlightNumber:         "AA100",
		Date:                 mustDate(t, "2025-02-01"),
		RouteID:              7,
		DepartureTime:        "10:00:00",
		ArrivalTime:          "13:00:00",
		AircraftRegistration: "N100SH",
	}
	store.rosters[flightKey("AA100", "2025-02-01")] = []models.CrewAssignment{{CrewEmail: "pilot@skyharbor.io"}}
	store.rosters[flightKey("AA100", "2025-03-10")] = []models.CrewAssignment{{CrewEmail: "pilot@skyharbor.io"}}

	dashboard, err := svc.Dashboard(context.Background(), "pilot@skyharbor.io")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, dashboard.Stats.TotalHoursCompleted, 0.001)
	require.Len(t, dashboard.UpcomingFlights, 1)
	require.NotNil(t, dashboard.Stats.NextFlight)
	// 2025-03-01 08:00 to 2025-03-10 10:00 is 9 days 2 hours.
	assert.Equal(t, 9*24*60+120, dashboard.Stats.NextFlight.TimeUntilDepartureMinutes)
}

func TestMyFlightDetailPicksLatestAssignment(t *testing.T) {
	store, svc := newRosterFixture(t)
	store.aircraft["N100SH"] = models.Aircraft{RegistrationNumber: "N100SH", Company: "SkyHarbor", Model: "A320", Capacity: 180}
	store.flights[flightKey("AA100", "2025-02-01")] = models.Flight{
		FlightNumber:         "AA100",
		Date:                 mustDate(t, "2025-02-01"),
		RouteID:              7,
		DepartureTime:        "10:00:00",
		ArrivalTime:          "12:00:00",
		AircraftRegistration: "N100SH",
	}
	store.rosters[flightKey("AA100", "2025-02-01")] = []models.CrewAssignment{{CrewEmail: "pilot@skyharbor.io"}}
	store.rosters[flightKey("AA100", "2025-03-10")] = []models.CrewAssignment{
		{CrewEmail: "pilot@skyharbor.io"},
		{CrewEmail: "cabin@skyharbor.io"},
	}

	detail, err := svc.MyFlightDetail(context.Background(), "pilot@skyharbor.io", "AA100")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", detail.Date)
	assert.Equal(t, "A320", detail.AircraftModel)
	require.Len(t, detail.Crew, 2)
	assert.Equal(t, "Pilot", detail.Crew[0].Role)
	assert.Equal(t, "Cabin Crew", detail.Crew[1].Role)
}

func TestMyFlightDetailNotFound(t *testing.T) {
	_, svc := newRosterFixture(t)
	_, err := svc.MyFlightDetail(context.Background(), "pilot@skyharbor.io", "AA999")
	requireAppError(t, err, appErrors.ErrNotFound.Code)
}
