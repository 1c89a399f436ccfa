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

type fakeAircraftStore struct {
	aircraft      map[string]models.Aircraft
	futureFlights map[string]int
	openJobs      map[string]int
}

func (f *fakeAircraftStore) FindByRegistration(ctx context.Context, registration string) (*models.Aircraft, error) {
	if aircraft, ok := f.aircraft[registration]; ok {
		return &aircraft, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAircraftStore) List(ctx context.Context, status *models.AircraftStatus) ([]models.Aircraft, error) {
	var out []models.Aircraft
	for _, aircraft := range f.aircraft {
		if status != nil && aircraft.Status != *status {
			continue
		}
		out = append(out, aircraft)
	}
	return out, nil
}

func (f *fakeAircraftStore) Create(ctx context.Context, aircraft *models.Aircraft) error {
	f.aircraft[aircraft.RegistrationNumber] = *aircraft
	return nil
}

func (f *fakeAircraftStore) Update(ctx context.Context, aircraft *models.Aircraft) error {
	if _, ok := f.aircraft[aircraft.RegistrationNumber]; !ok {
		return sql.ErrNoRows
	}
	f.aircraft[aircraft.RegistrationNumber] = *aircraft
	return nil
}

func (f *fakeAircraftStore) Delete(ctx context.Context, registration string) error {
	delete(f.aircraft, registration)
	return nil
}

func (f *fakeAircraftStore) SetStatus(ctx context.Context, registration string, status models.AircraftStatus) error {
	aircraft := f.aircraft[registration]
	aircraft.Status = status
	f.aircraft[registration] = aircraft
	return nil
}

func (f *fakeAircraftStore) CountFutureFlights(ctx context.Context, registration string, date string, clock string) (int, error) {
	return f.futureFlights[registration], nil
}

func (f *fakeAircraftStore) CountOpenJobs(ctx context.Context, registration string) (int, error) {
	return f.openJobs[registration], nil
}

func newFleetFixture() (*fakeAircraftStore, *FleetService) {
	store := &fakeAircraftStore{
		aircraft: map[string]models.Aircraft{
			"N100SH": {RegistrationNumber: "N100SH", Company: "SkyHarbor", Model: "A320", Capacity: 180, Status: models.AircraftActive},
		},
		futureFlights: map[string]int{},
		openJobs:      map[string]int{},
	}
	return store, NewFleetService(store, nil, nil)
}

func TestFleetCreate(t *testing.T) {
	store, svc := newFleetFixture()

	aircraft, err := svc.Create(context.Background(), CreateAircraftRequest{
		RegistrationNumber: "N200SH",
		Company:            "SkyHarbor",
		Model:              "B737",
		Capacity:           200,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AircraftActive, aircraft.Status)
	assert.Len(t, store.aircraft, 2)
}

func TestFleetCreateDuplicateRegistration(t *testing.T) {
	_, svc := newFleetFixture()
	_, err := svc.Create(context.Background(), CreateAircraftRequest{
		RegistrationNumber: "N100SH",
		Company:            "SkyHarbor",
		Model:              "A320",
		Capacity:           180,
	})
	requireAppError(t, err, appErrors.ErrDuplicateKey.Code)
}

func TestFleetUpdateKeepsStatus(t *testing.T) {
	store, svc := newFleetFixture()
	require.NoError(t, store.SetStatus(context.Background(), "N100SH", models.AircraftMaintenance))

	aircraft, err := svc.Update(context.Background(), "N100SH", UpdateAircraftRequest{
		Company:  "SkyHarbor Cargo",
		Model:    "A320F",
		Capacity: 150,
	})
	require.NoError(t, err)
	assert.Equal(t, "SkyHarbor Cargo", aircraft.Company)
	assert.Equal(t, models.AircraftMaintenance, aircraft.Status)
}

func TestFleetRetire(t *testing.T) {
	store, svc := newFleetFixture()

	aircraft, err := svc.Retire(context.Background(), "N100SH")
	require.NoError(t, err)
	assert.Equal(t, models.AircraftRetired, aircraft.Status)
	assert.Equal(t, models.AircraftRetired, store.aircraft["N100SH"].Status)

	_, err = svc.Retire(context.Background(), "N100SH")
	requireAppError(t, err, appErrors.ErrStateViolation.Code)
}

func TestFleetRetireBlockedByFutureFlights(t *testing.T) {
	store, svc := newFleetFixture()
	store.futureFlights["N100SH"] = 2

	_, err := svc.Retire(context.Background(), "N100SH")
	requireAppError(t, err, appErrors.ErrStateViolation.Code)
	assert.Equal(t, models.AircraftActive, store.aircraft["N100SH"].Status)
}

func TestFleetRetireBlockedByOpenJob(t *testing.T) {
	store, svc := newFleetFixture()
	store.openJobs["N100SH"] = 1

	_, err := svc.Retire(context.Background(), "N100SH")
	requireAppError(t, err, appErrors.ErrStateViolation.Code)
}

func TestFleetDelete(t *testing.T) {
	store, svc := newFleetFixture()
	require.NoError(t, svc.Delete(context.Background(), "N100SH"))
	assert.Empty(t, store.aircraft)

	err := svc.Delete(context.Background(), "N100SH")
	requireAppError(t, err, appErrors.ErrAircraftNotFound.Code)
}

func TestFleetDeleteBlockedByOpenJob(t *testing.T) {
	store, svc := newFleetFixture()
	store.openJobs["N100SH"] = 1

	err := svc.Delete(context.Background(), "N100SH")
	requireAppError(t, err, appErrors.ErrStateViolation.Code)
	assert.Len(t, store.aircraft, 1)
}

func TestFleetListStatusFilter(t *testing.T) {
	store, svc := newFleetFixture()
	store.aircraft["N300SH"] = models.Aircraft{RegistrationNumber: "N300SH", Status: models.AircraftRetired}

	active, err := svc.List(context.Background(), string(models.AircraftActive))
	require.NoError(t, err)
	assert.Len(t, active, 1)

	_, err = svc.List(context.Background(), "scrapped")
	requireAppError(t, err, appErrors.ErrValidation.Code)
}
