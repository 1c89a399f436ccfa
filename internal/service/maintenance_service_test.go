package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyharbor/fleetops-api/internal/models"
	"github.com/skyharbor/fleetops-api/internal/repository"
	appErrors "github.com/skyharbor/fleetops-api/pkg/errors"
)

type fakeMaintenanceStore struct {
	aircraft    map[string]models.Aircraft
	jobs        map[int64]models.MaintenanceJob
	assignments map[int64]map[string]models.EngineerAssignment
	engineers   map[string]models.Account
	parts       map[string][]models.AircraftPart
	nextJobID   int64
}

func (f *fakeMaintenanceStore) snapshot() *fakeMaintenanceTx {
	tx := &fakeMaintenanceTx{
		store:       f,
		aircraft:    make(map[string]models.Aircraft, len(f.aircraft)),
		jobs:        make(map[int64]models.MaintenanceJob, len(f.jobs)),
		assignments: make(map[int64]map[string]models.EngineerAssignment, len(f.assignments)),
		parts:       make(map[string][]models.AircraftPart, len(f.parts)),
	}
	for k, v := range f.aircraft {
		tx.aircraft[k] = v
	}
	for k, v := range f.jobs {
		tx.jobs[k] = v
	}
	for jobID, byEmail := range f.assignments {
		copied := make(map[string]models.EngineerAssignment, len(byEmail))
		for email, a := range byEmail {
			copied[email] = a
		}
		tx.assignments[jobID] = copied
	}
	for k, v := range f.parts {
		tx.parts[k] = append([]models.AircraftPart(nil), v...)
	}
	return tx
}

func (f *fakeMaintenanceStore) WithTx(ctx context.Context, fn func(repository.MaintenanceTxn) error) error {
	tx := f.snapshot()
	if err := fn(tx); err != nil {
		return err
	}
	f.aircraft = tx.aircraft
	f.jobs = tx.jobs
	f.assignments = tx.assignments
	f.parts = tx.parts
	return nil
}

func (f *fakeMaintenanceStore) FindJob(ctx context.Context, jobID int64) (*models.MaintenanceJob, error) {
	if job, ok := f.jobs[jobID]; ok {
		return &job, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeMaintenanceStore) ListJobsForEngineer(ctx context.Context, email string) ([]repository.JobForEngineerRow, error) {
	var out []repository.JobForEngineerRow
	for jobID, byEmail := range f.assignments {
		if a, ok := byEmail[email]; ok {
			out = append(out, repository.JobForEngineerRow{MaintenanceJob: f.jobs[jobID], Role: a.Role})
		}
	}
	return out, nil
}

func (f *fakeMaintenanceStore) ListJobsForAircraft(ctx context.Context, registration string) ([]models.MaintenanceJob, error) {
	var out []models.MaintenanceJob
	for _, job := range f.jobs {
		if job.AircraftRegistration == registration {
			out = append(out, job)
		}
	}
	return out, nil
}

func (f *fakeMaintenanceStore) ListEngineersOnJob(ctx context.Context, jobID int64) ([]models.EngineerOnJob, error) {
	var out []models.EngineerOnJob
	for email, a := range f.assignments[jobID] {
		out = append(out, models.EngineerOnJob{Email: email, Name: f.engineers[email].Name, Role: a.Role})
	}
	return out, nil
}

func (f *fakeMaintenanceStore) ListPartsForAircraft(ctx context.Context, registration string) ([]models.AircraftPart, error) {
	return f.parts[registration], nil
}

func (f *fakeMaintenanceStore) ListEngineers(ctx context.Context) ([]models.Account, error) {
	var out []models.Account
	for _, e := range f.engineers {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeMaintenanceStore) CountCompletedSince(ctx context.Context, email string, since time.Time) (int, error) {
	count := 0
	for jobID, byEmail := range f.assignments {
		if _, ok := byEmail[email]; !ok {
			continue
		}
		job := f.jobs[jobID]
		if job.Status == models.JobCompleted && job.CheckoutDate != nil && !job.CheckoutDate.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeMaintenanceStore) FindByRegistration(ctx context.Context, registration string) (*models.Aircraft, error) {
	if aircraft, ok := f.aircraft[registration]; ok {
		return &aircraft, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeMaintenanceStore) List(ctx context.Context, status *models.AircraftStatus) ([]models.Aircraft, error) {
	var out []models.Aircraft
	for _, aircraft := range f.aircraft {
		if status != nil && aircraft.Status != *status {
			continue
		}
		out = append(out, aircraft)
	}
	return out, nil
}

type fakeMaintenanceTx struct {
	store       *fakeMaintenanceStore
	aircraft    map[string]models.Aircraft
	jobs        map[int64]models.MaintenanceJob
	assignments map[int64]map[string]models.EngineerAssignment
	parts       map[string][]models.AircraftPart
}

func (t *fakeMaintenanceTx) LockAircraft(ctx context.Context, registration string) (*models.Aircraft, error) {
	if aircraft, ok := t.aircraft[registration]; ok {
		return &aircraft, nil
	}
	return nil, sql.ErrNoRows
}

func (t *fakeMaintenanceTx) FindOpenJobForAircraft(ctx context.Context, registration string) (*models.MaintenanceJob, error) {
	for _, job := range t.jobs {
		if job.AircraftRegistration == registration && !job.Status.Terminal() {
			return &job, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (t *fakeMaintenanceTx) InsertJob(ctx context.Context, job *models.MaintenanceJob) error {
	t.store.nextJobID++
	job.JobID = t.store.nextJobID
	t.jobs[job.JobID] = *job
	return nil
}

func (t *fakeMaintenanceTx) SetAircraftStatus(ctx context.Context, registration string, status models.AircraftStatus) error {
	aircraft := t.aircraft[registration]
	aircraft.Status = status
	t.aircraft[registration] = aircraft
	return nil
}

func (t *fakeMaintenanceTx) LockJob(ctx context.Context, jobID int64) (*models.MaintenanceJob, error) {
	if job, ok := t.jobs[jobID]; ok {
		return &job, nil
	}
	return nil, sql.ErrNoRows
}

func (t *fakeMaintenanceTx) GetAssignment(ctx context.Context, jobID int64, email string) (*models.EngineerAssignment, error) {
	if a, ok := t.assignments[jobID][email]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func (t *fakeMaintenanceTx) EngineerExists(ctx context.Context, email string) (bool, error) {
	_, ok := t.store.engineers[email]
	return ok, nil
}

func (t *fakeMaintenanceTx) UpsertAssignment(ctx context.Context, assignment *models.EngineerAssignment) error {
	byEmail, ok := t.assignments[assignment.JobID]
	if !ok {
		byEmail = map[string]models.EngineerAssignment{}
		t.assignments[assignment.JobID] = byEmail
	}
	byEmail[assignment.EngineerEmail] = *assignment
	return nil
}

func (t *fakeMaintenanceTx) CountLeaders(ctx context.Context, jobID int64) (int, error) {
	count := 0
	for _, a := range t.assignments[jobID] {
		if a.Role == models.LeaderRole {
			count++
		}
	}
	return count, nil
}

func (t *fakeMaintenanceTx) CompleteJob(ctx context.Context, jobID int64, checkout time.Time, remarks *string) error {
	job := t.jobs[jobID]
	job.Status = models.JobCompleted
	job.CheckoutDate = &checkout
	if remarks != nil {
		job.Remarks = *remarks
	}
	t.jobs[jobID] = job
	return nil
}

func (t *fakeMaintenanceTx) CancelJob(ctx context.Context, jobID int64, checkout time.Time) error {
	job := t.jobs[jobID]
	job.Status = models.JobCancelled
	job.CheckoutDate = &checkout
	t.jobs[jobID] = job
	return nil
}

func (t *fakeMaintenanceTx) PartExists(ctx context.Context, registration string, partNumber string) (bool, error) {
	for _, part := range t.parts[registration] {
		if part.PartNumber == partNumber {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeMaintenanceTx) InsertPart(ctx context.Context, part *models.AircraftPart) error {
	t.parts[part.AircraftRegistration] = append(t.parts[part.AircraftRegistration], *part)
	return nil
}

func newMaintenanceFixture() (*fakeMaintenanceStore, *MaintenanceService) {
	store := &fakeMaintenanceStore{
		aircraft: map[string]models.Aircraft{
			"N100SH": {RegistrationNumber: "N100SH", Company: "SkyHarbor", Model: "A320", Capacity: 180, Status: models.AircraftActive},
			"N300SH": {RegistrationNumber: "N300SH", Company: "SkyHarbor", Model: "B747", Capacity: 400, Status: models.AircraftRetired},
		},
		jobs:        map[int64]models.MaintenanceJob{},
		assignments: map[int64]map[string]models.EngineerAssignment{},
		engineers: map[string]models.Account{
			"lead@skyharbor.io":   {Email: "lead@skyharbor.io", Name: "Lena Lead"},
			"second@skyharbor.io": {Email: "second@skyharbor.io", Name: "Sam Second"},
		},
		parts: map[string][]models.AircraftPart{},
	}
	svc := NewMaintenanceService(store, store, nil, nil)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	}
	return store, svc
}

func openFixtureJob(t *testing.T, store *fakeMaintenanceStore, svc *MaintenanceService) *models.MaintenanceJob {
	t.Helper()
	job, err := svc.OpenJob(context.Background(), "lead@skyharbor.io", OpenJobRequest{
		AircraftRegistration: "N100SH",
		Type:                 string(models.MaintenanceRepair),
		Remarks:              "hydraulic leak",
	})
	require.NoError(t, err)
	return job
}

func TestOpenJobGroundsAircraft(t *testing.T) {
	store, svc := newMaintenanceFixture()

	job, err := svc.OpenJob(context.Background(), "lead@skyharbor.io", OpenJobRequest{
		AircraftRegistration: "N100SH",
		Type:                 string(models.MaintenanceRoutine),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), job.JobID)
	assert.Equal(t, models.JobPending, job.Status)
	assert.Equal(t, models.AircraftMaintenance, store.aircraft["N100SH"].Status)
}

func TestOpenJobAssignsOpenerAsLeader(t *testing.T) {
	store, svc := newMaintenanceFixture()

	job, err := svc.OpenJob(context.Background(), "lead@skyharbor.io", OpenJobRequest{
		AircraftRegistration: "N100SH",
		Type:                 string(models.MaintenanceInspection),
	})
	require.NoError(t, err)

	assignment, ok := store.assignments[job.JobID]["lead@skyharbor.io"]
	require.True(t, ok)
	assert.Equal(t, models.LeaderRole, assignment.Role)

	// The opener can close their own job without any further assignment.
	closed, err := svc.CloseJob(context.Background(), job.JobID, "lead@skyharbor.io", CloseJobRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.JobCompleted, closed.Status)
}

func TestOpenJobRetiredAircraft(t *testing.T) {
	store, svc := newMaintenanceFixture()
	_, err := svc.OpenJob(context.Background(), "lead@skyharbor.io", OpenJobRequest{
		AircraftRegistration: "N300SH",
		Type:                 string(models.MaintenanceRoutine),
	})
	requireAppError(t, err, appErrors.ErrAircraftRetired.Code)
	assert.Empty(t, store.jobs)
}

func TestOpenJobAlreadyOpen(t *testing.T) {
	store, svc := newMaintenanceFixture()
	openFixtureJob(t, store, svc)

	_, err := svc.OpenJob(context.Background(), "second@skyharbor.io", OpenJobRequest{
		AircraftRegistration: "N100SH",
		Type:                 string(models.MaintenanceInspection),
	})
	requireAppError(t, err, appErrors.ErrAircraftAlreadyInOpenJob.Code)
	assert.Len(t, store.jobs, 1)
}

func TestOpenJobUnknownType(t *testing.T) {
	_, svc := newMaintenanceFixture()
	_, err := svc.OpenJob(context.Background(), "lead@skyharbor.io", OpenJobRequest{
		AircraftRegistration: "N100SH",
		Type:                 "detailing",
	})
	requireAppError(t, err, appErrors.ErrValidation.Code)
}

func TestAddEngineersLeaderCountAbortsBatch(t *testing.T) {
	store, svc := newMaintenanceFixture()
	job := openFixtureJob(t, store, svc)

	// A second leader makes the count two; nothing from the batch survives.
	_, err := svc.AddEngineers(context.Background(), job.JobID, "lead@skyharbor.io", AddEngineersRequest{
		Engineers: []EngineerAssignmentEntry{{Email: "second@skyharbor.io", Role: models.LeaderRole}},
	})
	requireAppError(t, err, appErrors.ErrLeaderCount.Code)
	assert.Len(t, store.assignments[job.JobID], 1)
}

func TestAddEngineersRequiresLeader(t *testing.T) {
	store, svc := newMaintenanceFixture()
	job := openFixtureJob(t, store, svc)

	// An engineer off the job cannot rewrite its assignment set, even with a
	// batch that would leave a single leader.
	_, err := svc.AddEngineers(context.Background(), job.JobID, "second@skyharbor.io", AddEngineersRequest{
		Engineers: []EngineerAssignmentEntry{
			{Email: "lead@skyharbor.io", Role: "Technician"},
			{Email: "second@skyharbor.io", Role: models.LeaderRole},
		},
	})
	requireAppError(t, err, appErrors.ErrNotLeader.Code)
	assert.Equal(t, models.LeaderRole, store.assignments[job.JobID]["lead@skyharbor.io"].Role)
	_, assigned := store.assignments[job.JobID]["second@skyharbor.io"]
	assert.False(t, assigned)
}

func TestAddEngineersUnknownEngineer(t *testing.T) {
	store, svc := newMaintenanceFixture()
	job := openFixtureJob(t, store, svc)

	_, err := svc.AddEngineers(context.Background(), job.JobID, "lead@skyharbor.io", AddEngineersRequest{
		Engineers: []EngineerAssignmentEntry{
			{Email: "ghost@skyharbor.io", Role: "Technician"},
		},
	})
	requireAppError(t, err, appErrors.ErrUnknownEngineer.Code)
	assert.Len(t, store.assignments[job.JobID], 1)
}

func TestAddEngineersClosedJob(t *testing.T) {
	store, svc := newMaintenanceFixture()
	job := openFixtureJob(t, store, svc)
	_, err := svc.CloseJob(context.Background(), job.JobID, "lead@skyharbor.io", CloseJobRequest{})
	require.NoError(t, err)

	_, err = svc.AddEngineers(context.Background(), job.JobID, "lead@skyharbor.io", AddEngineersRequest{
		Engineers: []EngineerAssignmentEntry{{Email: "second@skyharbor.io", Role: "Technician"}},
	})
	requireAppError(t, err, appErrors.ErrJobClosed.Code)
}

func TestCloseJobReleasesAircraft(t *testing.T) {
	store, svc := newMaintenanceFixture()
	job := openFixtureJob(t, store, svc)

	remarks := "replaced actuator"
	closed, err := svc.CloseJob(context.Background(), job.JobID, "lead@skyharbor.io", CloseJobRequest{Remarks: &remarks})
	require.NoError(t, err)
	assert.Equal(t, models.JobCompleted, closed.Status)
	require.NotNil(t, closed.CheckoutDate)
	assert.Equal(t, "replaced actuator", closed.Remarks)
	assert.Equal(t, models.AircraftActive, store.aircraft["N100SH"].Status)
}

func TestCloseJobNotLeader(t *testing.T) {
	store, svc := newMaintenanceFixture()
	job := openFixtureJob(t, store, svc)
	_, err := svc.AddEngineers(context.Background(), job.JobID, "lead@skyharbor.io", AddEngineersRequest{
		Engineers: []EngineerAssignmentEntry{{Email: "second@skyharbor.io", Role: "Technician"}},
	})
	require.NoError(t, err)

	_, err = svc.CloseJob(context.Background(), job.JobID, "second@skyharbor.io", CloseJobRequest{})
	requireAppError(t, err, appErrors.ErrNotLeader.Code)
	assert.Equal(t, models.AircraftMaintenance, store.aircraft["N100SH"].Status)
}

func TestCloseJobAlreadyCompleted(t *testing.T) {
	store, svc := newMaintenanceFixture()
	job := openFixtureJob(t, store, svc)
	_, err := svc.CloseJob(context.Background(), job.JobID, "lead@skyharbor.io", CloseJobRequest{})
	require.NoError(t, err)

	_, err = svc.CloseJob(context.Background(), job.JobID, "lead@skyharbor.io", CloseJobRequest{})
	requireAppError(t, err, appErrors.ErrAlreadyCompleted.Code)
}

func TestCancelJobKeepsRetiredAircraftRetired(t *testing.T) {
	store, svc := newMaintenanceFixture()
	job := openFixtureJob(t, store, svc)

	// The aircraft was retired while in the shop; releasing the job must not
	// put it back in service.
	aircraft := store.aircraft["N100SH"]
	aircraft.Status = models.AircraftRetired
	store.aircraft["N100SH"] = aircraft

	cancelled, err := svc.CancelJob(context.Background(), job.JobID, "lead@skyharbor.io")
	require.NoError(t, err)
	assert.Equal(t, models.JobCancelled, cancelled.Status)
	assert.Equal(t, models.AircraftRetired, store.aircraft["N100SH"].Status)
}

func TestAddPart(t *testing.T) {
	store, svc := newMaintenanceFixture()

	part, err := svc.AddPart(context.Background(), "N100SH", AddPartRequest{
		PartNumber:        "PN-001",
		Manufacturer:      "Collins",
		Model:             "ACT-9",
		ManufacturingDate: "2024-06-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "N100SH", part.AircraftRegistration)
	require.Len(t, store.parts["N100SH"], 1)

	_, err = svc.AddPart(context.Background(), "N100SH", AddPartRequest{
		PartNumber:        "PN-001",
		Manufacturer:      "Collins",
		Model:             "ACT-9",
		ManufacturingDate: "2024-06-01",
	})
	requireAppError(t, err, appErrors.ErrDuplicatePartNumber.Code)
}

func TestAddPartRetiredAircraft(t *testing.T) {
	store, svc := newMaintenanceFixture()
	_, err := svc.AddPart(context.Background(), "N300SH", AddPartRequest{
		PartNumber:        "PN-003",
		Manufacturer:      "Collins",
		Model:             "ACT-9",
		ManufacturingDate: "2024-06-01",
	})
	requireAppError(t, err, appErrors.ErrAircraftRetired.Code)
	assert.Empty(t, store.parts["N300SH"])
}

func TestAddPartFutureManufacturingDate(t *testing.T) {
	store, svc := newMaintenanceFixture()
	_, err := svc.AddPart(context.Background(), "N100SH", AddPartRequest{
		PartNumber:        "PN-002",
		Manufacturer:      "Collins",
		Model:             "ACT-9",
		ManufacturingDate: "2026-01-01",
	})
	requireAppError(t, err, appErrors.ErrFutureManufacturingDate.Code)
	assert.Empty(t, store.parts["N100SH"])
}

func TestEngineerDashboard(t *testing.T) {
	store, svc := newMaintenanceFixture()
	job := openFixtureJob(t, store, svc)
	_, err := svc.CloseJob(context.Background(), job.JobID, "lead@skyharbor.io", CloseJobRequest{})
	require.NoError(t, err)

	second := openFixtureJob(t, store, svc)

	dashboard, err := svc.Dashboard(context.Background(), "lead@skyharbor.io")
	require.NoError(t, err)
	assert.Equal(t, 1, dashboard.Stats.MonthlyCompletedJobs)
	require.Len(t, dashboard.AssignedJobs, 1)
	assert.Equal(t, second.JobID, dashboard.AssignedJobs[0].JobID)
	assert.Len(t, dashboard.Aircraft, 2)
}
