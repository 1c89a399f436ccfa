package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/skyharbor/fleetops-api/internal/models"
)

// MaintenanceTxn is the set of operations available inside a maintenance
// workflow transaction. Opening and closing jobs moves the aircraft between
// lifecycle states, so the job write and the status flip must land together.
type MaintenanceTxn interface {
	LockAircraft(ctx context.Context, registration string) (*models.Aircraft, error)
	// FindOpenJobForAircraft returns the aircraft's non-terminal job, if any.
	FindOpenJobForAircraft(ctx context.Context, registration string) (*models.MaintenanceJob, error)
	InsertJob(ctx context.Context, job *models.MaintenanceJob) error
	SetAircraftStatus(ctx context.Context, registration string, status models.AircraftStatus) error
	// LockJob loads the job row under FOR UPDATE.
	LockJob(ctx context.Context, jobID int64) (*models.MaintenanceJob, error)
	GetAssignment(ctx context.Context, jobID int64, email string) (*models.EngineerAssignment, error)
	EngineerExists(ctx context.Context, email string) (bool, error)
	UpsertAssignment(ctx context.Context, assignment *models.EngineerAssignment) error
	// CountLeaders returns how many engineers hold the leader role on the job.
	CountLeaders(ctx context.Context, jobID int64) (int, error)
	CompleteJob(ctx context.Context, jobID int64, checkout time.Time, remarks *string) error
	CancelJob(ctx context.Context, jobID int64, checkout time.Time) error
	PartExists(ctx context.Context, registration string, partNumber string) (bool, error)
	InsertPart(ctx context.Context, part *models.AircraftPart) error
}

// MaintenanceRepository provides persistence for maintenance jobs, engineer
// assignments, and the aircraft parts catalog.
type MaintenanceRepository struct {
	db *sqlx.DB
}

// NewMaintenanceRepository constructs the repository.
func NewMaintenanceRepository(db *sqlx.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// WithTx runs fn inside a database transaction.
func (r *MaintenanceRepository) WithTx(ctx context.Context, fn func(MaintenanceTxn) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin maintenance tx: %w", err)
	}
	if err := fn(&maintenanceTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit maintenance tx: %w", err)
	}
	return nil
}

// FindJob loads one job by id. Returns sql.ErrNoRows when unknown.
func (r *MaintenanceRepository) FindJob(ctx context.Context, jobID int64) (*models.MaintenanceJob, error) {
	var job models.MaintenanceJob
	if err := r.db.GetContext(ctx, &job, jobByIDQuery, jobID); err != nil {
		return nil, err
	}
	return &job, nil
}

// JobForEngineerRow is a job row annotated with the querying engineer's role.
type JobForEngineerRow struct {
	models.MaintenanceJob
	Role string `db:"role"`
}

// ListJobsForEngineer returns the engineer's jobs ordered newest first.
func (r *MaintenanceRepository) ListJobsForEngineer(ctx context.Context, email string) ([]JobForEngineerRow, error) {
	const query = `SELECT j.job_id, j.registration_number, j.checkin_date, j.checkout_date,
	j.status, j.maintenance_type, COALESCE(j.remarks, '') AS remarks, ea.role
	FROM engineer_assignments ea JOIN maintenance_jobs j ON j.job_id = ea.job_id
	WHERE ea.engineer_email = $1
	ORDER BY j.checkin_date DESC, j.job_id DESC`
	var jobs []JobForEngineerRow
	if err := r.db.SelectContext(ctx, &jobs, query, email); err != nil {
		return nil, fmt.Errorf("jobs for engineer %s: %w", email, err)
	}
	return jobs, nil
}

// ListJobsForAircraft returns the aircraft's maintenance history, newest
// first.
func (r *MaintenanceRepository) ListJobsForAircraft(ctx context.Context, registration string) ([]models.MaintenanceJob, error) {
	const query = `SELECT job_id, registration_number, checkin_date, checkout_date,
	status, maintenance_type, COALESCE(remarks, '') AS remarks
	FROM maintenance_jobs WHERE registration_number = $1
	ORDER BY checkin_date DESC, job_id DESC`
	var jobs []models.MaintenanceJob
	if err := r.db.SelectContext(ctx, &jobs, query, registration); err != nil {
		return nil, fmt.Errorf("jobs for aircraft %s: %w", registration, err)
	}
	return jobs, nil
}

// ListEngineersOnJob returns the job's engineers with their roles, leaders
// first.
func (r *MaintenanceRepository) ListEngineersOnJob(ctx context.Context, jobID int64) ([]models.EngineerOnJob, error) {
	const query = `SELECT e.email, e.name, e.phone, ea.role
	FROM engineer_assignments ea JOIN engineers e ON e.email = ea.engineer_email
	WHERE ea.job_id = $1
	ORDER BY (ea.role = 'Leader') DESC, e.name ASC`
	var engineers []models.EngineerOnJob
	if err := r.db.SelectContext(ctx, &engineers, query, jobID); err != nil {
		return nil, fmt.Errorf("engineers on job %d: %w", jobID, err)
	}
	return engineers, nil
}

// ListPartsForAircraft returns the aircraft's parts ordered by part number.
func (r *MaintenanceRepository) ListPartsForAircraft(ctx context.Context, registration string) ([]models.AircraftPart, error) {
	const query = `SELECT part_number, part_manufacturer, model, manufacturing_date, aircraft_registration
	FROM aircraft_parts WHERE aircraft_registration = $1
	ORDER BY part_number ASC`
	var parts []models.AircraftPart
	if err := r.db.SelectContext(ctx, &parts, query, registration); err != nil {
		return nil, fmt.Errorf("parts for aircraft %s: %w", registration, err)
	}
	return parts, nil
}

// ListEngineers returns all engineers ordered by name.
func (r *MaintenanceRepository) ListEngineers(ctx context.Context) ([]models.Account, error) {
	const query = `SELECT email, name, phone FROM engineers ORDER BY name ASC`
	var engineers []models.Account
	if err := r.db.SelectContext(ctx, &engineers, query); err != nil {
		return nil, fmt.Errorf("list engineers: %w", err)
	}
	return engineers, nil
}

// CountCompletedSince counts jobs the engineer completed at or after the
// given date.
func (r *MaintenanceRepository) CountCompletedSince(ctx context.Context, email string, since time.Time) (int, error) {
	const query = `SELECT COUNT(*)
	FROM engineer_assignments ea JOIN maintenance_jobs j ON j.job_id = ea.job_id
	WHERE ea.engineer_email = $1 AND j.status = 'completed' AND j.checkout_date >= $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, email, since); err != nil {
		return 0, fmt.Errorf("count completed jobs for %s: %w", email, err)
	}
	return count, nil
}

// CountOpenJobs counts non-terminal jobs across the fleet.
func (r *MaintenanceRepository) CountOpenJobs(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM maintenance_jobs WHERE status IN ('pending', 'in_progress')`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count open jobs: %w", err)
	}
	return count, nil
}

const jobByIDQuery = `SELECT job_id, registration_number, checkin_date, checkout_date,
	status, maintenance_type, COALESCE(remarks, '') AS remarks
	FROM maintenance_jobs WHERE job_id = $1`

type maintenanceTx struct {
	tx *sqlx.Tx
}

func (t *maintenanceTx) LockAircraft(ctx context.Context, registration string) (*models.Aircraft, error) {
	const query = `SELECT registration_number, aircraft_company, model, capacity, status
	FROM aircraft WHERE registration_number = $1 FOR UPDATE`
	var aircraft models.Aircraft
	if err := t.tx.GetContext(ctx, &aircraft, query, registration); err != nil {
		return nil, err
	}
	return &aircraft, nil
}

func (t *maintenanceTx) FindOpenJobForAircraft(ctx context.Context, registration string) (*models.MaintenanceJob, error) {
	const query = `SELECT job_id, registration_number, checkin_date, checkout_date,
	status, maintenance_type, COALESCE(remarks, '') AS remarks
	FROM maintenance_jobs
	WHERE registration_number = $1 AND status IN ('pending', 'in_progress')
	LIMIT 1`
	var job models.MaintenanceJob
	if err := t.tx.GetContext(ctx, &job, query, registration); err != nil {
		return nil, err
	}
	return &job, nil
}

func (t *maintenanceTx) InsertJob(ctx context.Context, job *models.MaintenanceJob) error {
	const query = `INSERT INTO maintenance_jobs (registration_number, checkin_date, status, maintenance_type, remarks)
	VALUES ($1, $2, $3, $4, $5) RETURNING job_id`
	if err := t.tx.GetContext(ctx, &job.JobID, query,
		job.AircraftRegistration, job.CheckinDate, job.Status, job.Type, job.Remarks); err != nil {
		return fmt.Errorf("insert job for %s: %w", job.AircraftRegistration, err)
	}
	return nil
}

func (t *maintenanceTx) SetAircraftStatus(ctx context.Context, registration string, status models.AircraftStatus) error {
	const query = `UPDATE aircraft SET status = $1 WHERE registration_number = $2`
	if _, err := t.tx.ExecContext(ctx, query, status, registration); err != nil {
		return fmt.Errorf("set aircraft %s status %s: %w", registration, status, err)
	}
	return nil
}

func (t *maintenanceTx) LockJob(ctx context.Context, jobID int64) (*models.MaintenanceJob, error) {
	var job models.MaintenanceJob
	if err := t.tx.GetContext(ctx, &job, jobByIDQuery+` FOR UPDATE`, jobID); err != nil {
		return nil, err
	}
	return &job, nil
}

func (t *maintenanceTx) GetAssignment(ctx context.Context, jobID int64, email string) (*models.EngineerAssignment, error) {
	const query = `SELECT job_id, engineer_email, role FROM engineer_assignments
	WHERE job_id = $1 AND engineer_email = $2`
	var assignment models.EngineerAssignment
	if err := t.tx.GetContext(ctx, &assignment, query, jobID, email); err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (t *maintenanceTx) EngineerExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM engineers WHERE email = $1)`
	var exists bool
	if err := t.tx.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("engineer exists %s: %w", email, err)
	}
	return exists, nil
}

func (t *maintenanceTx) UpsertAssignment(ctx context.Context, assignment *models.EngineerAssignment) error {
	const query = `INSERT INTO engineer_assignments (job_id, engineer_email, role, assigned_at)
	VALUES (:job_id, :engineer_email, :role, :assigned_at)
	ON CONFLICT (job_id, engineer_email) DO UPDATE SET role = EXCLUDED.role`
	if _, err := t.tx.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("upsert assignment job %d %s: %w", assignment.JobID, assignment.EngineerEmail, err)
	}
	return nil
}

func (t *maintenanceTx) CountLeaders(ctx context.Context, jobID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM engineer_assignments WHERE job_id = $1 AND role = $2`
	var count int
	if err := t.tx.GetContext(ctx, &count, query, jobID, models.LeaderRole); err != nil {
		return 0, fmt.Errorf("count leaders on job %d: %w", jobID, err)
	}
	return count, nil
}

func (t *maintenanceTx) CompleteJob(ctx context.Context, jobID int64, checkout time.Time, remarks *string) error {
	const query = `UPDATE maintenance_jobs
	SET status = 'completed', checkout_date = $1, remarks = COALESCE($2, remarks)
	WHERE job_id = $3`
	if _, err := t.tx.ExecContext(ctx, query, checkout, remarks, jobID); err != nil {
		return fmt.Errorf("complete job %d: %w", jobID, err)
	}
	return nil
}

func (t *maintenanceTx) CancelJob(ctx context.Context, jobID int64, checkout time.Time) error {
	const query = `UPDATE maintenance_jobs
	SET status = 'cancelled', checkout_date = $1
	WHERE job_id = $2`
	if _, err := t.tx.ExecContext(ctx, query, checkout, jobID); err != nil {
		return fmt.Errorf("cancel job %d: %w", jobID, err)
	}
	return nil
}

func (t *maintenanceTx) PartExists(ctx context.Context, registration string, partNumber string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM aircraft_parts WHERE aircraft_registration = $1 AND part_number = $2)`
	var exists bool
	if err := t.tx.GetContext(ctx, &exists, query, registration, partNumber); err != nil {
		return false, fmt.Errorf("part exists %s/%s: %w", registration, partNumber, err)
	}
	return exists, nil
}

func (t *maintenanceTx) InsertPart(ctx context.Context, part *models.AircraftPart) error {
	const query = `INSERT INTO aircraft_parts (part_number, part_manufacturer, model, manufacturing_date, aircraft_registration)
	VALUES (:part_number, :part_manufacturer, :model, :manufacturing_date, :aircraft_registration)`
	if _, err := t.tx.NamedExecContext(ctx, query, part); err != nil {
		return fmt.Errorf("insert part %s/%s: %w", part.AircraftRegistration, part.PartNumber, err)
	}
	return nil
}
