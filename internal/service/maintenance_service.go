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

type maintenanceStore interface {
	WithTx(ctx context.Context, fn func(repository.MaintenanceTxn) error) error
	FindJob(ctx context.Context, jobID int64) (*models.MaintenanceJob, error)
	ListJobsForEngineer(ctx context.Context, email string) ([]repository.JobForEngineerRow, error)
	ListJobsForAircraft(ctx context.Context, registration string) ([]models.MaintenanceJob, error)
	ListEngineersOnJob(ctx context.Context, jobID int64) ([]models.EngineerOnJob, error)
	ListPartsForAircraft(ctx context.Context, registration string) ([]models.AircraftPart, error)
	ListEngineers(ctx context.Context) ([]models.Account, error)
	CountCompletedSince(ctx context.Context, email string, since time.Time) (int, error)
}

type fleetReader interface {
	FindByRegistration(ctx context.Context, registration string) (*models.Aircraft, error)
	List(ctx context.Context, status *models.AircraftStatus) ([]models.Aircraft, error)
}

// OpenJobRequest checks an aircraft in for maintenance.
type OpenJobRequest struct {
	AircraftRegistration string `json:"aircraft_registration" validate:"required"`
	Type                 string `json:"type" validate:"required"`
	Remarks              string `json:"remarks" validate:"omitempty,max=500"`
}

// EngineerAssignmentEntry is one engineer/role pair in a batch assignment.
type EngineerAssignmentEntry struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,max=50"`
}

// AddEngineersRequest assigns a batch of engineers to a job.
type AddEngineersRequest struct {
	Engineers []EngineerAssignmentEntry `json:"engineers" validate:"required,min=1,dive"`
}

// CloseJobRequest completes a job, optionally replacing its remarks.
type CloseJobRequest struct {
	Remarks *string `json:"remarks" validate:"omitempty,max=500"`
}

// AddPartRequest registers a part on an aircraft.
type AddPartRequest struct {
	PartNumber        string `json:"part_number" validate:"required,max=50"`
	Manufacturer      string `json:"part_manufacturer" validate:"required,max=100"`
	Model             string `json:"model" validate:"required,max=100"`
	ManufacturingDate string `json:"manufacturing_date" validate:"required,datetime=2006-01-02"`
}

// MaintenanceService owns the maintenance workflow. Opening a job forces the
// aircraft into maintenance; closing it returns the aircraft to active only
// if it still sits in maintenance.
type MaintenanceService struct {
	jobs      maintenanceStore
	fleet     fleetReader
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewMaintenanceService constructs MaintenanceService.
func NewMaintenanceService(jobs maintenanceStore, fleet fleetReader, validate *validator.Validate, logger *zap.Logger) *MaintenanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceService{jobs: jobs, fleet: fleet, validator: validate, logger: logger, now: time.Now}
}

// OpenJob checks an aircraft into maintenance and assigns the requesting
// engineer as the job's Leader. A retired aircraft cannot be checked in, and
// an aircraft can hold at most one open job.
func (s *MaintenanceService) OpenJob(ctx context.Context, actorEmail string, req OpenJobRequest) (*models.MaintenanceJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid job payload")
	}
	jobType := models.MaintenanceType(req.Type)
	if !jobType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown maintenance type")
	}

	job := &models.MaintenanceJob{
		AircraftRegistration: req.AircraftRegistration,
		CheckinDate:          s.now().UTC(),
		Status:               models.JobPending,
		Type:                 jobType,
		Remarks:              req.Remarks,
	}

	err := s.jobs.WithTx(ctx, func(tx repository.MaintenanceTxn) error {
		aircraft, err := tx.LockAircraft(ctx, req.AircraftRegistration)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrAircraftNotFound, "aircraft not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load aircraft")
		}
		if aircraft.Status == models.AircraftRetired {
			return appErrors.Clone(appErrors.ErrAircraftRetired, "retired aircraft cannot enter maintenance")
		}
		if _, err := tx.FindOpenJobForAircraft(ctx, req.AircraftRegistration); err == nil {
			return appErrors.Clone(appErrors.ErrAircraftAlreadyInOpenJob, "aircraft already has an open job")
		} else if !errors.Is(err, sql.ErrNoRows) {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check open jobs")
		}
		if err := tx.InsertJob(ctx, job); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert job")
		}
		// The opener is the sole leader until reassignment.
		leader := &models.EngineerAssignment{
			JobID:         job.JobID,
			EngineerEmail: actorEmail,
			Role:          models.LeaderRole,
			AssignedAt:    job.CheckinDate,
		}
		if err := tx.UpsertAssignment(ctx, leader); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign job leader")
		}
		// Check-in always forces the aircraft out of service, whatever its
		// current non-retired status.
		if err := tx.SetAircraftStatus(ctx, req.AircraftRegistration, models.AircraftMaintenance); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to ground aircraft")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("maintenance job opened",
		zap.Int64("job_id", job.JobID),
		zap.String("aircraft", job.AircraftRegistration),
		zap.String("type", string(job.Type)))
	return job, nil
}

// AddEngineers assigns a batch of engineers to an open job. Only the current
// leader may change the assignment set, and the whole batch aborts unless
// exactly one leader remains on the job afterwards.
func (s *MaintenanceService) AddEngineers(ctx context.Context, jobID int64, actorEmail string, req AddEngineersRequest) ([]dto.EngineerInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid engineers payload")
	}

	err := s.jobs.WithTx(ctx, func(tx repository.MaintenanceTxn) error {
		job, err := tx.LockJob(ctx, jobID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "maintenance job not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load job")
		}
		if job.Status.Terminal() {
			return appErrors.Clone(appErrors.ErrJobClosed, "job is closed")
		}
		if err := s.requireLeader(ctx, tx, jobID, actorEmail); err != nil {
			return err
		}

		assignedAt := s.now().UTC()
		for _, entry := range req.Engineers {
			exists, err := tx.EngineerExists(ctx, entry.Email)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check engineer")
			}
			if !exists {
				return appErrors.Clone(appErrors.ErrUnknownEngineer, "unknown engineer "+entry.Email)
			}
			assignment := &models.EngineerAssignment{
				JobID:         jobID,
				EngineerEmail: entry.Email,
				Role:          entry.Role,
				AssignedAt:    assignedAt,
			}
			if err := tx.UpsertAssignment(ctx, assignment); err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign engineer")
			}
		}

		// Recount after the whole batch lands. Zero or several leaders rolls
		// everything back.
		leaders, err := tx.CountLeaders(ctx, jobID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count leaders")
		}
		if leaders != 1 {
			return appErrors.Clone(appErrors.ErrLeaderCount, "job must have exactly one leader")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	engineers, err := s.jobs.ListEngineersOnJob(ctx, jobID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list job engineers")
	}
	s.logger.Info("engineers assigned", zap.Int64("job_id", jobID), zap.Int("count", len(req.Engineers)))
	return engineerInfos(engineers), nil
}

// CloseJob completes a job. Only the job's leader may close it, and the
// aircraft returns to active service only if it still sits in maintenance.
func (s *MaintenanceService) CloseJob(ctx context.Context, jobID int64, actorEmail string, req CloseJobRequest) (*models.MaintenanceJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid close payload")
	}

	var closed *models.MaintenanceJob
	err := s.jobs.WithTx(ctx, func(tx repository.MaintenanceTxn) error {
		job, err := s.lockOpenJob(ctx, tx, jobID)
		if err != nil {
			return err
		}
		if err := s.requireLeader(ctx, tx, jobID, actorEmail); err != nil {
			return err
		}

		checkout := s.now().UTC()
		if err := tx.CompleteJob(ctx, jobID, checkout, req.Remarks); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete job")
		}
		if err := s.releaseAircraft(ctx, tx, job.AircraftRegistration); err != nil {
			return err
		}

		job.Status = models.JobCompleted
		job.CheckoutDate = &checkout
		if req.Remarks != nil {
			job.Remarks = *req.Remarks
		}
		closed = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("maintenance job completed",
		zap.Int64("job_id", jobID),
		zap.String("aircraft", closed.AircraftRegistration))
	return closed, nil
}

// CancelJob cancels an open job. Leader-only, with the same aircraft release
// rule as completion.
func (s *MaintenanceService) CancelJob(ctx context.Context, jobID int64, actorEmail string) (*models.MaintenanceJob, error) {
	var cancelled *models.MaintenanceJob
	err := s.jobs.WithTx(ctx, func(tx repository.MaintenanceTxn) error {
		job, err := s.lockOpenJob(ctx, tx, jobID)
		if err != nil {
			return err
		}
		if err := s.requireLeader(ctx, tx, jobID, actorEmail); err != nil {
			return err
		}

		checkout := s.now().UTC()
		if err := tx.CancelJob(ctx, jobID, checkout); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel job")
		}
		if err := s.releaseAircraft(ctx, tx, job.AircraftRegistration); err != nil {
			return err
		}

		job.Status = models.JobCancelled
		job.CheckoutDate = &checkout
		cancelled = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("maintenance job cancelled", zap.Int64("job_id", jobID))
	return cancelled, nil
}

func (s *MaintenanceService) lockOpenJob(ctx context.Context, tx repository.MaintenanceTxn, jobID int64) (*models.MaintenanceJob, error) {
	job, err := tx.LockJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "maintenance job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load job")
	}
	switch job.Status {
	case models.JobCompleted:
		return nil, appErrors.Clone(appErrors.ErrAlreadyCompleted, "job already completed")
	case models.JobCancelled:
		return nil, appErrors.Clone(appErrors.ErrAlreadyCancelled, "job already cancelled")
	}
	return job, nil
}

func (s *MaintenanceService) requireLeader(ctx context.Context, tx repository.MaintenanceTxn, jobID int64, actorEmail string) error {
	assignment, err := tx.GetAssignment(ctx, jobID, actorEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotLeader, "caller is not the job leader")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if assignment.Role != models.LeaderRole {
		return appErrors.Clone(appErrors.ErrNotLeader, "caller is not the job leader")
	}
	return nil
}

// releaseAircraft returns a grounded aircraft to service. An aircraft that
// was retired while in the shop keeps its retired status.
func (s *MaintenanceService) releaseAircraft(ctx context.Context, tx repository.MaintenanceTxn, registration string) error {
	aircraft, err := tx.LockAircraft(ctx, registration)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load aircraft")
	}
	if aircraft.Status != models.AircraftMaintenance {
		return nil
	}
	if err := tx.SetAircraftStatus(ctx, registration, models.AircraftActive); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to release aircraft")
	}
	return nil
}

// AddPart registers a part on an aircraft. Part numbers are unique per
// aircraft and the manufacturing date cannot lie in the future.
func (s *MaintenanceService) AddPart(ctx context.Context, registration string, req AddPartRequest) (*models.AircraftPart, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid part payload")
	}
	manufactured, err := time.Parse(models.DateOnly, req.ManufacturingDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid manufacturing date")
	}

	part := &models.AircraftPart{
		PartNumber:           req.PartNumber,
		Manufacturer:         req.Manufacturer,
		Model:                req.Model,
		ManufacturingDate:    manufactured,
		AircraftRegistration: registration,
	}

	err = s.jobs.WithTx(ctx, func(tx repository.MaintenanceTxn) error {
		aircraft, err := tx.LockAircraft(ctx, registration)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrAircraftNotFound, "aircraft not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load aircraft")
		}
		if aircraft.Status == models.AircraftRetired {
			return appErrors.Clone(appErrors.ErrAircraftRetired, "cannot register parts on a retired aircraft")
		}
		exists, err := tx.PartExists(ctx, registration, req.PartNumber)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check part")
		}
		if exists {
			return appErrors.Clone(appErrors.ErrDuplicatePartNumber, "part number already registered on this aircraft")
		}
		if manufactured.After(s.now().UTC()) {
			return appErrors.Clone(appErrors.ErrFutureManufacturingDate, "manufacturing date is in the future")
		}
		if err := tx.InsertPart(ctx, part); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert part")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("part registered",
		zap.String("aircraft", registration),
		zap.String("part_number", part.PartNumber))
	return part, nil
}

// MyJobs returns the engineer's jobs, newest first.
func (s *MaintenanceService) MyJobs(ctx context.Context, email string) ([]dto.MaintenanceJobSummary, error) {
	rows, err := s.jobs.ListJobsForEngineer(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list engineer jobs")
	}
	summaries := make([]dto.MaintenanceJobSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, dto.MaintenanceJobSummary{
			JobID:                row.JobID,
			AircraftRegistration: row.AircraftRegistration,
			Role:                 row.Role,
			CheckinDate:          row.CheckinDate.Format(time.RFC3339),
			CheckoutDate:         formatOptionalTime(row.CheckoutDate),
			Status:               string(row.Status),
			Type:                 string(row.Type),
		})
	}
	return summaries, nil
}

// JobDetail returns the full job view with engineers and the aircraft's
// parts.
func (s *MaintenanceService) JobDetail(ctx context.Context, jobID int64) (*dto.MaintenanceJobDetail, error) {
	job, err := s.jobs.FindJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "maintenance job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load job")
	}
	engineers, err := s.jobs.ListEngineersOnJob(ctx, jobID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list job engineers")
	}
	parts, err := s.jobs.ListPartsForAircraft(ctx, job.AircraftRegistration)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list aircraft parts")
	}

	return &dto.MaintenanceJobDetail{
		JobID:                job.JobID,
		AircraftRegistration: job.AircraftRegistration,
		CheckinDate:          job.CheckinDate.Format(time.RFC3339),
		CheckoutDate:         formatOptionalTime(job.CheckoutDate),
		Status:               string(job.Status),
		Type:                 string(job.Type),
		Remarks:              job.Remarks,
		Engineers:            engineerInfos(engineers),
		Parts:                partInfos(parts),
	}, nil
}

// AircraftDetail returns the engineer-facing aircraft view.
func (s *MaintenanceService) AircraftDetail(ctx context.Context, registration string) (*dto.AircraftDetail, error) {
	aircraft, err := s.fleet.FindByRegistration(ctx, registration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrAircraftNotFound, "aircraft not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load aircraft")
	}
	history, err := s.jobs.ListJobsForAircraft(ctx, registration)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load maintenance history")
	}
	parts, err := s.jobs.ListPartsForAircraft(ctx, registration)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list aircraft parts")
	}

	detail := &dto.AircraftDetail{
		RegistrationNumber: aircraft.RegistrationNumber,
		Company:            aircraft.Company,
		Model:              aircraft.Model,
		Capacity:           aircraft.Capacity,
		Status:             string(aircraft.Status),
		MaintenanceHistory: make([]dto.MaintenanceHistoryItem, 0, len(history)),
		Parts:              partInfos(parts),
	}
	for _, job := range history {
		detail.MaintenanceHistory = append(detail.MaintenanceHistory, dto.MaintenanceHistoryItem{
			JobID:        job.JobID,
			CheckinDate:  job.CheckinDate.Format(time.RFC3339),
			CheckoutDate: formatOptionalTime(job.CheckoutDate),
			Type:         string(job.Type),
			Status:       string(job.Status),
		})
	}
	return detail, nil
}

// ListEngineers lists engineers for assignment pickers.
func (s *MaintenanceService) ListEngineers(ctx context.Context) ([]dto.EngineerBasicInfo, error) {
	engineers, err := s.jobs.ListEngineers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list engineers")
	}
	infos := make([]dto.EngineerBasicInfo, 0, len(engineers))
	for _, engineer := range engineers {
		infos = append(infos, dto.EngineerBasicInfo{Email: engineer.Email, Name: engineer.Name})
	}
	return infos, nil
}

// Dashboard aggregates the engineer's landing view.
func (s *MaintenanceService) Dashboard(ctx context.Context, email string) (*dto.EngineerDashboard, error) {
	fleet, err := s.fleet.List(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list aircraft")
	}
	jobs, err := s.jobs.ListJobsForEngineer(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list engineer jobs")
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	completed, err := s.jobs.CountCompletedSince(ctx, email, monthStart)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count completed jobs")
	}

	dashboard := &dto.EngineerDashboard{
		Aircraft:     make([]dto.AircraftStatusItem, 0, len(fleet)),
		AssignedJobs: make([]dto.AssignedJobItem, 0, len(jobs)),
		Stats:        dto.EngineerDashboardStats{MonthlyCompletedJobs: completed},
	}
	for _, aircraft := range fleet {
		dashboard.Aircraft = append(dashboard.Aircraft, dto.AircraftStatusItem{
			RegistrationNumber: aircraft.RegistrationNumber,
			Status:             string(aircraft.Status),
		})
	}
	for _, job := range jobs {
		if job.Status.Terminal() {
			continue
		}
		dashboard.AssignedJobs = append(dashboard.AssignedJobs, dto.AssignedJobItem{
			JobID:                job.JobID,
			AircraftRegistration: job.AircraftRegistration,
			Role:                 job.Role,
			CheckinDate:          job.CheckinDate.Format(time.RFC3339),
		})
	}
	return dashboard, nil
}

func engineerInfos(engineers []models.EngineerOnJob) []dto.EngineerInfo {
	infos := make([]dto.EngineerInfo, 0, len(engineers))
	for _, engineer := range engineers {
		infos = append(infos, dto.EngineerInfo{
			Email: engineer.Email,
			Name:  engineer.Name,
			Role:  engineer.Role,
		})
	}
	return infos
}

func partInfos(parts []models.AircraftPart) []dto.PartInfo {
	infos := make([]dto.PartInfo, 0, len(parts))
	for _, part := range parts {
		infos = append(infos, dto.PartInfo{
			PartNumber:        part.PartNumber,
			Manufacturer:      part.Manufacturer,
			Model:             part.Model,
			ManufacturingDate: part.ManufacturingDate.Format(models.DateOnly),
		})
	}
	return infos
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
