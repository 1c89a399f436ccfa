package models

import "time"

// JobStatus is the closed set of maintenance job states.
//
//	pending -> in_progress -> completed
//	pending | in_progress  -> cancelled
//
// completed and cancelled are terminal.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
)

// Valid reports whether the status is a known variant.
func (s JobStatus) Valid() bool {
	switch s {
	case JobPending, JobInProgress, JobCompleted, JobCancelled:
		return true
	}
	return false
}

// Terminal reports whether the job can no longer be modified.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobCancelled
}

// MaintenanceType is the closed set of maintenance job categories.
type MaintenanceType string

const (
	MaintenanceRoutine    MaintenanceType = "routine"
	MaintenanceInspection MaintenanceType = "inspection"
	MaintenanceRepair     MaintenanceType = "repair"
	MaintenanceOverhaul   MaintenanceType = "overhaul"
)

// Valid reports whether the type is a known variant.
func (t MaintenanceType) Valid() bool {
	switch t {
	case MaintenanceRoutine, MaintenanceInspection, MaintenanceRepair, MaintenanceOverhaul:
		return true
	}
	return false
}

// LeaderRole is the distinguished engineer assignment role. Exactly one
// assignment per job carries it.
const LeaderRole = "Leader"

// MaintenanceJob tracks one maintenance visit of an aircraft. Jobs are never
// physically deleted; they terminate as completed or cancelled.
type MaintenanceJob struct {
	JobID                int64           `db:"job_id" json:"job_id"`
	AircraftRegistration string          `db:"registration_number" json:"aircraft_registration"`
	CheckinDate          time.Time       `db:"checkin_date" json:"checkin_date"`
	CheckoutDate         *time.Time      `db:"checkout_date" json:"checkout_date,omitempty"`
	Status               JobStatus       `db:"status" json:"status"`
	Type                 MaintenanceType `db:"maintenance_type" json:"type"`
	Remarks              string          `db:"remarks" json:"remarks,omitempty"`
}

// EngineerAssignment links an engineer to a maintenance job with a role.
type EngineerAssignment struct {
	JobID         int64     `db:"job_id" json:"job_id"`
	EngineerEmail string    `db:"engineer_email" json:"engineer_email"`
	Role          string    `db:"role" json:"role"`
	AssignedAt    time.Time `db:"assigned_at" json:"assigned_at"`
}

// EngineerOnJob joins an assignment with the engineer's name for job detail
// views.
type EngineerOnJob struct {
	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`
	Role  string `db:"role" json:"role"`
}
