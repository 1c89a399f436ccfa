package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for the generic failure kinds.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrStateViolation     = New("STATE_VIOLATION", http.StatusConflict, "operation not allowed in current state")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Timetable and conflict-validation errors. Raise order is part of the API
// contract: the first violated rule wins.
var (
	ErrDuplicateKey         = New("DUPLICATE_KEY", http.StatusConflict, "flight already exists for this number and date")
	ErrRouteNotFound        = New("ROUTE_NOT_FOUND", http.StatusBadRequest, "route does not exist")
	ErrAircraftNotFound     = New("AIRCRAFT_NOT_FOUND", http.StatusBadRequest, "aircraft does not exist")
	ErrAircraftNotActive    = New("AIRCRAFT_NOT_ACTIVE", http.StatusConflict, "aircraft is not active")
	ErrCapacityExceeded     = New("CAPACITY_EXCEEDED", http.StatusConflict, "aircraft capacity exceeds route approved capacity")
	ErrInvalidTimeWindow    = New("INVALID_TIME_WINDOW", http.StatusBadRequest, "invalid departure/arrival window")
	ErrAircraftDoubleBooked = New("AIRCRAFT_DOUBLE_BOOKED", http.StatusConflict, "aircraft already booked for an overlapping flight")
)

// Crew roster errors.
var (
	ErrEmptyRoster      = New("EMPTY_ROSTER", http.StatusBadRequest, "crew list cannot be empty")
	ErrUnknownCrew      = New("UNKNOWN_CREW", http.StatusBadRequest, "one or more crew members do not exist")
	ErrNoPilotAssigned  = New("NO_PILOT_ASSIGNED", http.StatusBadRequest, "at least one assigned crew member must be a pilot")
	ErrPastFlight       = New("PAST_FLIGHT", http.StatusConflict, "flight departure has already elapsed")
	ErrCrewDoubleBooked = New("CREW_DOUBLE_BOOKED", http.StatusConflict, "crew member already assigned to an overlapping flight")
)

// Maintenance workflow errors.
var (
	ErrAircraftRetired          = New("AIRCRAFT_RETIRED", http.StatusConflict, "aircraft is retired")
	ErrAircraftAlreadyInOpenJob = New("AIRCRAFT_ALREADY_IN_OPEN_JOB", http.StatusConflict, "aircraft already has an open maintenance job")
	ErrJobClosed                = New("JOB_CLOSED", http.StatusConflict, "maintenance job is closed")
	ErrNotLeader                = New("NOT_LEADER", http.StatusForbidden, "only the job leader may perform this operation")
	ErrUnknownEngineer          = New("UNKNOWN_ENGINEER", http.StatusBadRequest, "engineer does not exist")
	ErrLeaderCount              = New("LEADER_COUNT_VIOLATION", http.StatusConflict, "maintenance job must have exactly one leader")
	ErrAlreadyCompleted         = New("ALREADY_COMPLETED", http.StatusConflict, "maintenance job is already completed")
	ErrAlreadyCancelled         = New("ALREADY_CANCELLED", http.StatusConflict, "maintenance job is cancelled")
	ErrDuplicatePartNumber      = New("DUPLICATE_PART_NUMBER", http.StatusConflict, "part number already exists")
	ErrFutureManufacturingDate  = New("FUTURE_MANUFACTURING_DATE", http.StatusBadRequest, "part manufacturing date cannot be in the future")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
