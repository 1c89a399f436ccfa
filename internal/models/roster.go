package models

import "time"

// CrewMember is a member of the flight crew roster.
type CrewMember struct {
	Email        string     `db:"email" json:"email"`
	Name         string     `db:"name" json:"name"`
	Phone        string     `db:"phone" json:"phone,omitempty"`
	PasswordHash string     `db:"password_hash" json:"-"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	IsPilot      bool       `db:"is_pilot" json:"is_pilot"`
}

// CrewAssignment links a crew member to a flight instance. The scheduled
// departure time is duplicated from the flight for fast temporal lookups and
// must be kept in sync when the flight moves.
type CrewAssignment struct {
	FlightNumber  string    `db:"flight_number" json:"flight_number"`
	Date          time.Time `db:"date" json:"-"`
	DepartureTime string    `db:"scheduled_departure_time" json:"scheduled_departure_time"`
	CrewEmail     string    `db:"crew_email" json:"crew_email"`
}

// CrewAssignmentWithFlight joins an assignment with its flight interval, used
// for the per-crew-member overlap scan.
type CrewAssignmentWithFlight struct {
	FlightNumber  string    `db:"flight_number"`
	Date          time.Time `db:"date"`
	DepartureTime string    `db:"scheduled_departure_time"`
	ArrivalTime   string    `db:"scheduled_arrival_time"`
	CrewEmail     string    `db:"crew_email"`
}
