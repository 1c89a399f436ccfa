package models

import "time"

// DateOnly is the calendar-date layout used across the flight API.
const DateOnly = "2006-01-02"

// Flight is a timetable instance identified by (flight number, date).
// Departure and arrival times are date-local "HH:MM:SS" strings; the schedule
// model does not support a flight spanning midnight.
type Flight struct {
	FlightNumber         string    `db:"flight_number" json:"flight_number"`
	Date                 time.Time `db:"date" json:"-"`
	RouteID              int64     `db:"route_id" json:"route_id"`
	DepartureTime        string    `db:"scheduled_departure_time" json:"scheduled_departure_time"`
	ArrivalTime          string    `db:"scheduled_arrival_time" json:"scheduled_arrival_time"`
	AircraftRegistration string    `db:"aircraft_registration" json:"aircraft_registration"`
}

// DateString renders the composite-key date component.
func (f Flight) DateString() string {
	return f.Date.Format(DateOnly)
}

// FlightKey identifies one timetable instance.
type FlightKey struct {
	FlightNumber string
	Date         time.Time
}

// FlightWithRoute carries a flight joined with its route reference.
type FlightWithRoute struct {
	Flight
	SourceAirportCode      string `db:"source_airport_code" json:"source_airport_code"`
	DestinationAirportCode string `db:"destination_airport_code" json:"destination_airport_code"`
	ApprovedCapacity       int    `db:"approved_capacity" json:"approved_capacity"`
}
