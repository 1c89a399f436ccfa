package dto

// FlightResponse is the wire shape of a timetable instance. The date is
// rendered as a calendar date, matching the composite key.
type FlightResponse struct {
	FlightNumber         string `json:"flight_number"`
	Date                 string `json:"date"`
	RouteID              int64  `json:"route_id"`
	DepartureTime        string `json:"scheduled_departure_time"`
	ArrivalTime          string `json:"scheduled_arrival_time"`
	AircraftRegistration string `json:"aircraft_registration"`
}

// CrewSummary is the short crew member shape used in roster responses.
type CrewSummary struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	IsPilot bool   `json:"is_pilot"`
}

// CrewAssignmentResponse confirms a roster replacement.
type CrewAssignmentResponse struct {
	FlightNumber string        `json:"flight_number"`
	Date         string        `json:"date"`
	Crew         []CrewSummary `json:"crew"`
}
