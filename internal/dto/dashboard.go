package dto

// SchedulerDashboard aggregates fleet-wide scheduling statistics.
type SchedulerDashboard struct {
	RecentFlights []DashboardFlight       `json:"recent_flights"`
	Stats         SchedulerDashboardStats `json:"stats"`
}

// DashboardFlight is a flight summary joined with its route for dashboards.
type DashboardFlight struct {
	FlightNumber           string `json:"flight_number"`
	RouteID                int64  `json:"route_id"`
	SourceAirportCode      string `json:"source_airport_code"`
	DestinationAirportCode string `json:"destination_airport_code"`
	ApprovedCapacity       int    `json:"approved_capacity"`
	Date                   string `json:"date"`
	DepartureTime          string `json:"scheduled_departure_time"`
	ArrivalTime            string `json:"scheduled_arrival_time"`
	AircraftRegistration   string `json:"aircraft_registration"`
}

// SchedulerDashboardStats holds the tile counters of the scheduler view.
type SchedulerDashboardStats struct {
	FlightsInAir         int     `json:"flights_in_air"`
	WeeklyFlights        int     `json:"weekly_flights"`
	UtilizationRate      float64 `json:"utilization_rate"`
	AircraftOnGround     int     `json:"aircraft_on_ground"`
	MaintenanceAircraft  int     `json:"maintenance_aircraft"`
}

// CrewDashboard is the crew member's personal aggregate view.
type CrewDashboard struct {
	UpcomingFlights []CrewFlightSummary `json:"upcoming_flights"`
	Stats           CrewDashboardStats  `json:"stats"`
}

// CrewDashboardStats partitions a crew member's assignments into past hours
// and the next upcoming departure.
type CrewDashboardStats struct {
	TotalHoursCompleted float64         `json:"total_hours_completed"`
	NextFlight          *NextFlightInfo `json:"next_flight,omitempty"`
}

// CrewFlightSummary is one row of the crew member's flight list.
type CrewFlightSummary struct {
	FlightNumber           string `json:"flight_number"`
	Date                   string `json:"date"`
	DepartureTime          string `json:"scheduled_departure_time"`
	ArrivalTime            string `json:"scheduled_arrival_time"`
	DurationMinutes        int    `json:"duration_minutes"`
	AircraftRegistration   string `json:"aircraft_registration"`
	SourceAirportCode      string `json:"source_airport_code"`
	DestinationAirportCode string `json:"destination_airport_code"`
}

// NextFlightInfo describes the very next upcoming flight.
type NextFlightInfo struct {
	CrewFlightSummary
	TimeUntilDepartureMinutes int `json:"time_until_departure_minutes"`
}

// CrewFlightDetail is the full flight view for an assigned crew member.
type CrewFlightDetail struct {
	CrewFlightSummary
	AircraftCompany  string         `json:"aircraft_company"`
	AircraftModel    string         `json:"aircraft_model"`
	AircraftCapacity int            `json:"aircraft_capacity"`
	Crew             []CrewOnFlight `json:"crew"`
}

// CrewOnFlight is one colleague entry in a flight detail.
type CrewOnFlight struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsPilot bool   `json:"is_pilot"`
	Role    string `json:"role"`
}

// EngineerDashboard is the engineer's landing view.
type EngineerDashboard struct {
	Aircraft     []AircraftStatusItem    `json:"aircraft"`
	AssignedJobs []AssignedJobItem       `json:"assigned_jobs"`
	Stats        EngineerDashboardStats  `json:"stats"`
}

// AircraftStatusItem is a minimal fleet status row.
type AircraftStatusItem struct {
	RegistrationNumber string `json:"registration_number"`
	Status             string `json:"status"`
}

// AssignedJobItem summarises a job the engineer participates in.
type AssignedJobItem struct {
	JobID                int64  `json:"job_id"`
	AircraftRegistration string `json:"aircraft_registration"`
	Role                 string `json:"role"`
	CheckinDate          string `json:"checkin_date"`
}

// EngineerDashboardStats carries the engineer dashboard counters.
type EngineerDashboardStats struct {
	MonthlyCompletedJobs int `json:"monthly_completed_jobs"`
}

// AdminDashboard aggregates fleet-wide counts for administrators.
type AdminDashboard struct {
	TotalAircraft       int            `json:"total_aircraft"`
	ActiveAircraft      int            `json:"active_aircraft"`
	MaintenanceAircraft int            `json:"maintenance_aircraft"`
	RetiredAircraft     int            `json:"retired_aircraft"`
	TotalRoutes         int            `json:"total_routes"`
	TotalAirports       int            `json:"total_airports"`
	PopularRoutes       []PopularRoute `json:"popular_routes"`
}

// PopularRoute ranks routes by scheduled flight count.
type PopularRoute struct {
	RouteID                int64  `json:"route_id"`
	SourceAirportCode      string `json:"source_airport_code"`
	DestinationAirportCode string `json:"destination_airport_code"`
	FlightCount            int    `json:"flight_count"`
}
