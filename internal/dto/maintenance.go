package dto

// MaintenanceJobSummary is one row of an engineer's job list.
type MaintenanceJobSummary struct {
	JobID                int64  `json:"job_id"`
	AircraftRegistration string `json:"aircraft_registration"`
	Role                 string `json:"role"`
	CheckinDate          string `json:"checkin_date"`
	CheckoutDate         string `json:"checkout_date,omitempty"`
	Status               string `json:"status"`
	Type                 string `json:"type"`
}

// MaintenanceJobDetail is the full job view with engineers and parts.
type MaintenanceJobDetail struct {
	JobID                int64          `json:"job_id"`
	AircraftRegistration string         `json:"aircraft_registration"`
	CheckinDate          string         `json:"checkin_date"`
	CheckoutDate         string         `json:"checkout_date,omitempty"`
	Status               string         `json:"status"`
	Type                 string         `json:"type"`
	Remarks              string         `json:"remarks,omitempty"`
	Engineers            []EngineerInfo `json:"engineers"`
	Parts                []PartInfo     `json:"parts"`
}

// EngineerInfo is one engineer entry on a job.
type EngineerInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// PartInfo is one aircraft part entry.
type PartInfo struct {
	PartNumber        string `json:"part_number"`
	Manufacturer      string `json:"part_manufacturer"`
	Model             string `json:"model"`
	ManufacturingDate string `json:"manufacturing_date"`
}

// AircraftDetail is the engineer-facing aircraft view with its maintenance
// history and installed parts.
type AircraftDetail struct {
	RegistrationNumber string                   `json:"registration_number"`
	Company            string                   `json:"aircraft_company"`
	Model              string                   `json:"model"`
	Capacity           int                      `json:"capacity"`
	Status             string                   `json:"status"`
	MaintenanceHistory []MaintenanceHistoryItem `json:"maintenance_history"`
	Parts              []PartInfo               `json:"parts"`
}

// MaintenanceHistoryItem is one past or present job row of an aircraft.
type MaintenanceHistoryItem struct {
	JobID        int64  `json:"job_id"`
	CheckinDate  string `json:"checkin_date"`
	CheckoutDate string `json:"checkout_date,omitempty"`
	Type         string `json:"type"`
	Status       string `json:"status"`
}

// EngineerBasicInfo lists an engineer for assignment pickers.
type EngineerBasicInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
