package models

import "time"

// AircraftStatus is the closed set of aircraft fleet states.
type AircraftStatus string

const (
	AircraftActive      AircraftStatus = "active"
	AircraftMaintenance AircraftStatus = "maintenance"
	AircraftRetired     AircraftStatus = "retired"
)

// Valid reports whether the status is a known variant.
func (s AircraftStatus) Valid() bool {
	switch s {
	case AircraftActive, AircraftMaintenance, AircraftRetired:
		return true
	}
	return false
}

// Aircraft is a fleet aircraft identified by its registration number.
type Aircraft struct {
	RegistrationNumber string         `db:"registration_number" json:"registration_number"`
	Company            string         `db:"aircraft_company" json:"aircraft_company"`
	Model              string         `db:"model" json:"model"`
	Capacity           int            `db:"capacity" json:"capacity"`
	Status             AircraftStatus `db:"status" json:"status"`
}

// AircraftPart is a physical part installed on an aircraft.
type AircraftPart struct {
	PartNumber           string    `db:"part_number" json:"part_number"`
	Manufacturer         string    `db:"part_manufacturer" json:"part_manufacturer"`
	Model                string    `db:"model" json:"model"`
	ManufacturingDate    time.Time `db:"manufacturing_date" json:"manufacturing_date"`
	AircraftRegistration string    `db:"aircraft_registration" json:"aircraft_registration"`
}
