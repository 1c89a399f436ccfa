package models

// Airport is an IATA-coded airport reference record.
type Airport struct {
	Code    string `db:"airport_code" json:"airport_code"`
	City    string `db:"city" json:"city"`
	State   string `db:"state" json:"state,omitempty"`
	Country string `db:"country" json:"country"`
	Name    string `db:"airport_name" json:"airport_name"`
}

// Route links two airports with an approved passenger capacity ceiling.
type Route struct {
	ID                     int64  `db:"route_id" json:"route_id"`
	SourceAirportCode      string `db:"source_airport_code" json:"source_airport_code"`
	DestinationAirportCode string `db:"destination_airport_code" json:"destination_airport_code"`
	ApprovedCapacity       int    `db:"approved_capacity" json:"approved_capacity"`
}
