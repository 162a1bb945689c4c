package model

import "time"

// Airplane represents a row in the `airplanes` table. Airplanes are
// owned by exactly one airline and identified by (airline_name,
// airplane_id). The seat capacity bounds how many tickets may be sold
// for any flight the airplane is assigned to.
type Airplane struct {
	AirlineName  string    // airplanes.airline_name
	AirplaneID   string    // airplanes.airplane_id
	SeatCapacity uint32    // airplanes.seat_capacity
	Manufacturer string    // airplanes.manufacturer
	Age          uint32    // airplanes.age (years)
	CreatedAt    time.Time // airplanes.created_at
}

// Airport is a row in the `airports` table. The IATA code is the key
// and maps to an IANA timezone through the static table in the
// schedule package.
type Airport struct {
	Code string // airports.code
	Name string // airports.name
	City string // airports.city
}
