package model

import "time"

// Flight statuses. A flight is either running on schedule or delayed;
// staff flip the value, nobody deletes flights.
const (
	FlightStatusOnTime  = "on-time"
	FlightStatusDelayed = "delayed"
)

// Flight represents a row in the `flights` table. A flight is never
// identified by its number alone: the identity is always the triple
// (airline_name, flight_no, dep_datetime), since the same number is
// reused for the same route on different days and across airlines.
//
// Fields:
//  AirlineName    – owning airline, part of the identity triple.
//  FlightNo       – flight number, part of the identity triple.
//  DepDatetime    – scheduled departure instant (UTC), part of the identity triple.
//  DepAirport     – departure airport code; must differ from ArrAirport.
//  ArrAirport     – arrival airport code.
//  ArrDatetime    – scheduled arrival instant (UTC); must be after DepDatetime.
//  BasePriceCents – ticket price in cents at time of sale.
//  Status         – FlightStatusOnTime or FlightStatusDelayed.
//  AirplaneID     – airplane assigned to the flight, owned by AirlineName.
type Flight struct {
	AirlineName    string    // flights.airline_name
	FlightNo       string    // flights.flight_no
	DepDatetime    time.Time // flights.dep_datetime
	DepAirport     string    // flights.dep_airport
	ArrAirport     string    // flights.arr_airport
	ArrDatetime    time.Time // flights.arr_datetime
	BasePriceCents uint32    // flights.base_price_cents
	Status         string    // flights.status
	AirplaneID     string    // flights.airplane_id
}

// FlightID is the identity triple used everywhere a flight is referenced
// (tickets, ratings, status updates). DepDatetime uses the machine key
// format "2006-01-02 15:04:05" when crossing the HTTP boundary.
type FlightID struct {
	AirlineName string
	FlightNo    string
	DepDatetime time.Time
}
