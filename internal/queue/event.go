// Package queue defines message payloads exchanged over the message
// broker and the background consumer that drains them.
package queue

// TicketPurchasedEvent is published when a ticket purchase commits. It
// carries enough for downstream consumers to log, notify or feed
// analytics without querying the primary database.
type TicketPurchasedEvent struct {
	TicketID       uint64 `json:"ticket_id"`
	AirlineName    string `json:"airline_name"`
	FlightNo       string `json:"flight_no"`
	DepDatetime    string `json:"dep_datetime"`
	DepAirport     string `json:"dep_airport"`
	ArrAirport     string `json:"arr_airport"`
	CustomerEmail  string `json:"customer_email"`
	SoldPriceCents uint32 `json:"sold_price_cents"`
	ComfortClass   string `json:"comfort_class"`
	PurchasedAt    string `json:"purchased_at"`
}
