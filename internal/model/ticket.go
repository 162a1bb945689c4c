package model

import "time"

// Ticket records one purchase of one flight by one customer. The
// schema enforces at most one ticket per (flight identity, customer)
// pair and the purchase path enforces that sold tickets never exceed
// the assigned airplane's seat capacity. Payment fields are stored
// verbatim as submitted; that is inherited technical debt, not a
// feature.
//
// Fields:
//  ID               – auto-increment surrogate key.
//  AirlineName      – flight identity triple, part 1.
//  FlightNo         – flight identity triple, part 2.
//  DepDatetime      – flight identity triple, part 3.
//  CustomerEmail    – purchasing customer.
//  SoldPriceCents   – base price captured at purchase time.
//  ComfortClass     – cabin class label (economy, business, first).
//  CardType         – payment card type.
//  CardNumber       – payment card number, 13–19 digits.
//  CardName         – name on the card.
//  CardExpiry       – "MM/YY", validated against the purchase month.
//  PurchaseDatetime – when the ticket was bought (UTC).
type Ticket struct {
	ID               uint64    // tickets.id
	AirlineName      string    // tickets.airline_name
	FlightNo         string    // tickets.flight_no
	DepDatetime      time.Time // tickets.dep_datetime
	CustomerEmail    string    // tickets.customer_email
	SoldPriceCents   uint32    // tickets.sold_price_cents
	ComfortClass     string    // tickets.comfort_class
	CardType         string    // tickets.card_type
	CardNumber       string    // tickets.card_number
	CardName         string    // tickets.card_name
	CardExpiry       string    // tickets.card_expiry
	PurchaseDatetime time.Time // tickets.purchase_datetime
}

// FlightRating is one customer's rating of one flown flight. A rating
// may only exist when a ticket exists for the same (flight, customer)
// pair and the flight has already departed; the schema allows at most
// one rating per pair.
type FlightRating struct {
	ID            uint64    // flight_ratings.id
	AirlineName   string    // flight_ratings.airline_name
	FlightNo      string    // flight_ratings.flight_no
	DepDatetime   time.Time // flight_ratings.dep_datetime
	CustomerEmail string    // flight_ratings.customer_email
	Rating        uint8     // flight_ratings.rating (1–5)
	Comment       *string   // flight_ratings.comment (nullable)
	CreatedAt     time.Time // flight_ratings.created_at
}
