package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/skybook/airline-reservation/internal/model"
)

// TicketRepo provides persistence for ticket purchases. The purchase
// path is the one place in the system where check-then-act would race:
// two customers buying the last seat could both pass a bare capacity
// read. Purchase therefore locks the flight row before counting, so
// concurrent buyers serialize on the row lock and the count-insert
// pair is atomic.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// seatAvailable is the capacity guard decision: a new booking is
// admissible only while the sold count is strictly below capacity.
func seatAvailable(sold, capacity uint32) bool {
	return sold < capacity
}

// Purchase buys one ticket for the flight identified by the triple on
// t. Inside a single transaction it locks the flight row, rejects
// duplicates for the same (flight, customer) pair (ErrTicketExists),
// counts sold tickets against the assigned airplane's seat capacity
// (ErrSoldOut) and inserts. The sold price is captured from the
// flight's current base price and written back to t along with the
// purchase timestamp and generated ID.
func (r *TicketRepo) Purchase(ctx context.Context, t *model.Ticket) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	depKey := t.DepDatetime.UTC().Format("2006-01-02 15:04:05")

	// Lock the flight row and load capacity in one statement. The FOR
	// UPDATE holds until commit, so no second purchaser can pass the
	// count below while this one is in flight.
	const lockQ = `SELECT a.seat_capacity, f.base_price_cents
	               FROM flights f
	               JOIN airplanes a ON a.airline_name = f.airline_name AND a.airplane_id = f.airplane_id
	               WHERE f.airline_name = ? AND f.flight_no = ? AND f.dep_datetime = ?
	               FOR UPDATE`
	var capacity, priceCents uint32
	err = tx.QueryRowContext(ctx, lockQ, t.AirlineName, t.FlightNo, depKey).Scan(&capacity, &priceCents)
	if err == sql.ErrNoRows {
		return ErrFlightNotFound
	}
	if err != nil {
		return err
	}

	const dupQ = `SELECT 1 FROM tickets
	              WHERE airline_name = ? AND flight_no = ? AND dep_datetime = ? AND customer_email = ?`
	var one int
	err = tx.QueryRowContext(ctx, dupQ, t.AirlineName, t.FlightNo, depKey, t.CustomerEmail).Scan(&one)
	if err == nil {
		return ErrTicketExists
	}
	if err != sql.ErrNoRows {
		return err
	}

	const countQ = `SELECT COUNT(*) FROM tickets
	                WHERE airline_name = ? AND flight_no = ? AND dep_datetime = ?`
	var sold uint32
	if err := tx.QueryRowContext(ctx, countQ, t.AirlineName, t.FlightNo, depKey).Scan(&sold); err != nil {
		return err
	}
	if !seatAvailable(sold, capacity) {
		return ErrSoldOut
	}

	t.SoldPriceCents = priceCents
	t.PurchaseDatetime = time.Now().UTC()
	const ins = `INSERT INTO tickets
		(airline_name, flight_no, dep_datetime, customer_email, sold_price_cents,
		 comfort_class, card_type, card_number, card_name, card_expiry, purchase_datetime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins,
		t.AirlineName, t.FlightNo, depKey, t.CustomerEmail, t.SoldPriceCents,
		t.ComfortClass, t.CardType, t.CardNumber, t.CardName, t.CardExpiry,
		t.PurchaseDatetime.Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// TicketDetail is one owned ticket joined with its flight, as shown to
// the customer. Datetimes are the machine key form; the handler layer
// adds display strings and the timezone-aware duration.
type TicketDetail struct {
	ID             uint64    `json:"id"`
	AirlineName    string    `json:"airline_name"`
	FlightNo       string    `json:"flight_no"`
	DepDatetime    time.Time `json:"-"`
	ArrDatetime    time.Time `json:"-"`
	DepAirport     string    `json:"dep_airport"`
	ArrAirport     string    `json:"arr_airport"`
	Status         string    `json:"status"`
	ComfortClass   string    `json:"comfort_class"`
	SoldPriceCents uint32    `json:"sold_price_cents"`
	PurchasedAt    time.Time `json:"-"`
}

// ListByCustomer returns the customer's tickets with flight details,
// newest departure first, optionally bounded by departure time.
func (r *TicketRepo) ListByCustomer(ctx context.Context, email string, from, to time.Time) ([]TicketDetail, error) {
	q := `SELECT t.id, t.airline_name, t.flight_no, t.dep_datetime, f.arr_datetime,
	             f.dep_airport, f.arr_airport, f.status, t.comfort_class,
	             t.sold_price_cents, t.purchase_datetime
	      FROM tickets t
	      JOIN flights f ON f.airline_name = t.airline_name
	                    AND f.flight_no = t.flight_no
	                    AND f.dep_datetime = t.dep_datetime
	      WHERE t.customer_email = ?`
	args := []interface{}{email}
	if !from.IsZero() {
		q += ` AND t.dep_datetime >= ?`
		args = append(args, from.UTC().Format("2006-01-02 15:04:05"))
	}
	if !to.IsZero() {
		q += ` AND t.dep_datetime <= ?`
		args = append(args, to.UTC().Format("2006-01-02 15:04:05"))
	}
	q += ` ORDER BY t.dep_datetime DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]TicketDetail, 0)
	for rows.Next() {
		var d TicketDetail
		if err := rows.Scan(&d.ID, &d.AirlineName, &d.FlightNo, &d.DepDatetime, &d.ArrDatetime,
			&d.DepAirport, &d.ArrAirport, &d.Status, &d.ComfortClass,
			&d.SoldPriceCents, &d.PurchasedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

// SalesRow is one month of an airline's ticket sales.
type SalesRow struct {
	Month        string `json:"month"` // "2006-01"
	Tickets      uint32 `json:"tickets"`
	RevenueCents uint64 `json:"revenue_cents"`
}

// SalesByMonth reports the airline's sold-ticket count and revenue per
// calendar month of purchase between from and to.
func (r *TicketRepo) SalesByMonth(ctx context.Context, airline string, from, to time.Time) ([]SalesRow, error) {
	const q = `SELECT DATE_FORMAT(purchase_datetime, '%Y-%m') AS month,
	                  COUNT(*), COALESCE(SUM(sold_price_cents), 0)
	           FROM tickets
	           WHERE airline_name = ? AND purchase_datetime >= ? AND purchase_datetime <= ?
	           GROUP BY month
	           ORDER BY month`
	rows, err := r.db.QueryContext(ctx, q, airline,
		from.UTC().Format("2006-01-02 15:04:05"), to.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sales := make([]SalesRow, 0)
	for rows.Next() {
		var s SalesRow
		if err := rows.Scan(&s.Month, &s.Tickets, &s.RevenueCents); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sales, nil
}

// DestinationRow is one arrival city ranked by tickets sold.
type DestinationRow struct {
	City    string `json:"city"`
	Airport string `json:"airport"`
	Tickets uint32 `json:"tickets"`
}

// TopDestinations ranks the airline's arrival cities by tickets sold
// over the trailing number of months.
func (r *TicketRepo) TopDestinations(ctx context.Context, airline string, months, limit int) ([]DestinationRow, error) {
	if months <= 0 {
		months = 3
	}
	if limit <= 0 {
		limit = 10
	}
	since := time.Now().UTC().AddDate(0, -months, 0)
	const q = `SELECT a.city, f.arr_airport, COUNT(*) AS n
	           FROM tickets t
	           JOIN flights f ON f.airline_name = t.airline_name
	                         AND f.flight_no = t.flight_no
	                         AND f.dep_datetime = t.dep_datetime
	           JOIN airports a ON a.code = f.arr_airport
	           WHERE t.airline_name = ? AND t.purchase_datetime >= ?
	           GROUP BY a.city, f.arr_airport
	           ORDER BY n DESC
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, airline, since.Format("2006-01-02 15:04:05"), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]DestinationRow, 0)
	for rows.Next() {
		var d DestinationRow
		if err := rows.Scan(&d.City, &d.Airport, &d.Tickets); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
