package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/skybook/airline-reservation/internal/model"
	"github.com/skybook/airline-reservation/internal/schedule"
)

// FlightRepo provides persistence for flights. Flights are always
// addressed by the identity triple (airline_name, flight_no,
// dep_datetime); staff writes additionally verify that the flight (or
// the airplane being assigned) belongs to the caller's airline.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo returns a new FlightRepo bound to the given database.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

// Create inserts a new flight under the staff member's airline. The
// assigned airplane must exist under the same airline
// (ErrAirplaneNotFound otherwise) and the identity triple must be free
// (ErrConflict otherwise). Both checks and the insert run in one
// transaction so a concurrent create of the same triple cannot slip
// between them.
func (r *FlightRepo) Create(ctx context.Context, f *model.Flight) error {
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

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM airplanes WHERE airline_name = ? AND airplane_id = ? FOR UPDATE`,
		f.AirlineName, f.AirplaneID).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrAirplaneNotFound
	}
	if err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM flights WHERE airline_name = ? AND flight_no = ? AND dep_datetime = ?`,
		f.AirlineName, f.FlightNo, key(f.DepDatetime)).Scan(&one)
	if err == nil {
		return ErrConflict
	}
	if err != sql.ErrNoRows {
		return err
	}

	const ins = `INSERT INTO flights
		(airline_name, flight_no, dep_datetime, dep_airport, arr_airport, arr_datetime,
		 base_price_cents, status, airplane_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, ins,
		f.AirlineName, f.FlightNo, key(f.DepDatetime), f.DepAirport, f.ArrAirport,
		key(f.ArrDatetime), f.BasePriceCents, f.Status, f.AirplaneID); err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Get loads one flight by its identity triple.
func (r *FlightRepo) Get(ctx context.Context, id model.FlightID) (*model.Flight, error) {
	const q = `SELECT airline_name, flight_no, dep_datetime, dep_airport, arr_airport,
	                  arr_datetime, base_price_cents, status, airplane_id
	           FROM flights
	           WHERE airline_name = ? AND flight_no = ? AND dep_datetime = ?`
	var f model.Flight
	err := r.db.QueryRowContext(ctx, q, id.AirlineName, id.FlightNo, key(id.DepDatetime)).Scan(
		&f.AirlineName, &f.FlightNo, &f.DepDatetime, &f.DepAirport, &f.ArrAirport,
		&f.ArrDatetime, &f.BasePriceCents, &f.Status, &f.AirplaneID,
	)
	if err == sql.ErrNoRows {
		return nil, ErrFlightNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// UpdateStatus sets a flight's status. The airline in the identity
// triple comes from the staff member's own claims, so a staff session
// can never touch another airline's flights; a miss on the triple is
// ErrFlightNotFound.
func (r *FlightRepo) UpdateStatus(ctx context.Context, id model.FlightID, status string) error {
	const q = `UPDATE flights SET status = ?
	           WHERE airline_name = ? AND flight_no = ? AND dep_datetime = ?`
	res, err := r.db.ExecContext(ctx, q, status, id.AirlineName, id.FlightNo, key(id.DepDatetime))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "no such flight" from "status unchanged".
		var one int
		err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM flights WHERE airline_name = ? AND flight_no = ? AND dep_datetime = ?`,
			id.AirlineName, id.FlightNo, key(id.DepDatetime)).Scan(&one)
		if err == sql.ErrNoRows {
			return ErrFlightNotFound
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// SearchFilter narrows flight listings. Zero values mean "no filter";
// Source and Destination match either the airport code or its city.
type SearchFilter struct {
	Source      string
	Destination string
	From        time.Time
	To          time.Time
}

// Search returns future flights matching the filter, across all
// airlines, ordered by departure. It backs the public one-way search;
// round trips are two calls with source and destination swapped.
func (r *FlightRepo) Search(ctx context.Context, fl SearchFilter) ([]model.Flight, error) {
	q := `SELECT f.airline_name, f.flight_no, f.dep_datetime, f.dep_airport, f.arr_airport,
	             f.arr_datetime, f.base_price_cents, f.status, f.airplane_id
	      FROM flights f
	      JOIN airports da ON da.code = f.dep_airport
	      JOIN airports aa ON aa.code = f.arr_airport
	      WHERE 1=1`
	args := make([]interface{}, 0, 6)
	if fl.Source != "" {
		q += ` AND (f.dep_airport = ? OR da.city = ?)`
		args = append(args, fl.Source, fl.Source)
	}
	if fl.Destination != "" {
		q += ` AND (f.arr_airport = ? OR aa.city = ?)`
		args = append(args, fl.Destination, fl.Destination)
	}
	if !fl.From.IsZero() {
		q += ` AND f.dep_datetime >= ?`
		args = append(args, key(fl.From))
	}
	if !fl.To.IsZero() {
		q += ` AND f.dep_datetime <= ?`
		args = append(args, key(fl.To))
	}
	q += ` ORDER BY f.dep_datetime, f.airline_name, f.flight_no`
	return r.queryFlights(ctx, q, args...)
}

// ListByAirline returns an airline's flights departing inside [from,
// to], optionally narrowed by source/destination. Used by staff views.
func (r *FlightRepo) ListByAirline(ctx context.Context, airline string, fl SearchFilter) ([]model.Flight, error) {
	q := `SELECT f.airline_name, f.flight_no, f.dep_datetime, f.dep_airport, f.arr_airport,
	             f.arr_datetime, f.base_price_cents, f.status, f.airplane_id
	      FROM flights f
	      WHERE f.airline_name = ?`
	args := []interface{}{airline}
	if fl.Source != "" {
		q += ` AND f.dep_airport = ?`
		args = append(args, fl.Source)
	}
	if fl.Destination != "" {
		q += ` AND f.arr_airport = ?`
		args = append(args, fl.Destination)
	}
	if !fl.From.IsZero() {
		q += ` AND f.dep_datetime >= ?`
		args = append(args, key(fl.From))
	}
	if !fl.To.IsZero() {
		q += ` AND f.dep_datetime <= ?`
		args = append(args, key(fl.To))
	}
	q += ` ORDER BY f.dep_datetime, f.flight_no`
	return r.queryFlights(ctx, q, args...)
}

// StatusOn returns the flights matching an airline, flight number and
// departure calendar date, with their current status. A flight number
// can depart at several times on one date, hence the slice.
func (r *FlightRepo) StatusOn(ctx context.Context, airline, flightNo string, day time.Time) ([]model.Flight, error) {
	const q = `SELECT airline_name, flight_no, dep_datetime, dep_airport, arr_airport,
	                  arr_datetime, base_price_cents, status, airplane_id
	           FROM flights
	           WHERE airline_name = ? AND flight_no = ? AND dep_datetime >= ? AND dep_datetime < ?
	           ORDER BY dep_datetime`
	start := day.UTC().Truncate(24 * time.Hour)
	return r.queryFlights(ctx, q, airline, flightNo, key(start), key(start.Add(24*time.Hour)))
}

// Passenger is one customer on a flight manifest.
type Passenger struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	PurchasedAt string `json:"purchased_at"`
}

// Passengers lists the customers ticketed on one flight. Only the
// owning airline may look; id.AirlineName is taken from staff claims.
func (r *FlightRepo) Passengers(ctx context.Context, id model.FlightID) ([]Passenger, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}
	const q = `SELECT t.customer_email, c.name, t.purchase_datetime
	           FROM tickets t
	           JOIN customers c ON c.email = t.customer_email
	           WHERE t.airline_name = ? AND t.flight_no = ? AND t.dep_datetime = ?
	           ORDER BY t.purchase_datetime`
	rows, err := r.db.QueryContext(ctx, q, id.AirlineName, id.FlightNo, key(id.DepDatetime))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Passenger, 0)
	for rows.Next() {
		var p Passenger
		var purchased time.Time
		if err := rows.Scan(&p.Email, &p.Name, &purchased); err != nil {
			return nil, err
		}
		p.PurchasedAt = purchased.UTC().Format(schedule.MachineLayout)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *FlightRepo) queryFlights(ctx context.Context, q string, args ...interface{}) ([]model.Flight, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	flights := make([]model.Flight, 0)
	for rows.Next() {
		var f model.Flight
		if err := rows.Scan(
			&f.AirlineName, &f.FlightNo, &f.DepDatetime, &f.DepAirport, &f.ArrAirport,
			&f.ArrDatetime, &f.BasePriceCents, &f.Status, &f.AirplaneID,
		); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return flights, nil
}

// key renders an instant in the machine-sortable DB format.
func key(t time.Time) string {
	return t.UTC().Format(schedule.MachineLayout)
}
