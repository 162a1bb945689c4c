package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/skybook/airline-reservation/internal/model"
)

// RatingRepo provides persistence for flight ratings. A rating may
// exist only when the customer holds a ticket for the flight and the
// flight has already departed, and there is at most one rating per
// (flight, customer) pair.
type RatingRepo struct {
	db *sql.DB
}

// NewRatingRepo returns a new RatingRepo bound to the given database.
func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

// Create inserts a rating after checking eligibility inside one
// transaction: the customer must be ticketed on the flight
// (ErrNotEligible), the flight must have departed (ErrNotEligible) and
// no prior rating may exist (ErrRatingExists).
func (r *RatingRepo) Create(ctx context.Context, rt *model.FlightRating) error {
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

	depKey := rt.DepDatetime.UTC().Format("2006-01-02 15:04:05")

	const ticketQ = `SELECT dep_datetime FROM tickets
	                 WHERE airline_name = ? AND flight_no = ? AND dep_datetime = ? AND customer_email = ?`
	var dep time.Time
	err = tx.QueryRowContext(ctx, ticketQ, rt.AirlineName, rt.FlightNo, depKey, rt.CustomerEmail).Scan(&dep)
	if err == sql.ErrNoRows {
		return ErrNotEligible
	}
	if err != nil {
		return err
	}
	if !dep.Before(time.Now().UTC()) {
		return ErrNotEligible
	}

	const dupQ = `SELECT 1 FROM flight_ratings
	              WHERE airline_name = ? AND flight_no = ? AND dep_datetime = ? AND customer_email = ?`
	var one int
	err = tx.QueryRowContext(ctx, dupQ, rt.AirlineName, rt.FlightNo, depKey, rt.CustomerEmail).Scan(&one)
	if err == nil {
		return ErrRatingExists
	}
	if err != sql.ErrNoRows {
		return err
	}

	const ins = `INSERT INTO flight_ratings
		(airline_name, flight_no, dep_datetime, customer_email, rating, comment)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins,
		rt.AirlineName, rt.FlightNo, depKey, rt.CustomerEmail, rt.Rating, rt.Comment)
	if err != nil {
		if isDuplicate(err) {
			return ErrRatingExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// RatingDetail is one rating as listed back to customers or staff.
type RatingDetail struct {
	AirlineName   string  `json:"airline_name"`
	FlightNo      string  `json:"flight_no"`
	DepDatetime   string  `json:"dep_datetime"`
	CustomerEmail string  `json:"customer_email,omitempty"`
	Rating        uint8   `json:"rating"`
	Comment       *string `json:"comment,omitempty"`
}

// ListByCustomer returns all ratings the customer has written.
func (r *RatingRepo) ListByCustomer(ctx context.Context, email string) ([]RatingDetail, error) {
	const q = `SELECT airline_name, flight_no, dep_datetime, rating, comment
	           FROM flight_ratings WHERE customer_email = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RatingDetail, 0)
	for rows.Next() {
		var d RatingDetail
		var dep time.Time
		var comment sql.NullString
		if err := rows.Scan(&d.AirlineName, &d.FlightNo, &dep, &d.Rating, &comment); err != nil {
			return nil, err
		}
		d.DepDatetime = dep.UTC().Format("2006-01-02 15:04:05")
		if comment.Valid {
			c := comment.String
			d.Comment = &c
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForFlight returns every rating on one flight plus the average,
// for the owning airline's staff view. The caller supplies the airline
// from staff claims so cross-airline reads are impossible. A flight
// with no ratings returns an empty slice and average 0.
func (r *RatingRepo) ListForFlight(ctx context.Context, id model.FlightID) ([]RatingDetail, float64, error) {
	depKey := id.DepDatetime.UTC().Format("2006-01-02 15:04:05")
	const q = `SELECT airline_name, flight_no, dep_datetime, customer_email, rating, comment
	           FROM flight_ratings
	           WHERE airline_name = ? AND flight_no = ? AND dep_datetime = ?
	           ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, id.AirlineName, id.FlightNo, depKey)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]RatingDetail, 0)
	var sum uint64
	for rows.Next() {
		var d RatingDetail
		var dep time.Time
		var comment sql.NullString
		if err := rows.Scan(&d.AirlineName, &d.FlightNo, &dep, &d.CustomerEmail, &d.Rating, &comment); err != nil {
			return nil, 0, err
		}
		d.DepDatetime = dep.UTC().Format("2006-01-02 15:04:05")
		if comment.Valid {
			c := comment.String
			d.Comment = &c
		}
		sum += uint64(d.Rating)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	avg := 0.0
	if len(out) > 0 {
		avg = float64(sum) / float64(len(out))
	}
	return out, avg, nil
}
