package repository

import (
	"context"
	"database/sql"

	"github.com/skybook/airline-reservation/internal/model"
)

// AirplaneRepo provides persistence for airplanes and the airline /
// airport reference tables. Airplanes are created by staff and scoped
// to the staff member's own airline.
type AirplaneRepo struct {
	db *sql.DB
}

// NewAirplaneRepo returns a new AirplaneRepo bound to the given database.
func NewAirplaneRepo(db *sql.DB) *AirplaneRepo { return &AirplaneRepo{db: db} }

// Create registers a new airplane under the airline. A duplicate
// (airline_name, airplane_id) pair returns ErrConflict.
func (r *AirplaneRepo) Create(ctx context.Context, a *model.Airplane) error {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM airplanes WHERE airline_name = ? AND airplane_id = ?`,
		a.AirlineName, a.AirplaneID).Scan(&one)
	if err == nil {
		return ErrConflict
	}
	if err != sql.ErrNoRows {
		return err
	}
	const q = `INSERT INTO airplanes (airline_name, airplane_id, seat_capacity, manufacturer, age)
	           VALUES (?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q, a.AirlineName, a.AirplaneID, a.SeatCapacity, a.Manufacturer, a.Age)
	if isDuplicate(err) {
		// A concurrent create slipped in between the check and the insert.
		return ErrConflict
	}
	return err
}

// ListByAirline returns the airline's airplanes ordered by ID.
func (r *AirplaneRepo) ListByAirline(ctx context.Context, airline string) ([]model.Airplane, error) {
	const q = `SELECT airline_name, airplane_id, seat_capacity, manufacturer, age, created_at
	           FROM airplanes WHERE airline_name = ? ORDER BY airplane_id`
	rows, err := r.db.QueryContext(ctx, q, airline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	planes := make([]model.Airplane, 0)
	for rows.Next() {
		var a model.Airplane
		if err := rows.Scan(&a.AirlineName, &a.AirplaneID, &a.SeatCapacity,
			&a.Manufacturer, &a.Age, &a.CreatedAt); err != nil {
			return nil, err
		}
		planes = append(planes, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return planes, nil
}

// ListAirports returns the airport reference table, ordered by code.
func (r *AirplaneRepo) ListAirports(ctx context.Context) ([]model.Airport, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT code, name, city FROM airports ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	airports := make([]model.Airport, 0)
	for rows.Next() {
		var a model.Airport
		if err := rows.Scan(&a.Code, &a.Name, &a.City); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return airports, nil
}

// AirportExists reports whether a code is in the airports table.
func (r *AirplaneRepo) AirportExists(ctx context.Context, code string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM airports WHERE code = ?`, code).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
