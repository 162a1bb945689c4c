package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/skybook/airline-reservation/internal/model"
	"github.com/skybook/airline-reservation/internal/utils"
)

// CustomerRepo provides persistence for customer accounts. Emails are
// unique across the union of customers and airline staff; Create
// checks both tables before inserting.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// Create registers a new customer. The plain password is hashed with
// bcrypt at the given cost before storage. It returns ErrEmailExists
// when the email is already held by any account.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer, plainPassword string, bcryptCost int) error {
	taken, err := emailTaken(ctx, r.db, c.Email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailExists
	}
	hash, err := utils.HashPassword(plainPassword, bcryptCost)
	if err != nil {
		return err
	}
	const q = `INSERT INTO customers
		(email, name, password_hash, building_no, street, city, state,
		 phone_number, passport_number, passport_expiration, passport_country, date_of_birth)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		c.Email, c.Name, hash, c.BuildingNo, c.Street, c.City, c.State,
		c.PhoneNumber, c.PassportNumber, c.PassportExpiration.Format("2006-01-02"),
		c.PassportCountry, c.DateOfBirth.Format("2006-01-02"))
	if isDuplicate(err) {
		return ErrEmailExists
	}
	return err
}

// GetByEmail loads one customer by email. sql.ErrNoRows is returned
// when no such account exists.
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	const q = `SELECT email, name, password_hash, building_no, street, city, state,
	                  phone_number, passport_number, passport_expiration, passport_country,
	                  date_of_birth, created_at
	           FROM customers WHERE email = ?`
	var c model.Customer
	var buildingNo, street, city, state sql.NullString
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&c.Email, &c.Name, &c.PasswordHash, &buildingNo, &street, &city, &state,
		&c.PhoneNumber, &c.PassportNumber, &c.PassportExpiration, &c.PassportCountry,
		&c.DateOfBirth, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.BuildingNo = nullableString(buildingNo)
	c.Street = nullableString(street)
	c.City = nullableString(city)
	c.State = nullableString(state)
	return &c, nil
}

// SpendingRow is one month of a customer's purchases.
type SpendingRow struct {
	Month      string `json:"month"` // "2006-01"
	TotalCents uint64 `json:"total_cents"`
	Tickets    uint32 `json:"tickets"`
}

// Spending sums the customer's ticket purchases between from and to
// (purchase time, inclusive bounds) and breaks them down per calendar
// month. The overall total is returned alongside the monthly rows.
func (r *CustomerRepo) Spending(ctx context.Context, email string, from, to time.Time) (uint64, []SpendingRow, error) {
	const q = `SELECT DATE_FORMAT(purchase_datetime, '%Y-%m') AS month,
	                  COALESCE(SUM(sold_price_cents), 0), COUNT(*)
	           FROM tickets
	           WHERE customer_email = ? AND purchase_datetime >= ? AND purchase_datetime <= ?
	           GROUP BY month
	           ORDER BY month`
	rows, err := r.db.QueryContext(ctx, q, email,
		from.UTC().Format("2006-01-02 15:04:05"), to.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()
	var total uint64
	monthly := make([]SpendingRow, 0)
	for rows.Next() {
		var m SpendingRow
		if err := rows.Scan(&m.Month, &m.TotalCents, &m.Tickets); err != nil {
			return 0, nil, err
		}
		total += m.TotalCents
		monthly = append(monthly, m)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, err
	}
	return total, monthly, nil
}

// emailTaken reports whether the email belongs to any customer or
// staff account. Shared by both registration paths.
func emailTaken(ctx context.Context, db *sql.DB, email string) (bool, error) {
	const q = `SELECT 1 FROM customers WHERE email = ?
	           UNION
	           SELECT 1 FROM airline_staff WHERE email = ?
	           LIMIT 1`
	var one int
	err := db.QueryRowContext(ctx, q, email, email).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
