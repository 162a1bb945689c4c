package repository

import (
	"context"
	"database/sql"

	"github.com/skybook/airline-reservation/internal/model"
	"github.com/skybook/airline-reservation/internal/utils"
)

// StaffRepo provides persistence for airline staff accounts and their
// phone numbers. Staff belong to exactly one airline; the airline name
// on the account scopes every staff-facing operation.
type StaffRepo struct {
	db *sql.DB
}

// NewStaffRepo returns a new StaffRepo bound to the given database.
func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{db: db} }

// Create registers a new staff member. It verifies that the airline
// exists, that the username is free and that the email is not taken by
// any account (customer or staff) before inserting.
func (r *StaffRepo) Create(ctx context.Context, s *model.Staff, plainPassword string, bcryptCost int) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM airlines WHERE name = ?`, s.AirlineName).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrConflict
	}
	if err != nil {
		return err
	}
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM airline_staff WHERE username = ?`, s.Username).Scan(&one)
	if err == nil {
		return ErrUsernameExists
	}
	if err != sql.ErrNoRows {
		return err
	}
	taken, err := emailTaken(ctx, r.db, s.Email)
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
	const q = `INSERT INTO airline_staff
		(username, email, first_name, last_name, airline_name, password_hash, date_of_birth)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		s.Username, s.Email, s.FirstName, s.LastName, s.AirlineName, hash,
		s.DateOfBirth.Format("2006-01-02"))
	if isDuplicate(err) {
		return ErrUsernameExists
	}
	return err
}

// GetByEmail loads one staff member by login email. sql.ErrNoRows is
// returned when no such account exists.
func (r *StaffRepo) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	const q = `SELECT username, email, first_name, last_name, airline_name, password_hash,
	                  date_of_birth, created_at
	           FROM airline_staff WHERE email = ?`
	var s model.Staff
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&s.Username, &s.Email, &s.FirstName, &s.LastName, &s.AirlineName,
		&s.PasswordHash, &s.DateOfBirth, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// AddPhone registers an additional phone number for a staff member.
// Duplicate (username, phone) pairs return ErrPhoneExists.
func (r *StaffRepo) AddPhone(ctx context.Context, username, phone string) error {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM staff_phones WHERE username = ? AND phone_number = ?`,
		username, phone).Scan(&one)
	if err == nil {
		return ErrPhoneExists
	}
	if err != sql.ErrNoRows {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO staff_phones (username, phone_number) VALUES (?, ?)`, username, phone)
	if isDuplicate(err) {
		return ErrPhoneExists
	}
	return err
}

// ListPhones returns all phone numbers on file for the staff member.
func (r *StaffRepo) ListPhones(ctx context.Context, username string) ([]model.StaffPhone, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT username, phone_number FROM staff_phones WHERE username = ? ORDER BY phone_number`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	phones := make([]model.StaffPhone, 0)
	for rows.Next() {
		var p model.StaffPhone
		if err := rows.Scan(&p.Username, &p.PhoneNumber); err != nil {
			return nil, err
		}
		phones = append(phones, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return phones, nil
}

// DeletePhone removes one phone number owned by the staff member. It
// returns sql.ErrNoRows when the pair was not on file, so handlers can
// report 404 instead of silently succeeding.
func (r *StaffRepo) DeletePhone(ctx context.Context, username, phone string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM staff_phones WHERE username = ? AND phone_number = ?`, username, phone)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
