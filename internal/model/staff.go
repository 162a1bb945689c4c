package model

import "time"

// Staff represents a row in the `airline_staff` table. Each staff
// member works for exactly one airline; every staff-facing operation
// is scoped to that airline. The username is the primary key while
// the email participates in the same uniqueness domain as customer
// emails so a single address cannot hold both account kinds.
//
// Fields:
//  Username     – primary key, chosen at registration.
//  Email        – unique login identifier (shared domain with customers).
//  FirstName    – given name.
//  LastName     – family name.
//  AirlineName  – airline the staff member works for.
//  PasswordHash – bcrypt hashed password.
//  DateOfBirth  – staff birth date.
//  CreatedAt    – timestamp of registration.
type Staff struct {
	Username     string    // airline_staff.username
	Email        string    // airline_staff.email
	FirstName    string    // airline_staff.first_name
	LastName     string    // airline_staff.last_name
	AirlineName  string    // airline_staff.airline_name
	PasswordHash string    // airline_staff.password_hash
	DateOfBirth  time.Time // airline_staff.date_of_birth
	CreatedAt    time.Time // airline_staff.created_at
}

// StaffPhone is one phone number belonging to a staff member. A staff
// member may register any number of phones; the pair (username,
// phone_number) is the primary key of the `staff_phones` table.
type StaffPhone struct {
	Username    string // staff_phones.username
	PhoneNumber string // staff_phones.phone_number
}
