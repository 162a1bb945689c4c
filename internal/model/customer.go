package model

import "time"

// Customer represents a row in the `customers` table. The email is the
// primary key and doubles as the login identifier; it must be unique
// across customers and airline staff combined. The password is stored
// as a bcrypt hash, never in plain text. Address parts are optional
// and nullable in the schema.
//
// Fields:
//  Email              – primary key and login identifier.
//  Name               – display name.
//  PasswordHash       – bcrypt hashed password.
//  BuildingNo         – optional address building number.
//  Street             – optional street.
//  City               – optional city.
//  State              – optional state.
//  PhoneNumber        – contact phone, at least 7 digits.
//  PassportNumber     – 5–20 alphanumeric characters.
//  PassportExpiration – must be after DateOfBirth.
//  PassportCountry    – issuing country.
//  DateOfBirth        – customer birth date.
//  CreatedAt          – timestamp of registration.
type Customer struct {
	Email              string    // customers.email
	Name               string    // customers.name
	PasswordHash       string    // customers.password_hash
	BuildingNo         *string   // customers.building_no (nullable)
	Street             *string   // customers.street (nullable)
	City               *string   // customers.city (nullable)
	State              *string   // customers.state (nullable)
	PhoneNumber        string    // customers.phone_number
	PassportNumber     string    // customers.passport_number
	PassportExpiration time.Time // customers.passport_expiration
	PassportCountry    string    // customers.passport_country
	DateOfBirth        time.Time // customers.date_of_birth
	CreatedAt          time.Time // customers.created_at
}
