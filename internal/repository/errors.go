// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow handlers to
// distinguish failure scenarios and pick the right HTTP status without
// inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrEmailExists is returned when a registration email is already
// taken by a customer or a staff account. One email, one account.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when a staff registration reuses an
// existing username.
var ErrUsernameExists = errors.New("username already exists")

// ErrFlightNotFound is returned when no flight matches the identity
// triple (airline_name, flight_no, dep_datetime).
var ErrFlightNotFound = errors.New("flight not found")

// ErrAirplaneNotFound is returned when the referenced airplane does
// not exist under the given airline.
var ErrAirplaneNotFound = errors.New("airplane not found")

// ErrTicketExists is returned when the customer already holds a ticket
// for the same flight; duplicate bookings are banned.
var ErrTicketExists = errors.New("ticket already exists for this flight")

// ErrSoldOut is returned when the sold-ticket count has reached the
// assigned airplane's seat capacity.
var ErrSoldOut = errors.New("flight is sold out")

// ErrRatingExists is returned when the customer has already rated the
// flight.
var ErrRatingExists = errors.New("rating already exists for this flight")

// ErrNotEligible is returned when a rating is attempted without a
// ticket for the flight, or before the flight has departed.
var ErrNotEligible = errors.New("flight not eligible for rating")

// ErrPhoneExists is returned when a staff member registers a phone
// number they already have on file.
var ErrPhoneExists = errors.New("phone number already exists")

// ErrConflict is returned when a write cannot proceed because of
// conflicting existing state, such as creating a flight whose identity
// triple is already taken.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is the MySQL duplicate-entry error
// (1062). A concurrent insert can win a uniqueness race between an
// existence check and the insert; the losing insert then trips the
// unique key and must still map to the same sentinel the check would
// have produced.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
