// Package validate holds the pure form checks performed before any
// registration, booking or flight write hits the database. Every check
// returns a pass/fail flag plus a human-readable reason suitable for
// returning to the submitting user verbatim.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	// Minimal local@domain.tld shape; full RFC 5322 is out of scope.
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	passportRe = regexp.MustCompile(`^[A-Za-z0-9]{5,20}$`)
	cardRe     = regexp.MustCompile(`^[0-9]{13,19}$`)
	cvcRe      = regexp.MustCompile(`^[0-9]{3,4}$`)
)

// Password requires length >= 8, at least one uppercase letter and at
// least one digit. There is deliberately no lowercase rule: an
// all-caps password with a digit passes.
func Password(pw string) (bool, string) {
	hasUpper := false
	hasDigit := false
	for _, r := range pw {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	if len(pw) < 8 || !hasUpper || !hasDigit {
		return false, "password must be at least 8 characters, include one uppercase letter and one number"
	}
	return true, ""
}

// Email checks the minimal local@domain.tld shape.
func Email(s string) (bool, string) {
	if !emailRe.MatchString(s) {
		return false, "please enter a valid email address"
	}
	return true, ""
}

// Phone requires at least 7 digit characters after stripping
// everything else, and a raw length of at most 20 characters.
func Phone(s string) (bool, string) {
	digits := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < 7 {
		return false, "phone number seems too short; include at least 7 digits"
	}
	if len(s) > 20 {
		return false, "phone number must be 20 characters or fewer"
	}
	return true, ""
}

// PassportNumber accepts 5–20 alphanumeric characters, case-insensitive.
func PassportNumber(s string) (bool, string) {
	if !passportRe.MatchString(s) {
		return false, "please enter a valid passport number (5-20 alphanumeric characters)"
	}
	return true, ""
}

// BirthBeforeExpiration parses two "YYYY-MM-DD" dates and requires the
// date of birth to be strictly before the passport expiration.
func BirthBeforeExpiration(dateOfBirth, passportExpiration string) (bool, string) {
	dob, err := time.Parse("2006-01-02", dateOfBirth)
	if err != nil {
		return false, "invalid date format, use YYYY-MM-DD"
	}
	exp, err := time.Parse("2006-01-02", passportExpiration)
	if err != nil {
		return false, "invalid date format, use YYYY-MM-DD"
	}
	if !dob.Before(exp) {
		return false, "passport expiration must be after date of birth"
	}
	return true, ""
}

// ReturnNotBeforeDeparture requires a round-trip return date to be on
// or after the departure date. Both are "YYYY-MM-DD".
func ReturnNotBeforeDeparture(departure, ret string) (bool, string) {
	dep, err := time.Parse("2006-01-02", departure)
	if err != nil {
		return false, "invalid departure date, use YYYY-MM-DD"
	}
	r, err := time.Parse("2006-01-02", ret)
	if err != nil {
		return false, "invalid return date, use YYYY-MM-DD"
	}
	if r.Before(dep) {
		return false, "return date must not be before departure date"
	}
	return true, ""
}

// ArrivalAfterDeparture requires a flight to land strictly after it
// takes off.
func ArrivalAfterDeparture(dep, arr time.Time) (bool, string) {
	if !arr.After(dep) {
		return false, "arrival must be after departure"
	}
	return true, ""
}

// CardNumber accepts 13–19 digits.
func CardNumber(s string) (bool, string) {
	if !cardRe.MatchString(s) {
		return false, "card number must be 13-19 digits"
	}
	return true, ""
}

// CVC accepts 3 or 4 digits.
func CVC(s string) (bool, string) {
	if !cvcRe.MatchString(s) {
		return false, "security code must be 3 or 4 digits"
	}
	return true, ""
}

// CardExpiry checks an "MM/YY" expiration against now by calendar
// month: (20YY, MM) must be at or after (now.Year, now.Month). The
// current time is a parameter so the comparison is deterministic under
// test.
func CardExpiry(s string, now time.Time) (bool, string) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return false, "card expiration must be in MM/YY format"
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return false, "card expiration must be in MM/YY format"
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return false, "card expiration must be in MM/YY format"
	}
	year += 2000
	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return false, "card is expired"
	}
	return true, ""
}

// Required reports the first missing value from a label->value listing,
// mirroring the NOT NULL columns of the registration forms.
func Required(fields [][2]string) (bool, string) {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return false, f[0] + " is required"
		}
	}
	return true, ""
}
