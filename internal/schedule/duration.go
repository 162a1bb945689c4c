// Package schedule handles the time arithmetic around flights: mapping
// airport codes to IANA timezones, converting between the machine key
// format stored in MySQL and the human display format shown to users,
// and recomputing flight durations across timezones.
package schedule

import (
	"fmt"
	"time"
	_ "time/tzdata" // embed zone data so lookups work without a system tzdb
)

// Layouts used on the HTTP boundary. MachineLayout is the sortable key
// form stored in the database; the display layouts are what users see.
// Both are derivable from one canonical UTC instant.
const (
	MachineLayout     = "2006-01-02 15:04:05"
	DateOnlyLayout    = "2006-01-02"
	DisplayDateLayout = "January 2, 2006"
	DisplayTimeLayout = "3:04 PM"
)

// airportZones maps IATA airport codes to IANA timezone names. Codes
// missing from the table fall back to UTC.
var airportZones = map[string]string{
	"ATL": "America/New_York",
	"BOS": "America/New_York",
	"JFK": "America/New_York",
	"LGA": "America/New_York",
	"EWR": "America/New_York",
	"IAD": "America/New_York",
	"DCA": "America/New_York",
	"MIA": "America/New_York",
	"DTW": "America/Detroit",
	"ORD": "America/Chicago",
	"DFW": "America/Chicago",
	"IAH": "America/Chicago",
	"MSP": "America/Chicago",
	"DEN": "America/Denver",
	"PHX": "America/Phoenix",
	"LAX": "America/Los_Angeles",
	"SFO": "America/Los_Angeles",
	"SEA": "America/Los_Angeles",
	"SAN": "America/Los_Angeles",
	"LAS": "America/Los_Angeles",
	"ANC": "America/Anchorage",
	"HNL": "Pacific/Honolulu",
	"YYZ": "America/Toronto",
	"YVR": "America/Vancouver",
	"MEX": "America/Mexico_City",
	"GRU": "America/Sao_Paulo",
	"LHR": "Europe/London",
	"CDG": "Europe/Paris",
	"AMS": "Europe/Amsterdam",
	"FRA": "Europe/Berlin",
	"MAD": "Europe/Madrid",
	"FCO": "Europe/Rome",
	"IST": "Europe/Istanbul",
	"DXB": "Asia/Dubai",
	"DOH": "Asia/Qatar",
	"DEL": "Asia/Kolkata",
	"BOM": "Asia/Kolkata",
	"SIN": "Asia/Singapore",
	"HKG": "Asia/Hong_Kong",
	"PEK": "Asia/Shanghai",
	"PVG": "Asia/Shanghai",
	"NRT": "Asia/Tokyo",
	"HND": "Asia/Tokyo",
	"ICN": "Asia/Seoul",
	"SYD": "Australia/Sydney",
	"MEL": "Australia/Melbourne",
	"AKL": "Pacific/Auckland",
	"JNB": "Africa/Johannesburg",
	"CAI": "Africa/Cairo",
}

// Location resolves an airport code to its IANA timezone location.
// Unknown codes and load failures resolve to UTC.
func Location(airportCode string) *time.Location {
	name, ok := airportZones[airportCode]
	if !ok {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FormatDisplay splits a UTC instant into the human date and time
// strings rendered on the boundary, localized to the given airport.
func FormatDisplay(t time.Time, airportCode string) (date, clock string) {
	local := t.In(Location(airportCode))
	return local.Format(DisplayDateLayout), local.Format(DisplayTimeLayout)
}

// Duration recomputes the wall-clock duration of a flight from its
// displayed departure and arrival date/time strings, interpreting each
// in its airport's timezone and diffing in UTC. The result is rendered
// zero-padded as "HHh MMm".
//
// The caller passes in the duration value it is currently displaying
// (typically a naive value computed by the database); when parsing
// fails, the airport is unknown in a way that produces a negative
// span, or anything else goes wrong, that previous value is returned
// untouched. This is a best-effort override, never an error.
func Duration(depAirport, arrAirport, depDate, depTime, arrDate, arrTime, previous string) string {
	dep, err := parseDisplay(depDate, depTime, Location(depAirport))
	if err != nil {
		return previous
	}
	arr, err := parseDisplay(arrDate, arrTime, Location(arrAirport))
	if err != nil {
		return previous
	}
	elapsed := arr.UTC().Sub(dep.UTC())
	if elapsed < 0 {
		return previous
	}
	return FormatElapsed(elapsed)
}

// FormatElapsed renders a non-negative duration as "HHh MMm", e.g.
// "05h 30m". Seconds are truncated.
func FormatElapsed(d time.Duration) string {
	mins := int64(d / time.Minute)
	return fmt.Sprintf("%02dh %02dm", mins/60, mins%60)
}

// parseDisplay combines a display date and clock string into one zoned
// instant.
func parseDisplay(date, clock string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DisplayDateLayout+" "+DisplayTimeLayout, date+" "+clock, loc)
}
