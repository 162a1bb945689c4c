package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Location("XXX"))
	assert.Equal(t, time.UTC, Location(""))

	jfk := Location("JFK")
	assert.Equal(t, "America/New_York", jfk.String())
}

func TestFormatDisplayLocalizes(t *testing.T) {
	// 2026-07-01 14:30 UTC is 10:30 AM in New York (EDT).
	utc := time.Date(2026, 7, 1, 14, 30, 0, 0, time.UTC)

	date, clock := FormatDisplay(utc, "JFK")
	assert.Equal(t, "July 1, 2026", date)
	assert.Equal(t, "10:30 AM", clock)

	date, clock = FormatDisplay(utc, "XXX")
	assert.Equal(t, "July 1, 2026", date)
	assert.Equal(t, "2:30 PM", clock)
}

func TestDurationAcrossTimezones(t *testing.T) {
	// JFK 8:00 AM EDT departure, LAX 11:00 AM PDT arrival on the same
	// day is a six-hour flight despite the three-hour clock difference.
	got := Duration("JFK", "LAX",
		"July 1, 2026", "8:00 AM",
		"July 1, 2026", "11:00 AM",
		"03h 00m")
	assert.Equal(t, "06h 00m", got)
}

func TestDurationOvernight(t *testing.T) {
	got := Duration("LHR", "SIN",
		"July 1, 2026", "9:30 PM",
		"July 2, 2026", "5:15 PM",
		"")
	// 21:30 London (UTC+1) to 17:15 Singapore (UTC+8) next day.
	assert.Equal(t, "12h 45m", got)
}

func TestDurationKeepsPreviousOnBadInput(t *testing.T) {
	prev := "02h 15m"

	got := Duration("JFK", "LAX", "not a date", "8:00 AM", "July 1, 2026", "11:00 AM", prev)
	assert.Equal(t, prev, got, "unparseable departure keeps the previous value")

	got = Duration("JFK", "LAX", "July 1, 2026", "8:00 AM", "July 1, 2026", "25:00 XM", prev)
	assert.Equal(t, prev, got, "unparseable arrival keeps the previous value")

	// Arrival before departure yields a negative span.
	got = Duration("JFK", "JFK", "July 2, 2026", "8:00 AM", "July 1, 2026", "8:00 AM", prev)
	assert.Equal(t, prev, got)
}

func TestDurationUnknownAirportsUseUTC(t *testing.T) {
	// Both airports unknown: plain wall-clock difference.
	got := Duration("AAA", "BBB",
		"July 1, 2026", "8:00 AM",
		"July 1, 2026", "9:45 AM",
		"")
	assert.Equal(t, "01h 45m", got)
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "05h 30m", FormatElapsed(5*time.Hour+30*time.Minute))
	assert.Equal(t, "00h 05m", FormatElapsed(5*time.Minute+45*time.Second))
	assert.Equal(t, "27h 00m", FormatElapsed(27*time.Hour))
	assert.Equal(t, "00h 00m", FormatElapsed(0))
}

func TestMachineAndDisplayLayoutsRoundTrip(t *testing.T) {
	key := "2026-07-01 14:30:00"
	ts, err := time.Parse(MachineLayout, key)
	assert.NoError(t, err)
	assert.Equal(t, key, ts.Format(MachineLayout))

	date, clock := FormatDisplay(ts, "XXX")
	back, err := time.Parse(DisplayDateLayout+" "+DisplayTimeLayout, date+" "+clock)
	assert.NoError(t, err)
	assert.Equal(t, ts.Truncate(time.Minute), back)
}
