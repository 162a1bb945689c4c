package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPassword(t *testing.T) {
	cases := []struct {
		name string
		pw   string
		ok   bool
	}{
		{"mixed case with digit", "Passw0rd", true},
		{"all caps with digit", "PASSWORD1234", true},
		{"no uppercase", "password1", false},
		{"no digit", "Password", false},
		{"too short", "Pa55", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := Password(tc.pw)
			assert.Equal(t, tc.ok, ok)
			if !tc.ok {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	ok, _ := Email("alice@example.com")
	assert.True(t, ok)

	for _, bad := range []string{"alice", "alice@", "@example.com", "a b@example.com", "alice@example"} {
		ok, reason := Email(bad)
		assert.False(t, ok, bad)
		assert.NotEmpty(t, reason)
	}
}

func TestPhone(t *testing.T) {
	ok, _ := Phone("+1 (212) 555-0100")
	assert.True(t, ok)

	ok, _ = Phone("12345")
	assert.False(t, ok, "fewer than 7 digits")

	ok, _ = Phone("123456789012345678901")
	assert.False(t, ok, "raw length over 20")
}

func TestPassportNumber(t *testing.T) {
	ok, _ := PassportNumber("X1234567")
	assert.True(t, ok)

	ok, _ = PassportNumber("ab1")
	assert.False(t, ok, "too short")

	ok, _ = PassportNumber("AB-123456")
	assert.False(t, ok, "non-alphanumeric")
}

func TestBirthBeforeExpiration(t *testing.T) {
	ok, _ := BirthBeforeExpiration("1990-04-12", "2030-04-12")
	assert.True(t, ok)

	ok, _ = BirthBeforeExpiration("2030-04-12", "1990-04-12")
	assert.False(t, ok)

	ok, _ = BirthBeforeExpiration("1990-04-12", "1990-04-12")
	assert.False(t, ok, "equal dates fail the strict check")

	ok, reason := BirthBeforeExpiration("12/04/1990", "2030-04-12")
	assert.False(t, ok)
	assert.Contains(t, reason, "YYYY-MM-DD")
}

func TestReturnNotBeforeDeparture(t *testing.T) {
	ok, _ := ReturnNotBeforeDeparture("2026-09-01", "2026-09-01")
	assert.True(t, ok, "same-day return is allowed")

	ok, _ = ReturnNotBeforeDeparture("2026-09-01", "2026-09-08")
	assert.True(t, ok)

	ok, _ = ReturnNotBeforeDeparture("2026-09-08", "2026-09-01")
	assert.False(t, ok)
}

func TestArrivalAfterDeparture(t *testing.T) {
	dep := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	ok, _ := ArrivalAfterDeparture(dep, dep.Add(2*time.Hour))
	assert.True(t, ok)

	ok, _ = ArrivalAfterDeparture(dep, dep)
	assert.False(t, ok, "equal instants fail the strict check")

	ok, _ = ArrivalAfterDeparture(dep, dep.Add(-time.Hour))
	assert.False(t, ok)
}

func TestCardNumberAndCVC(t *testing.T) {
	ok, _ := CardNumber("4111111111111111")
	assert.True(t, ok)

	ok, _ = CardNumber("411111111111")
	assert.False(t, ok, "12 digits is too short")

	ok, _ = CardNumber("4111-1111-1111-1111")
	assert.False(t, ok, "separators are not accepted")

	ok, _ = CVC("123")
	assert.True(t, ok)
	ok, _ = CVC("1234")
	assert.True(t, ok)
	ok, _ = CVC("12")
	assert.False(t, ok)
	ok, _ = CVC("12a")
	assert.False(t, ok)
}

func TestCardExpiry(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	ok, _ := CardExpiry("06/25", now)
	assert.True(t, ok, "expiring this month is still valid")

	ok, _ = CardExpiry("12/25", now)
	assert.True(t, ok)

	ok, reason := CardExpiry("05/25", now)
	assert.False(t, ok)
	assert.Equal(t, "card is expired", reason)

	for _, bad := range []string{"6/25", "2025/06", "13/25", "00/25", "0625", "ab/cd"} {
		ok, _ := CardExpiry(bad, now)
		assert.False(t, ok, bad)
	}
}

func TestRequired(t *testing.T) {
	ok, _ := Required([][2]string{{"email", "a@b.com"}, {"name", "Alice"}})
	assert.True(t, ok)

	ok, reason := Required([][2]string{{"email", "a@b.com"}, {"name", "   "}})
	assert.False(t, ok)
	assert.Equal(t, "name is required", reason)
}
