package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func parseClaims(t *testing.T, tokenStr string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestNewAccessTokenCustomerClaims(t *testing.T) {
	id := Identity{Email: "alice@example.com", Role: RoleCustomer, Name: "Alice"}

	at, err := NewAccessToken(testSecret, id, 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, 5*time.Second)

	claims := parseClaims(t, at.Token)
	assert.Equal(t, "alice@example.com", claims["sub"])
	assert.Equal(t, RoleCustomer, claims["role"])
	assert.Equal(t, "Alice", claims["name"])

	// Customer tokens never carry staff scoping claims.
	_, hasAirline := claims["airline"]
	_, hasUsername := claims["username"]
	assert.False(t, hasAirline)
	assert.False(t, hasUsername)
}

func TestNewAccessTokenStaffClaims(t *testing.T) {
	id := Identity{
		Email:    "bob@jetgo.example",
		Role:     RoleStaff,
		Name:     "Bob",
		Airline:  "JetGo",
		Username: "bob",
	}

	at, err := NewAccessToken(testSecret, id, 15)
	require.NoError(t, err)

	claims := parseClaims(t, at.Token)
	assert.Equal(t, RoleStaff, claims["role"])
	assert.Equal(t, "JetGo", claims["airline"])
	assert.Equal(t, "bob", claims["username"])
}

func TestNewAccessTokenRejectsWrongSecret(t *testing.T) {
	at, err := NewAccessToken(testSecret, Identity{Email: "a@b.c", Role: RoleCustomer}, 15)
	require.NoError(t, err)

	_, err = jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}

func TestNewRefreshToken(t *testing.T) {
	rt, err := NewRefreshToken(30)
	require.NoError(t, err)
	assert.Len(t, rt.Raw, 96)
	assert.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), rt.Exp, 5*time.Second)

	other, err := NewRefreshToken(30)
	require.NoError(t, err)
	assert.NotEqual(t, rt.Raw, other.Raw)
}

func TestHashRefreshRaw(t *testing.T) {
	h := HashRefreshRaw("some-token")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashRefreshRaw("some-token"))
	assert.NotEqual(t, h, HashRefreshRaw("other-token"))
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "Sup3rSecret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
