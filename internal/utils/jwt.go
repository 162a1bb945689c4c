package utils // token creation and hashing helpers shared by auth handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session roles carried in the JWT "role" claim. A session is either a
// customer or an airline staff member; anonymous requests simply carry
// no token.
const (
	RoleCustomer = "CUSTOMER"
	RoleStaff    = "STAFF"
)

// Identity is the authenticated principal encoded into access tokens.
// Airline and Username are set only for staff; for customers they stay
// empty, which is what scopes staff-only operations to one airline.
type Identity struct {
	Email    string // login email, the JWT subject
	Role     string // RoleCustomer or RoleStaff
	Name     string // display name
	Airline  string // staff only: airline the account belongs to
	Username string // staff only: staff username
}

// AccessToken is a signed HS256 JWT together with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// RefreshToken is a long-lived random token. Raw goes back to the
// client; the database stores only its SHA-256 hash.
type RefreshToken struct {
	Raw string
	Exp time.Time
}

// NewAccessToken signs an HS256 JWT carrying the identity. Claims:
// sub (email), role, name, and for staff also airline and username,
// plus exp/iat.
func NewAccessToken(secret string, id Identity, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  id.Email,
		"role": id.Role,
		"name": id.Name,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	if id.Role == RoleStaff {
		claims["airline"] = id.Airline
		claims["username"] = id.Username
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken returns a cryptographically random token valid for
// ttlDays days.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
	raw, err := randomHex(48) // 48 bytes -> 96 hex chars
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// HashRefreshRaw returns the SHA-256 hex digest of a raw refresh
// token. Only the hash is ever persisted.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
