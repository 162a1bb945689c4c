package model

import "time"

// RefreshToken models an entry in the `refresh_tokens` table. Tokens
// are bound to the login email (customer or staff); only the SHA-256
// hash of the token value is persisted.
//
// Fields:
//  ID        – primary key identifier.
//  Email     – login email the token belongs to.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	Email     string     // refresh_tokens.email
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
