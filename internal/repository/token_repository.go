package repository

import (
	"context"
	"database/sql"

	"github.com/skybook/airline-reservation/internal/model"
)

// TokenRepo stores refresh tokens. Only the SHA-256 hash of a token is
// persisted; validation is done by hash lookup. Tokens are keyed by
// the login email, which works the same for customers and staff.
type TokenRepo struct {
	db *sql.DB
}

// NewTokenRepo returns a new TokenRepo bound to the given database.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// StoreRefresh saves a refresh token hash with its expiry.
func (r *TokenRepo) StoreRefresh(ctx context.Context, t model.RefreshToken) error {
	const q = `INSERT INTO refresh_tokens (email, token_hash, expires_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, t.Email, t.TokenHash, t.ExpiresAt.UTC().Format("2006-01-02 15:04:05"))
	return err
}

// ValidateRefresh returns the email bound to an unexpired, unrevoked
// token hash. Any miss surfaces as sql.ErrNoRows.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (string, error) {
	const q = `SELECT email FROM refresh_tokens
	           WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()`
	var email string
	if err := r.db.QueryRowContext(ctx, q, tokenHash).Scan(&email); err != nil {
		return "", err
	}
	return email, nil
}

// RevokeByHash marks one token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	const q = `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE token_hash = ? AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, tokenHash)
	return err
}

// RevokeAllForEmail revokes every active token for the account,
// logging the user out of all sessions.
func (r *TokenRepo) RevokeAllForEmail(ctx context.Context, email string) error {
	const q = `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE email = ? AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, email)
	return err
}
