package domain

import (
	"database/sql"
	"time"
)

// Account is a login identity (email + password hash) owning one or more Persons.
type Account struct {
	AccountID    string    `db:"account_id"`
	Email        string    `db:"email"` // unique
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`

	// Password/email change flow
	ChangeToken          sql.NullString `db:"change_token"`
	ChangeTokenCreatedAt sql.NullTime   `db:"change_token_created_at"`

	// Push notification device token, empty until registered.
	FcmToken sql.NullString `db:"fcm_token"`
}

// WithFcmToken returns a copy with the device token set.
func (a Account) WithFcmToken(token string) Account {
	a.FcmToken = sql.NullString{String: token, Valid: token != ""}
	return a
}

// WithPasswordHash returns a copy with a new password hash and the
// change-token state cleared.
func (a Account) WithPasswordHash(hash []byte) Account {
	a.PasswordHash = hash
	a.ChangeToken = sql.NullString{}
	a.ChangeTokenCreatedAt = sql.NullTime{}
	return a
}

// LoginToken is a persisted refresh token for an Account.
type LoginToken struct {
	TokenID   string    `db:"token_id"`
	AccountID string    `db:"account_id"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// Expired reports whether the token is no longer usable at now.
func (t LoginToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
