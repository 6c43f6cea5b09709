package types

import (
	"database/sql"
	"time"
)

// Account represents a registered identity in the system.
// It contains credentials, activation state, and audit metadata.
type Account struct {
	// ID is the unique identifier of the account.
	ID int `json:"id" db:"id"`

	// Username is the display name chosen at registration.
	Username string `json:"username" db:"username"`

	// Email is the account's email address. Unique across all accounts.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the account's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Inactive is true until the account proves control of its email
	// address by redeeming the activation token. Always true at creation.
	Inactive bool `json:"-" db:"inactive"`

	// ActivationToken is the single-use token mailed at registration.
	// It is set while Inactive is true and cleared exactly when
	// activation succeeds.
	ActivationToken sql.NullString `json:"-" db:"activation_token"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"-" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}
