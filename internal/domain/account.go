package domain

import "time"

// AccountStatus represents lifecycle states for an account.
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	// AccountStatusDisabled is set by administrators outside this service.
	AccountStatusDisabled AccountStatus = "DISABLED"
)

// Account is a registered blog member. Email is the canonical identity;
// Username is an optional, unique handle.
type Account struct {
	ID           string
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string `json:"-"`
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasUsername reports whether the account carries a handle.
func (a *Account) HasUsername() bool {
	return a != nil && a.Username != ""
}

// IsActive reports whether the account may log in.
func (a *Account) IsActive() bool {
	return a != nil && a.Status == AccountStatusActive
}
