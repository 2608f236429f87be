package domain

import "time"

// Credentials are the request-scoped login inputs.
type Credentials struct {
	Identifier string
	Password   string
}

// Token is an issued bearer credential. Subject is always the account email.
type Token struct {
	Value     string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity is what a verified token proves about its bearer.
type Identity struct {
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
