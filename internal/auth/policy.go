package auth

import "unicode/utf8"

const (
	// MinPasswordLength is the minimum number of characters in a password.
	MinPasswordLength = 8
	// PasswordSpecialChars lists the accepted special characters.
	PasswordSpecialChars = "#?!@$%^&*-"

	passwordPolicyMessage = "password must be at least 8 characters and contain a lowercase letter, an uppercase letter, a digit and a special character (#?!@$%^&*-)"
)

// PolicyError reports a password that does not satisfy the policy.
type PolicyError struct {
	Message string
}

func (e *PolicyError) Error() string {
	return e.Message
}

// PasswordPolicy validates new passwords on registration and password
// change. It is never applied to hashes already stored.
type PasswordPolicy struct{}

// IsValid reports whether password has at least MinPasswordLength characters
// and contains a digit, a lowercase letter, an uppercase letter and one of
// PasswordSpecialChars, in any position.
func (PasswordPolicy) IsValid(password string) bool {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return false
	}

	var hasDigit, hasLower, hasUpper, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case isSpecial(r):
			hasSpecial = true
		}
	}
	return hasDigit && hasLower && hasUpper && hasSpecial
}

// ValidationMessage describes the full requirement.
func (PasswordPolicy) ValidationMessage() string {
	return passwordPolicyMessage
}

// Validate returns a *PolicyError when password is not acceptable.
func (p PasswordPolicy) Validate(password string) error {
	if !p.IsValid(password) {
		return &PolicyError{Message: p.ValidationMessage()}
	}
	return nil
}

func isSpecial(r rune) bool {
	for _, c := range PasswordSpecialChars {
		if r == c {
			return true
		}
	}
	return false
}
