package utils

import (
	"regexp"
	"strings"
)

const MinPasswordLength = 6

var emailRegex = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateEmail checks the address shape only; it does not look anything up.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "Email is required"}
	}
	if !emailRegex.MatchString(email) {
		return &ValidationError{Field: "email", Message: "Invalid email address"}
	}
	return nil
}

// ValidatePassword enforces the registration minimum length.
func ValidatePassword(password string) error {
	if password == "" {
		return &ValidationError{Field: "password", Message: "Password is required"}
	}
	if len(password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	}
	return nil
}

// NormalizeEmail converts email to lowercase for storage and lookups
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DisplayName is the local part of an email address.
func DisplayName(email string) string {
	email = strings.TrimSpace(email)
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
