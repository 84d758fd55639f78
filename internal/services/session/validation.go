package session

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	phoneSeparators = regexp.MustCompile(`[\s()-]`)
)

const (
	minNameLength     = 2
	minPasswordLength = 6
	minLocationLength = 2
)

// SignupRequest holds the fields of the signup form
type SignupRequest struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Phone           string
	Location        string
}

// Validate checks the form in a fixed order and returns the first failure
func (r SignupRequest) Validate() *ValidationError {
	if utf8.RuneCountInString(strings.TrimSpace(r.Name)) < minNameLength {
		return &ValidationError{Field: "name", Message: "Name must be at least 2 characters long"}
	}
	if !ValidEmail(r.Email) {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	if utf8.RuneCountInString(r.Password) < minPasswordLength {
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters long"}
	}
	if r.Password != r.ConfirmPassword {
		return &ValidationError{Field: "confirmPassword", Message: "Passwords do not match"}
	}
	if !ValidPhone(r.Phone) {
		return &ValidationError{Field: "phone", Message: "Please enter a valid phone number"}
	}
	if utf8.RuneCountInString(strings.TrimSpace(r.Location)) < minLocationLength {
		return &ValidationError{Field: "location", Message: "Location must be at least 2 characters long"}
	}
	return nil
}

// ValidEmail reports whether email looks like local@domain.tld
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone accepts E.164-like numbers once spaces, parentheses and dashes
// are stripped
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phoneSeparators.ReplaceAllString(phone, ""))
}
