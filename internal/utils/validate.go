package utils

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// passwordSpecials are the special characters the signup policy accepts.
const passwordSpecials = "!-)"

// ValidateEmail reports whether the address matches the
// local@domain.tld shape. The address should be trimmed before the
// check; case does not matter.
func ValidateEmail(email string) (bool, string) {
	if !emailPattern.MatchString(email) {
		return false, "Invalid email format"
	}
	return true, "Valid email"
}

// ValidatePassword checks the signup password policy:
// longer than 7 characters, at least one digit, at least one of the
// special characters "!", "-" or ")", and the special character must
// not sit at the beginning or end of the password. It returns whether
// the password is acceptable together with a user-facing message.
func ValidatePassword(password string) (bool, string) {
	if len(password) <= 7 {
		return false, "Password must be longer than 7 characters"
	}
	if !strings.ContainsAny(password, "0123456789") {
		return false, "Password must contain at least 1 digit (0-9)"
	}
	if !strings.ContainsAny(password, passwordSpecials) {
		return false, "Password must contain at least 1 special character (!, -, ))"
	}
	if strings.ContainsAny(password[:1], passwordSpecials) {
		return false, "Special character cannot be at the beginning of password"
	}
	if strings.ContainsAny(password[len(password)-1:], passwordSpecials) {
		return false, "Special character cannot be at the end of password"
	}
	return true, "Valid password"
}
