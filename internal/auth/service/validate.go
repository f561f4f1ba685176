package service

import (
	"regexp"
	"time"
	"unicode"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\d{10,15}$`)
)

const (
	usernameMinLen = 3
	usernameMaxLen = 15
	passwordMinLen = 6
	minimumAge     = 16
)

// validateUsername enforces the display-name length band.
func validateUsername(username string) error {
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return ErrInvalidUsername
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// validatePassword requires a minimum length plus at least one letter and
// one digit.
func validatePassword(password string) error {
	if len(password) < passwordMinLen {
		return ErrInvalidPassword
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrInvalidPassword
	}
	return nil
}

func validatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

// validateAge checks the subject is at least minimumAge years old at "now",
// comparing against the actual anniversary rather than a day count.
func validateAge(dateOfBirth, now time.Time) error {
	anniversary := dateOfBirth.AddDate(minimumAge, 0, 0)
	if now.Before(anniversary) {
		return ErrTooYoung
	}
	return nil
}
