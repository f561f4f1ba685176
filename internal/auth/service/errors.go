package service

import "errors"

// Sentinel errors shared across the auth services. The HTTP layer maps them
// to status codes with errors.Is, so services should wrap rather than
// replace them.
var (
	// Login.
	ErrMissingCredentials = errors.New("email and password are required")
	ErrUnknownEmail       = errors.New("invalid email")
	ErrWrongPassword      = errors.New("invalid password")
	ErrLockedOut          = errors.New("too many failed attempts")
	ErrNotRegistered      = errors.New("no account exists for this email")

	// Two-factor.
	ErrIncorrectCode       = errors.New("incorrect one-time code")
	ErrTwoFactorNotEnabled = errors.New("two-factor authentication is not enabled")

	// Verification codes (registration / password reset).
	ErrCodeNotFound = errors.New("no verification code pending")
	ErrCodeMismatch = errors.New("verification code does not match")
	ErrCodeExpired  = errors.New("verification code has expired")

	// Registration field validation.
	ErrInvalidUsername = errors.New("username must be between 3 and 15 characters")
	ErrInvalidEmail    = errors.New("email address is not valid")
	ErrInvalidPassword = errors.New("password must be at least 6 characters with a letter and a digit")
	ErrInvalidPhone    = errors.New("phone number must be 10 to 15 digits")
	ErrTooYoung        = errors.New("you must be at least 16 years old")

	// Uniqueness.
	ErrEmailTaken    = errors.New("email is already registered")
	ErrUsernameTaken = errors.New("username is already taken")
	ErrPhoneTaken    = errors.New("phone number is already registered")

	// Self-service mutation throttle.
	ErrRateLimited = errors.New("too many account changes, try again later")

	// Authorization.
	ErrForbidden = errors.New("not allowed to act on this resource")
)
