package domain

import "time"

// Roles an account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is the persisted user record.
type Account struct {
	ID           string
	Username     string
	Email        string // stored lowercase, unique
	PasswordHash string // argon2id encoded
	Phone        string // digits only, unique
	DateOfBirth  time.Time
	Role         string

	// Mutation throttling: count of self-service updates inside the current
	// rolling window, and when that window started.
	UpdateCount int
	LastUpdate  *time.Time

	// Two-factor state. TwoFactorVerified may only be true while
	// TwoFactorEnabled is true; disabling clears all three together.
	TOTPSecret        *string // base32 encoded
	TwoFactorEnabled  bool
	TwoFactorVerified bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the sanitized account shape returned to clients. It never
// carries the password hash or TOTP secret.
type Profile struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	TwoFactorEnabled  bool   `json:"isTwoFactorEnabled"`
	TwoFactorVerified bool   `json:"isTwoFactorVerified"`
}

// ProfileOf maps an account to its public shape.
func ProfileOf(a Account) Profile {
	return Profile{
		ID:                a.ID,
		Username:          a.Username,
		Email:             a.Email,
		Role:              a.Role,
		TwoFactorEnabled:  a.TwoFactorEnabled,
		TwoFactorVerified: a.TwoFactorVerified,
	}
}
