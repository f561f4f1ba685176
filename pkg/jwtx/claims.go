package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the fixed lifetime of a session token. There is no refresh
// mechanism; users re-authenticate after expiry.
const SessionTTL = 3 * time.Hour

// Claims are the session-token claims: exactly the account id (sub), email
// and role, plus the registered time claims.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
	Role  string `json:"role"`
}

// NewSessionClaims builds claims for an authenticated account, expiring
// SessionTTL after now.
func NewSessionClaims(accountID, email, role string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
		Email: email,
		Role:  role,
	}
}
