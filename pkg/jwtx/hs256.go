package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrExpired    = errors.New("jwtx: token expired")
	ErrEmptyKey   = errors.New("jwtx: signing key must not be empty")
)

// HS256 signs and verifies session tokens with a single server-held secret.
// Verification failures are bifurcated: ErrExpired means the session simply
// ran out (prompt re-login), everything else is rejected as invalid.
type HS256 struct {
	key []byte
}

// NewHS256 creates a signer/verifier from the server secret.
func NewHS256(secret string) (*HS256, error) {
	if secret == "" {
		return nil, ErrEmptyKey
	}
	return &HS256{key: []byte(secret)}, nil
}

// Sign turns claims into a signed compact JWT string.
func (h *HS256) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.key)
}

// Verify parses and validates a token, returning its claims.
func (h *HS256) Verify(raw string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSig
		}
		return h.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return Claims{}, ErrMalformed
	default:
		return Claims{}, ErrInvalidSig
	}
}
