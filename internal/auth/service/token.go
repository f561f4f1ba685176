package service

import (
	"fmt"
	"time"

	"github.com/Dorian9120/eventyfast/internal/auth/domain"
	"github.com/Dorian9120/eventyfast/pkg/jwtx"
)

// TokenService mints and checks the session tokens carried by the auth
// cookie.
type TokenService struct {
	Signer *jwtx.HS256
	Now    func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IssueSession returns a signed session token for the account.
func (s *TokenService) IssueSession(a domain.Account) (string, error) {
	claims := jwtx.NewSessionClaims(a.ID, a.Email, a.Role, s.now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// VerifySession parses and validates a raw session token.
func (s *TokenService) VerifySession(raw string) (jwtx.Claims, error) {
	return s.Signer.Verify(raw)
}
