package service

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

// FederatedIdentity is the slice of an external identity we act on.
type FederatedIdentity struct {
	Email         string
	EmailVerified bool
	Name          string
}

// IdentityVerifier validates a raw identity token from an external provider
// and extracts the identity it vouches for.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawToken string) (FederatedIdentity, error)
}

// GoogleVerifier checks Google ID tokens against Google's published keys.
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
	clientID string
}

const googleIssuer = "https://accounts.google.com"

func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("discover google provider: %w", err)
	}
	return &GoogleVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
		clientID: clientID,
	}, nil
}

// ClientID returns the OAuth client id the frontend should use.
func (g *GoogleVerifier) ClientID() string { return g.clientID }

func (g *GoogleVerifier) Verify(ctx context.Context, rawToken string) (FederatedIdentity, error) {
	idToken, err := g.verifier.Verify(ctx, rawToken)
	if err != nil {
		return FederatedIdentity{}, fmt.Errorf("verify google token: %w", err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return FederatedIdentity{}, fmt.Errorf("decode google claims: %w", err)
	}

	return FederatedIdentity{
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
	}, nil
}
