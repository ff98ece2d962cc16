package idp

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
)

// idTokenClaims is the subset of ID token claims the user directory needs.
type idTokenClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// OIDCVerifier checks ID tokens against the provider's published signing keys.
// Firebase issues standard OIDC ID tokens from
// https://securetoken.google.com/<project-id>, so the same verifier covers
// Firebase and any other OIDC-compliant provider.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
	timeout  time.Duration
}

// NewOIDCVerifier discovers the provider configuration at issuerURL. The
// audience is the expected "aud" claim (the Firebase project id).
func NewOIDCVerifier(ctx context.Context, issuerURL, audience string, timeout time.Duration) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	return &OIDCVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: audience}),
		timeout:  timeout,
	}, nil
}

func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (Claims, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var raw idTokenClaims
	if err := idToken.Claims(&raw); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return Claims{
		Subject:       idToken.Subject,
		Email:         raw.Email,
		Name:          raw.Name,
		Picture:       raw.Picture,
		EmailVerified: raw.EmailVerified,
	}, nil
}
