// Package idp abstracts the external identity provider that issues the bearer
// tokens accepted by the API.
package idp

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned on every call when no identity provider has
// been configured.
var ErrNotConfigured = errors.New("identity provider not configured")

// ErrInvalidToken covers every verification failure. Callers never see which
// subtype of failure occurred.
var ErrInvalidToken = errors.New("invalid identity token")

// Claims is the verified attribute set the provider vouches for.
type Claims struct {
	Subject       string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}

// Verifier validates a raw bearer token and returns the claims it carries.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (Claims, error)
}

// NotConfigured deterministically rejects every token. It stands in for the
// real provider when the deployment has no identity configuration, so the rest
// of the API keeps serving a well-defined failure instead of panicking.
type NotConfigured struct{}

func (NotConfigured) Verify(context.Context, string) (Claims, error) {
	return Claims{}, ErrNotConfigured
}
