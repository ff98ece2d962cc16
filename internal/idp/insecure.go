package idp

import (
	"context"

	"github.com/golang-jwt/jwt"
)

type unsignedClaims struct {
	jwt.StandardClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Insecure decodes token claims without checking the signature. It exists for
// local development against identity emulators only and must never be enabled
// in production.
type Insecure struct{}

func (Insecure) Verify(_ context.Context, rawToken string) (Claims, error) {
	claims := unsignedClaims{}

	// A nil key function always fails validation; only reject tokens that did
	// not decode at all.
	if t, err := jwt.ParseWithClaims(rawToken, &claims, nil); err != nil {
		if _, ok := err.(*jwt.ValidationError); !ok {
			return Claims{}, ErrInvalidToken
		}
		if t == nil {
			return Claims{}, ErrInvalidToken
		}
	}

	if claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		Subject:       claims.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		Picture:       claims.Picture,
		EmailVerified: claims.EmailVerified,
	}, nil
}
