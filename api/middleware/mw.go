package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/reto140/reto140-api/internal/idp"
	"github.com/reto140/reto140-api/models"
)

type contextKey string

// PrincipalKey holds the resolved identity of the authenticated caller.
const PrincipalKey contextKey = "principal"

// UserResolver maps verified claims onto a local user row, creating the row
// on first sight.
type UserResolver interface {
	ResolveUser(ctx context.Context, claims idp.Claims) (*models.User, error)
}

// PrincipalFrom extracts the resolved identity attached by Authenticate.
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(models.Principal)
	return principal, ok
}

// Authenticate verifies the bearer token, provisions the local user record on
// first sight and attaches the resolved identity to the request context. On
// any failure the request terminates here with no database mutation.
func Authenticate(verifier idp.Verifier, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				logger := zerolog.Ctx(r.Context()).With().
					Str("handler", "Authenticate").Logger()

				// Get the Authorization header
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					logger.Debug().Msg("authorization header missing")
					writeAuthError(w, http.StatusUnauthorized, "authorization token required")
					return
				}

				// Check the Authorization header format. The prefix match is
				// case-sensitive and the verifier is never called for a
				// malformed header.
				token := strings.TrimPrefix(authHeader, "Bearer ")
				if token == authHeader || token == "" {
					logger.Debug().Msg("invalid authorization header format")
					writeAuthError(w, http.StatusUnauthorized, "authorization token required")
					return
				}

				claims, err := verifier.Verify(r.Context(), token)
				if err != nil {
					if errors.Is(err, idp.ErrNotConfigured) {
						logger.Error().Err(err).Msg("identity provider unavailable")
						writeAuthError(w, http.StatusServiceUnavailable, "authentication service unavailable")
						return
					}
					// All verification failures collapse into one outcome;
					// provider internals are never surfaced to the client.
					logger.Debug().Err(err).Msg("token verification failed")
					writeAuthError(w, http.StatusUnauthorized, "invalid token")
					return
				}

				user, err := users.ResolveUser(r.Context(), claims)
				if err != nil {
					logger.Error().Err(err).Str("subject", claims.Subject).Msg("failed to resolve user")
					writeAuthError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
					return
				}

				principal := models.Principal{
					ID:            user.ID,
					FirebaseUID:   claims.Subject,
					Email:         user.Email,
					DisplayName:   user.DisplayName,
					EmailVerified: user.EmailVerified,
					User:          user,
				}

				ctx := context.WithValue(r.Context(), PrincipalKey, principal)
				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}

// WithLogger adds a logger to the context and logs request information.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logger := log.With().
				Str("host", r.Host).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Str("remote_addr", r.RemoteAddr).
				Time("timestamp", time.Now()).
				Logger()

			// Add the logger to the context
			ctx := logger.WithContext(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		},
	)
}

func writeAuthError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(models.Response{
		Error:   true,
		Message: message,
		Codigo:  statusCode,
	})
}
