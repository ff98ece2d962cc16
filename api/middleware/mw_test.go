package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reto140/reto140-api/internal/idp"
	"github.com/reto140/reto140-api/models"
)

type fakeVerifier struct {
	claims idp.Claims
	err    error
	called bool
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (idp.Claims, error) {
	f.called = true
	return f.claims, f.err
}

type fakeResolver struct {
	user      *models.User
	err       error
	called    bool
	gotClaims idp.Claims
}

func (f *fakeResolver) ResolveUser(_ context.Context, claims idp.Claims) (*models.User, error) {
	f.called = true
	f.gotClaims = claims
	return f.user, f.err
}

func newGateRequest(t *testing.T, authHeader string) *http.Request {
	req, err := http.NewRequest("GET", "/me", nil)
	require.NoError(t, err)
	if authHeader != "" {
		req.Header.Add("Authorization", authHeader)
	}
	return req
}

func TestAuthenticate_MissingHeader_VerifierNeverCalled(t *testing.T) {
	verifier := &fakeVerifier{}
	resolver := &fakeResolver{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the handler without credentials")
	})

	w := httptest.NewRecorder()
	Authenticate(verifier, resolver)(next).ServeHTTP(w, newGateRequest(t, ""))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, verifier.called)
	assert.False(t, resolver.called)
}

func TestAuthenticate_WrongScheme_VerifierNeverCalled(t *testing.T) {
	for _, header := range []string{"Token abc", "bearer abc", "Bearer", "Bearer "} {
		verifier := &fakeVerifier{}
		resolver := &fakeResolver{}
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("request with header %q must not reach the handler", header)
		})

		w := httptest.NewRecorder()
		Authenticate(verifier, resolver)(next).ServeHTTP(w, newGateRequest(t, header))

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.False(t, verifier.called, "header %q", header)
	}
}

func TestAuthenticate_VerifierFailure_SingleOutcome(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("token has expired at 2026-01-01")}
	resolver := &fakeResolver{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request with an invalid token must not reach the handler")
	})

	w := httptest.NewRecorder()
	Authenticate(verifier, resolver)(next).ServeHTTP(w, newGateRequest(t, "Bearer some-token"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, resolver.called, "no user lookup may happen on verification failure")

	var resp models.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Error)
	assert.Equal(t, "invalid token", resp.Message)
	assert.NotContains(t, w.Body.String(), "expired", "verifier internals must not leak")
}

func TestAuthenticate_ProviderNotConfigured(t *testing.T) {
	resolver := &fakeResolver{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the handler")
	})

	w := httptest.NewRecorder()
	Authenticate(idp.NotConfigured{}, resolver)(next).ServeHTTP(w, newGateRequest(t, "Bearer some-token"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, resolver.called)
}

func TestAuthenticate_ResolverFailure(t *testing.T) {
	verifier := &fakeVerifier{claims: idp.Claims{Subject: "abc"}}
	resolver := &fakeResolver{err: errors.New("connection refused")}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the handler")
	})

	w := httptest.NewRecorder()
	Authenticate(verifier, resolver)(next).ServeHTTP(w, newGateRequest(t, "Bearer some-token"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAuthenticate_Success_AttachesPrincipal(t *testing.T) {
	claims := idp.Claims{
		Subject:       "firebase-uid-1",
		Email:         "runner@example.com",
		Name:          "Runner",
		EmailVerified: true,
	}
	user := &models.User{
		ID:            uuid.New(),
		FirebaseUID:   claims.Subject,
		Email:         claims.Email,
		DisplayName:   claims.Name,
		EmailVerified: true,
	}
	verifier := &fakeVerifier{claims: claims}
	resolver := &fakeResolver{user: user}

	var got models.Principal
	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	Authenticate(verifier, resolver)(next).ServeHTTP(w, newGateRequest(t, "Bearer good-token"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, claims, resolver.gotClaims)
	require.True(t, found, "principal must be attached to the context")
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "firebase-uid-1", got.FirebaseUID)
	assert.Equal(t, "runner@example.com", got.Email)
	require.NotNil(t, got.User)
	assert.Equal(t, user.ID, got.User.ID)
}
