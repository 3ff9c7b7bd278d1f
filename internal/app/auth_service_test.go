package app

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arb-dashboard/internal/backend"
	"arb-dashboard/internal/model"
)

const testSecret = "unit-test-secret"

var authNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuth(validator TokenValidator, opts AuthOptions) *AuthService {
	s := NewAuthService(validator, opts)
	s.now = func() time.Time { return authNow }
	return s
}

func TestAuthenticate_SignedToken(t *testing.T) {
	s := newAuth(nil, AuthOptions{JWTSecret: testSecret, AdminEmails: []string{" Admin@X.com "}, Revalidate: time.Minute})
	dc := newTestContext()
	token := signToken(t, testSecret, jwt.MapClaims{
		"email": "Admin@x.com",
		"name":  "Ada",
		"exp":   authNow.Add(time.Hour).Unix(),
	})

	id, err := s.Authenticate(context.Background(), dc, token)
	require.NoError(t, err)
	assert.Equal(t, "admin@x.com", id.Email)
	assert.Equal(t, "Ada", id.Name)
	assert.True(t, id.Admin)
	assert.Equal(t, "admin@x.com", dc.OwnerEmail)
	require.NotNil(t, dc.Auth)
	assert.Equal(t, authNow, dc.Auth.CheckedAt)
}

func TestAuthenticate_Rejections(t *testing.T) {
	s := newAuth(nil, AuthOptions{JWTSecret: testSecret})

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: "  "},
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong secret", token: signToken(t, "other", jwt.MapClaims{"email": "a@x.com"})},
		{name: "expired", token: signToken(t, testSecret, jwt.MapClaims{"email": "a@x.com", "exp": authNow.Add(-time.Minute).Unix()})},
		{name: "no email", token: signToken(t, testSecret, jwt.MapClaims{"sub": "123"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Authenticate(context.Background(), newTestContext(), tt.token)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestAuthenticate_UnverifiedChecksExpiry(t *testing.T) {
	s := newAuth(nil, AuthOptions{})

	fresh := signToken(t, "unknown", jwt.MapClaims{"preferred_username": "b@x.com", "exp": authNow.Add(time.Hour).Unix()})
	id, err := s.Authenticate(context.Background(), newTestContext(), fresh)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", id.Email)
	assert.False(t, id.Admin)

	stale := signToken(t, "unknown", jwt.MapClaims{"email": "b@x.com", "exp": authNow.Add(-time.Hour).Unix()})
	_, err = s.Authenticate(context.Background(), newTestContext(), stale)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticate_BackendValidation(t *testing.T) {
	fb := newFakeBackend()
	fb.tokenInfo = &model.TokenInfo{Valid: boolPtr(true), Email: "c@x.com", Name: "Cy"}
	s := newAuth(fb, AuthOptions{ValidateWithBackend: true, Revalidate: time.Minute})
	dc := newTestContext()

	id, err := s.Authenticate(context.Background(), dc, "opaque-sso-token")
	require.NoError(t, err)
	assert.Equal(t, "c@x.com", id.Email)
	assert.Equal(t, "Cy", id.Name)

	// Within the revalidation window the cached check is reused.
	_, err = s.Authenticate(context.Background(), dc, "opaque-sso-token")
	require.NoError(t, err)
	assert.Equal(t, 1, fb.calls["validate_token"])

	s.now = func() time.Time { return authNow.Add(2 * time.Minute) }
	_, err = s.Authenticate(context.Background(), dc, "opaque-sso-token")
	require.NoError(t, err)
	assert.Equal(t, 2, fb.calls["validate_token"])
}

func TestAuthenticate_BackendRejects(t *testing.T) {
	fb := newFakeBackend()
	fb.tokenInfo = &model.TokenInfo{Valid: boolPtr(false)}
	s := newAuth(fb, AuthOptions{ValidateWithBackend: true})

	_, err := s.Authenticate(context.Background(), newTestContext(), "opaque")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	fb.tokenInfo = nil
	fb.tokenErr = &backend.Error{Op: "validate_token", Kind: backend.KindUnauthorized, StatusCode: 401}
	_, err = s.Authenticate(context.Background(), newTestContext(), "opaque")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticate_BackendDownIsNotUnauthenticated(t *testing.T) {
	fb := newFakeBackend()
	fb.tokenErr = &backend.Error{Op: "validate_token", Kind: backend.KindNetwork}
	s := newAuth(fb, AuthOptions{ValidateWithBackend: true})

	_, err := s.Authenticate(context.Background(), newTestContext(), "opaque")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
	assert.True(t, backend.IsKind(err, backend.KindNetwork))
}

func TestAuthenticate_NewOwnerResetsContext(t *testing.T) {
	s := newAuth(nil, AuthOptions{JWTSecret: testSecret})
	dc := newTestContext()
	dc.OwnerEmail = "old@x.com"
	dc.SessionID = "S1"
	dc.Append(model.Message{Role: model.RoleUser, Text: "private"})
	dc.Admin.Users = model.Opaque(`{}`)

	token := signToken(t, testSecret, jwt.MapClaims{"email": "new@x.com"})
	_, err := s.Authenticate(context.Background(), dc, token)
	require.NoError(t, err)

	assert.Equal(t, "new@x.com", dc.OwnerEmail)
	assert.Empty(t, dc.SessionID)
	assert.Empty(t, dc.Messages)
	assert.Nil(t, dc.Admin.Users)
}

func TestAuthenticate_SameOwnerKeepsContext(t *testing.T) {
	s := newAuth(nil, AuthOptions{JWTSecret: testSecret})
	dc := newTestContext()
	dc.OwnerEmail = "same@x.com"
	dc.SessionID = "S1"

	token := signToken(t, testSecret, jwt.MapClaims{"email": "SAME@x.com"})
	_, err := s.Authenticate(context.Background(), dc, token)
	require.NoError(t, err)
	assert.Equal(t, "S1", dc.SessionID)
}
