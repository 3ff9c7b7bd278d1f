package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"arb-dashboard/internal/backend"
	"arb-dashboard/internal/dashboard"
	"arb-dashboard/internal/model"
	"arb-dashboard/internal/pkg/logger"
)

type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*model.TokenInfo, error)
}

type AuthOptions struct {
	JWTSecret           string
	AdminEmails         []string
	ValidateWithBackend bool
	Revalidate          time.Duration
}

// Identity is the authenticated user behind a request.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Admin bool   `json:"is_admin"`
}

// AuthService trusts the SSO token: it checks the token's own claims and,
// when configured, asks the backend to confirm it.
type AuthService struct {
	validator TokenValidator
	opts      AuthOptions
	admins    map[string]struct{}
	now       func() time.Time
}

func NewAuthService(validator TokenValidator, opts AuthOptions) *AuthService {
	admins := make(map[string]struct{}, len(opts.AdminEmails))
	for _, email := range opts.AdminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			admins[email] = struct{}{}
		}
	}
	return &AuthService{
		validator: validator,
		opts:      opts,
		admins:    admins,
		now:       time.Now,
	}
}

func (s *AuthService) IsAdmin(email string) bool {
	_, ok := s.admins[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// Authenticate validates token for the browser context dc. A token for a
// different user than the one the context belongs to resets the context.
func (s *AuthService) Authenticate(ctx context.Context, dc *dashboard.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.parseClaims(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	hash := tokenHash(token)
	now := s.now()
	if a := dc.Auth; a != nil && a.TokenHash == hash && now.Sub(a.CheckedAt) < s.opts.Revalidate {
		return s.identity(a.Email, a.Name), nil
	}

	email, name := claimString(claims, "email", "preferred_username", "upn"), claimString(claims, "name")
	if s.opts.ValidateWithBackend {
		info, err := s.validator.ValidateToken(ctx, token)
		if err != nil {
			if backend.IsKind(err, backend.KindUnauthorized) || backend.IsKind(err, backend.KindStatus) {
				return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
			}
			return nil, err
		}
		if info.Valid != nil && !*info.Valid {
			return nil, fmt.Errorf("%w: token rejected by backend", ErrUnauthenticated)
		}
		if info.Email != "" {
			email = info.Email
		}
		if info.Name != "" {
			name = info.Name
		}
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: token carries no user email", ErrUnauthenticated)
	}

	if dc.OwnerEmail != "" && dc.OwnerEmail != email {
		logger.Infof("dashboard context %s changed owner, resetting", dc.ID)
		dc.Reset()
	}
	dc.OwnerEmail = email
	dc.Auth = &dashboard.AuthCheck{TokenHash: hash, Email: email, Name: name, CheckedAt: now}

	return s.identity(email, name), nil
}

func (s *AuthService) identity(email, name string) *Identity {
	return &Identity{Email: email, Name: name, Admin: s.IsAdmin(email)}
}

// parseClaims verifies HS256 tokens when a secret is configured. Without one
// the claims are only read; opaque tokens are left to the backend.
func (s *AuthService) parseClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if s.opts.JWTSecret != "" {
		_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(s.opts.JWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
		if err != nil {
			return nil, err
		}
		return claims, nil
	}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		if !s.opts.ValidateWithBackend {
			return nil, err
		}
		return jwt.MapClaims{}, nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, err
	}
	if exp != nil && !s.now().Before(exp.Time) {
		return nil, errors.New("token is expired")
	}
	return claims, nil
}

func claimString(claims jwt.MapClaims, names ...string) string {
	for _, name := range names {
		if v, ok := claims[name].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func tokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
