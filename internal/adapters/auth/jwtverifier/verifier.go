package jwtverifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vet-backoffice/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotConfigured = errors.New("jwt verifier not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

// Verifier valida tokens HS256 emitidos por el IdP de la clínica.
type Verifier struct {
	secret []byte
	issuer string
}

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

func New(secret, issuer string) (*Verifier, error) {
	if len(strings.TrimSpace(secret)) < 32 {
		return nil, fmt.Errorf("%w: secret must be at least 32 characters", ErrNotConfigured)
	}
	return &Verifier{secret: []byte(secret), issuer: issuer}, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || strings.TrimSpace(c.Subject) == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	role := auth.Role(c.Role)
	switch role {
	case auth.RoleStaff, auth.RoleAdmin, auth.RoleClient:
	case "":
		role = auth.RoleClient
	default:
		return auth.Claims{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, c.Role)
	}

	return auth.Claims{UserID: c.Subject, Email: c.Email, Role: role}, nil
}

// Issue firma un token; lo usan los tests y el entorno de desarrollo.
func (v *Verifier) Issue(c auth.Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: c.Email,
		Role:  string(c.Role),
	})
	signed, err := tok.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

var _ auth.AuthVerifier = (*Verifier)(nil)
