// Package jwt implementa auth.AuthVerifier con tokens HS256.
// La emisión de tokens real vive fuera de este servicio; Issue existe para
// herramientas internas y tests.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-care-marketplace/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenEmpty     = errors.New("token is empty")
	ErrNotConfigured  = errors.New("jwt verifier not configured")
	ErrMissingSubject = errors.New("token missing user id")
)

type tokenClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	gojwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer, now: time.Now}
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(v.issuer))
	}

	var tc tokenClaims
	parsed, err := gojwt.ParseWithClaims(token, &tc, func(*gojwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	uid := strings.TrimSpace(tc.UserID)
	if uid == "" {
		uid = strings.TrimSpace(tc.Subject)
	}
	if uid == "" {
		return auth.Claims{}, ErrMissingSubject
	}
	role, ok := auth.ParseRole(tc.Role)
	if !ok {
		return auth.Claims{}, fmt.Errorf("%w: unknown role %q", auth.ErrInvalidToken, tc.Role)
	}

	return auth.Claims{UserID: uid, Email: strings.TrimSpace(tc.Email), Role: role}, nil
}

// Issue firma un token para los claims dados.
func (v *Verifier) Issue(c auth.Claims, ttl time.Duration) (string, error) {
	if v == nil || len(v.secret) == 0 {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(c.UserID) == "" {
		return "", ErrMissingSubject
	}
	now := v.now()
	tc := tokenClaims{
		UserID: c.UserID,
		Email:  c.Email,
		Role:   string(c.Role),
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   c.UserID,
			Issuer:    v.issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, tc).SignedString(v.secret)
}
