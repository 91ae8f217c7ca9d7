package jwt

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-care-marketplace/internal/ports/auth"
)

func TestVerifier_IssueAndVerify(t *testing.T) {
	v := NewVerifier("secret", "petcare")

	tok, err := v.Issue(auth.Claims{UserID: "comp-1", Email: "a@b.com", Role: auth.RoleCompany}, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	c, err := v.Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if c.UserID != "comp-1" || c.Role != auth.RoleCompany || c.Email != "a@b.com" {
		t.Fatalf("unexpected claims %#v", c)
	}
}

func TestVerifier_RejectsExpired(t *testing.T) {
	v := NewVerifier("secret", "")
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return base }

	tok, err := v.Issue(auth.Claims{UserID: "u1", Role: auth.RolePetOwner}, time.Minute)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	v.now = func() time.Time { return base.Add(time.Hour) }
	if _, err := v.Verify(context.Background(), tok); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifier_RejectsOtherSecretAndIssuer(t *testing.T) {
	a := NewVerifier("secret-a", "petcare")
	b := NewVerifier("secret-b", "petcare")
	c := NewVerifier("secret-a", "other")

	tok, _ := a.Issue(auth.Claims{UserID: "u1", Role: auth.RoleAdmin}, time.Hour)

	if _, err := b.Verify(context.Background(), tok); err == nil {
		t.Fatalf("expected signature error")
	}
	if _, err := c.Verify(context.Background(), tok); err == nil {
		t.Fatalf("expected issuer error")
	}
}

func TestVerifier_EmptyToken(t *testing.T) {
	v := NewVerifier("secret", "")
	if _, err := v.Verify(context.Background(), "  "); !errors.Is(err, ErrTokenEmpty) {
		t.Fatalf("expected ErrTokenEmpty, got %v", err)
	}
}
