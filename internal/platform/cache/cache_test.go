package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemory_SetAndGet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	if err := c.Set(ctx, "k1", []byte("v1"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, err := c.Get(ctx, "k1")
	if err != nil || string(got) != "v1" {
		t.Fatalf("expected v1, got %q err=%v", got, err)
	}
}

func TestMemory_Expiration(t *testing.T) {
	c := NewMemory()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "k1", []byte("v1"), time.Second)
	now = now.Add(2 * time.Second)

	if _, err := c.Get(ctx, "k1"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss after ttl, got %v", err)
	}
}

func TestMemory_DeletePrefix(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	_ = c.Set(ctx, "analytics:c1:30", []byte("a"), 0)
	_ = c.Set(ctx, "analytics:c1:7", []byte("b"), 0)
	_ = c.Set(ctx, "analytics:c2:30", []byte("c"), 0)

	_ = c.DeletePrefix(ctx, "analytics:c1:")

	if _, err := c.Get(ctx, "analytics:c1:30"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected c1 keys invalidated")
	}
	if _, err := c.Get(ctx, "analytics:c2:30"); err != nil {
		t.Fatalf("expected c2 key to survive, got %v", err)
	}
}

func TestJSONHelpers(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	type payload struct {
		N int `json:"n"`
	}
	if err := SetJSON(ctx, c, "p", payload{N: 7}, time.Minute); err != nil {
		t.Fatalf("SetJSON error: %v", err)
	}
	var out payload
	if err := GetJSON(ctx, c, "p", &out); err != nil || out.N != 7 {
		t.Fatalf("expected 7, got %d err=%v", out.N, err)
	}
	if err := GetJSON(ctx, c, "missing", &out); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}
