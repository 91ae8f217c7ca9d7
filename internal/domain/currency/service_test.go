package currency

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-care-marketplace/internal/platform/cache"
)

type countingSource struct {
	calls int
}

func (s *countingSource) Rates(ctx context.Context) (map[string]float64, error) {
	s.calls++
	return StaticRates{}.Rates(ctx)
}

func TestConvert_UsesUSDBaseTable(t *testing.T) {
	svc := NewService("USD", nil, nil, 0, nil)

	c, err := svc.Convert(context.Background(), 100, "USD", "EUR")
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if c.Converted != 92 || c.Rate != 0.92 || c.From != "USD" || c.To != "EUR" {
		t.Fatalf("unexpected conversion %+v", c)
	}

	c, err = svc.Convert(context.Background(), 92, "eur", "usd")
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if c.Converted != 100 {
		t.Fatalf("expected 100, got %v", c.Converted)
	}
}

func TestConvert_DefaultsFromToBase(t *testing.T) {
	svc := NewService("EUR", nil, nil, 0, nil)
	c, err := svc.Convert(context.Background(), 10, "", "EUR")
	if err != nil || c.From != "EUR" || c.Converted != 10 {
		t.Fatalf("unexpected %+v err=%v", c, err)
	}
}

func TestConvert_Errors(t *testing.T) {
	svc := NewService("USD", nil, nil, 0, nil)
	ctx := context.Background()

	if _, err := svc.Convert(ctx, 1, "USD", "XXX"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if _, err := svc.Convert(ctx, -1, "USD", "EUR"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	// 1e308 * 850 desborda a +Inf.
	if _, err := svc.Convert(ctx, 1e308, "USD", "ARS"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on overflow, got %v", err)
	}
}

func TestConvert_CachesRates(t *testing.T) {
	src := &countingSource{}
	svc := NewService("USD", src, cache.NewMemory(), time.Hour, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Convert(ctx, 1, "USD", "GBP"); err != nil {
			t.Fatalf("Convert error: %v", err)
		}
	}
	if src.calls != 1 {
		t.Fatalf("expected rates loaded once, got %d", src.calls)
	}
}
