package currency

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"pet-care-marketplace/internal/platform/cache"
	"pet-care-marketplace/internal/platform/logger"
	"pet-care-marketplace/internal/platform/metrics"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnsupported  = errors.New("unsupported currency")
)

const ratesCacheKey = "currency:rates:usd"

type Service struct {
	base   string
	source RateSource
	cache  cache.Cache
	ttl    time.Duration
	log    logger.Logger
}

// NewService: base es la moneda por defecto cuando el request no manda "from".
func NewService(base string, source RateSource, c cache.Cache, ttl time.Duration, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if _, ok := Lookup(base); !ok {
		base = DefaultCode
	}
	if source == nil {
		source = StaticRates{}
	}
	return &Service{
		base:   strings.ToUpper(strings.TrimSpace(base)),
		source: source,
		cache:  c,
		ttl:    ttl,
		log:    log,
	}
}

func (s *Service) Base() string { return s.base }

func (s *Service) Supported() []Currency {
	out := make([]Currency, len(Supported))
	copy(out, Supported)
	return out
}

func (s *Service) Convert(ctx context.Context, amount float64, from, to string) (Conversion, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return Conversion{}, fmt.Errorf("%w: amount must be a non-negative number", ErrInvalidInput)
	}
	if strings.TrimSpace(from) == "" {
		from = s.base
	}
	f, ok := Lookup(from)
	if !ok {
		return Conversion{}, fmt.Errorf("%w: %s", ErrUnsupported, from)
	}
	t, ok := Lookup(to)
	if !ok {
		return Conversion{}, fmt.Errorf("%w: %s", ErrUnsupported, to)
	}

	rates, err := s.rates(ctx)
	if err != nil {
		return Conversion{}, err
	}
	rf, rt := rates[f.Code], rates[t.Code]
	if rf <= 0 || rt <= 0 {
		return Conversion{}, fmt.Errorf("%w: no rate for %s/%s", ErrUnsupported, f.Code, t.Code)
	}

	rate := rt / rf
	converted := roundTo(amount*rate, 2)
	if math.IsInf(converted, 0) || math.IsNaN(converted) {
		return Conversion{}, fmt.Errorf("%w: amount is too large to convert", ErrInvalidInput)
	}
	return Conversion{
		Amount:    amount,
		From:      f.Code,
		To:        t.Code,
		Converted: converted,
		Rate:      roundTo(rate, 6),
	}, nil
}

// rates lee la tabla del cache si hay; si el cache falla se usa la fuente directa.
func (s *Service) rates(ctx context.Context) (map[string]float64, error) {
	if s.cache != nil {
		var cached map[string]float64
		err := cache.GetJSON(ctx, s.cache, ratesCacheKey, &cached)
		if err == nil && len(cached) > 0 {
			metrics.ObserveCache("currency", true)
			return cached, nil
		}
		metrics.ObserveCache("currency", false)
	}

	rates, err := s.source.Rates(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, ratesCacheKey, rates, s.ttl); err != nil {
			s.log.Warn("currency rates cache write failed", map[string]any{"error": err})
		}
	}
	return rates, nil
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
