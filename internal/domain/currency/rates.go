package currency

import (
	"context"
)

// RateSource entrega la tabla de tasas con base USD.
type RateSource interface {
	Rates(ctx context.Context) (map[string]float64, error)
}

// StaticRates es la tabla configurada en el binario.
type StaticRates struct{}

func (StaticRates) Rates(context.Context) (map[string]float64, error) {
	out := make(map[string]float64, len(usdRates))
	for k, v := range usdRates {
		out[k] = v
	}
	return out, nil
}
