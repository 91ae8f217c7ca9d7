package currency

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"sync"

	"pet-care-marketplace/internal/platform/httpclient"
	"pet-care-marketplace/internal/platform/logger"
)

// Converter es el lado cliente: conoce las monedas soportadas y la elegida,
// y convierte precios contra /api/currency/convert sin bloquear nunca al llamador.
type Converter struct {
	client *httpclient.Client
	prefs  PreferenceStore
	log    logger.Logger

	mu        sync.RWMutex
	supported []Currency
	selected  Currency
}

// NewConverter carga las monedas del servidor (si falla, usa el catálogo local)
// y la preferencia guardada (si no hay o es inválida, USD).
func NewConverter(ctx context.Context, client *httpclient.Client, prefs PreferenceStore, log logger.Logger) *Converter {
	if log == nil {
		log = logger.Nop()
	}
	c := &Converter{client: client, prefs: prefs, log: log}

	var list []Currency
	if err := client.GetData(ctx, "/api/currency/supported", nil, &list); err != nil || len(list) == 0 {
		log.Warn("currency list unavailable, using built-in list", map[string]any{"error": err})
		list = append([]Currency(nil), Supported...)
	}
	c.supported = list

	c.selected = Currency{Code: DefaultCode, Name: "US Dollar", Symbol: "$"}
	if cur, ok := c.find(DefaultCode); ok {
		c.selected = cur
	}
	if prefs != nil {
		code, err := prefs.Load()
		if err != nil {
			log.Warn("currency preference unreadable", map[string]any{"error": err})
		}
		if cur, ok := c.find(code); ok {
			c.selected = cur
		}
	}
	return c
}

func (c *Converter) find(code string) (Currency, bool) {
	for _, cur := range c.supported {
		if cur.Code == code {
			return cur, true
		}
	}
	return Currency{}, false
}

func (c *Converter) Supported() []Currency {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Currency(nil), c.supported...)
}

func (c *Converter) Selected() Currency {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// Select persiste la moneda y recién entonces la deja elegida.
func (c *Converter) Select(code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.find(code)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupported, code)
	}
	if c.prefs != nil {
		if err := c.prefs.Save(cur.Code); err != nil {
			return err
		}
	}
	c.selected = cur
	return nil
}

// ConvertPrice convierte amount desde from a la moneda elegida.
// Ante cualquier falla devuelve amount sin convertir.
func (c *Converter) ConvertPrice(ctx context.Context, amount float64, from string) float64 {
	to := c.Selected().Code
	if from == "" || from == to || c.client == nil {
		return amount
	}

	q := url.Values{}
	q.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	q.Set("from", from)
	q.Set("to", to)

	var res Conversion
	if err := c.client.GetData(ctx, "/api/currency/convert", q, &res); err != nil {
		c.log.Debug("currency conversion failed", map[string]any{"from": from, "to": to, "error": err})
		return amount
	}
	if math.IsNaN(res.Converted) || math.IsInf(res.Converted, 0) {
		return amount
	}
	return res.Converted
}

// Format muestra el monto con el símbolo de la moneda elegida.
func (c *Converter) Format(amount float64) string {
	sym := c.Selected().Symbol
	if amount < 0 {
		return "-" + sym + strconv.FormatFloat(-amount, 'f', 2, 64)
	}
	return sym + strconv.FormatFloat(amount, 'f', 2, 64)
}
