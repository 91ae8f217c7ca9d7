package currency

import "strings"

type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type Conversion struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Converted float64 `json:"converted"`
	Rate      float64 `json:"rate"`
}

const DefaultCode = "USD"

// Supported es el catálogo fijo de monedas que acepta la API.
var Supported = []Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$"},
	{Code: "EUR", Name: "Euro", Symbol: "€"},
	{Code: "GBP", Name: "British Pound", Symbol: "£"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "CA$"},
	{Code: "MXN", Name: "Mexican Peso", Symbol: "MX$"},
	{Code: "BRL", Name: "Brazilian Real", Symbol: "R$"},
	{Code: "ARS", Name: "Argentine Peso", Symbol: "AR$"},
	{Code: "COP", Name: "Colombian Peso", Symbol: "COL$"},
	{Code: "CLP", Name: "Chilean Peso", Symbol: "CLP$"},
	{Code: "PEN", Name: "Peruvian Sol", Symbol: "S/"},
}

// usdRates: unidades de cada moneda por 1 USD.
var usdRates = map[string]float64{
	"USD": 1,
	"EUR": 0.92,
	"GBP": 0.79,
	"CAD": 1.36,
	"MXN": 17.05,
	"BRL": 4.97,
	"ARS": 850,
	"COP": 3920,
	"CLP": 945,
	"PEN": 3.72,
}

func Lookup(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range Supported {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}
