package currency

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"pet-care-marketplace/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/currency", func(cr chi.Router) {
		cr.Get("/supported", supportedHandler(svc))
		cr.Get("/convert", convertHandler(svc))
	})
}

// supportedHandler godoc
// @Summary Monedas soportadas
// @Tags currency
// @Produce json
// @Success 200 {object} httpjson.Envelope
// @Router /currency/supported [get]
func supportedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httpjson.OK(w, http.StatusOK, svc.Supported())
	}
}

// convertHandler godoc
// @Summary Convertir un monto
// @Tags currency
// @Produce json
// @Param amount query number true "Monto"
// @Param from query string false "Moneda origen (default: base)"
// @Param to query string true "Moneda destino"
// @Success 200 {object} httpjson.Envelope
// @Failure 400 {object} httpjson.ErrorBody
// @Router /currency/convert [get]
func convertHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		amount, err := strconv.ParseFloat(strings.TrimSpace(q.Get("amount")), 64)
		if err != nil {
			httpjson.BadRequest(w, "amount must be a number")
			return
		}
		to := strings.TrimSpace(q.Get("to"))
		if to == "" {
			httpjson.BadRequest(w, "to is required")
			return
		}

		c, err := svc.Convert(r.Context(), amount, q.Get("from"), to)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnsupported):
				httpjson.BadRequest(w, err.Error())
			default:
				httpjson.InternalError(w, r, svc.log, "currency.convert", err)
			}
			return
		}
		httpjson.OK(w, http.StatusOK, c)
	}
}
