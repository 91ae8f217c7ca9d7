package analytics

import (
	"errors"
	"net/http"

	"pet-care-marketplace/internal/middleware"
	"pet-care-marketplace/internal/platform/httpjson"
	"pet-care-marketplace/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /analytics/* dentro de /api/companies (rol company).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/analytics", func(ar chi.Router) {
		ar.Use(middleware.RequireRole(auth.RoleCompany))
		ar.Get("/overview", overviewHandler(svc))
		ar.Get("/stats", statsHandler(svc))
		ar.Get("/dashboard-data", dashboardHandler(svc))
	})
}

func daysParam(r *http.Request) int {
	return httpjson.IntQuery(r, "days", DefaultDays, 1, MaxDays)
}

// overviewHandler godoc
// @Summary Resumen de métricas de la empresa
// @Description Reservas, ingresos (sólo completed), rating promedio y clientes nuevos/recurrentes en la ventana.
// @Tags analytics
// @Produce json
// @Param days query int false "Ventana en días (default 30, 1..365)"
// @Success 200 {object} httpjson.Envelope
// @Failure 401 {object} httpjson.ErrorBody
// @Failure 403 {object} httpjson.ErrorBody
// @Router /companies/analytics/overview [get]
func overviewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		ov, err := svc.Overview(r.Context(), claims.UserID, daysParam(r))
		if err != nil {
			writeError(w, r, svc, "analytics.overview", err)
			return
		}
		httpjson.OK(w, http.StatusOK, ov)
	}
}

// statsHandler godoc
// @Summary Estadísticas de la ventana
// @Tags analytics
// @Produce json
// @Param days query int false "Ventana en días (default 30, 1..365)"
// @Success 200 {object} httpjson.Envelope
// @Router /companies/analytics/stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		st, err := svc.Stats(r.Context(), claims.UserID, daysParam(r))
		if err != nil {
			writeError(w, r, svc, "analytics.stats", err)
			return
		}
		httpjson.OK(w, http.StatusOK, st)
	}
}

func dashboardHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		d, err := svc.DashboardData(r.Context(), claims.UserID, daysParam(r))
		if err != nil {
			writeError(w, r, svc, "analytics.dashboard", err)
			return
		}
		httpjson.OK(w, http.StatusOK, d)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, svc *Service, op string, err error) {
	if errors.Is(err, ErrInvalidInput) {
		httpjson.BadRequest(w, "company id is required")
		return
	}
	httpjson.InternalError(w, r, svc.log, op, err)
}
