package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pet-care-marketplace/internal/domain/companies"
	"pet-care-marketplace/internal/middleware"
	"pet-care-marketplace/internal/platform/httpjson"
	"pet-care-marketplace/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /api/services (rol company).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/services", func(sr chi.Router) {
		sr.Use(middleware.RequireRole(auth.RoleCompany))
		sr.Get("/", listHandler(svc))
		sr.Post("/", createHandler(svc))
		sr.Get("/{serviceID}", getHandler(svc))
		sr.Put("/{serviceID}", updateHandler(svc))
		sr.Delete("/{serviceID}", deleteHandler(svc))
	})
}

// RegisterPublicRoutes monta GET /{companyID}/services/public dentro de /api/companies.
func RegisterPublicRoutes(r chi.Router, svc *Service, companiesSvc *companies.Service) {
	r.Get("/{companyID}/services/public", listPublicHandler(svc, companiesSvc))
}

type serviceRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"`
	Active      *bool   `json:"active"`
}

type serviceResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Duration    int       `json:"duration"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (req serviceRequest) input() Input {
	return Input{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Duration:    req.Duration,
		Active:      req.Active,
	}
}

// listHandler godoc
// @Summary Listar servicios de la empresa
// @Tags services
// @Produce json
// @Param page query int false "Página"
// @Param limit query int false "Tamaño de página"
// @Param active query bool false "Filtrar por activo"
// @Param category query string false "Categoría"
// @Param search query string false "Texto en nombre o descripción"
// @Success 200 {object} httpjson.Envelope
// @Failure 401 {object} httpjson.ErrorBody
// @Failure 403 {object} httpjson.ErrorBody
// @Router /services [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		p := httpjson.ParsePage(r)
		q := r.URL.Query()

		items, total, err := svc.List(r.Context(), claims.UserID, Filter{
			Active:   boolQuery(q.Get("active")),
			Category: q.Get("category"),
			Search:   q.Get("search"),
		}, p.Offset(), p.Limit)
		if err != nil {
			writeError(w, r, svc, "services.list", err)
			return
		}
		httpjson.List(w, toResponses(items), httpjson.NewPagination(p, total, "totalServices"))
	}
}

// createHandler godoc
// @Summary Crear servicio
// @Tags services
// @Accept json
// @Produce json
// @Param payload body serviceRequest true "Servicio"
// @Success 201 {object} httpjson.Envelope
// @Failure 400 {object} httpjson.ErrorBody
// @Router /services [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req serviceRequest
		if !httpjson.Decode(w, r, &req) {
			return
		}
		o, err := svc.Create(r.Context(), claims.UserID, req.input())
		if err != nil {
			writeError(w, r, svc, "services.create", err)
			return
		}
		httpjson.OKMessage(w, http.StatusCreated, "Service created successfully", toResponse(o))
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		o, err := svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "serviceID"))
		if err != nil {
			writeError(w, r, svc, "services.get", err)
			return
		}
		httpjson.OK(w, http.StatusOK, toResponse(o))
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req serviceRequest
		if !httpjson.Decode(w, r, &req) {
			return
		}
		o, err := svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "serviceID"), req.input())
		if err != nil {
			writeError(w, r, svc, "services.update", err)
			return
		}
		httpjson.OKMessage(w, http.StatusOK, "Service updated successfully", toResponse(o))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		if err := svc.Deactivate(r.Context(), claims.UserID, chi.URLParam(r, "serviceID")); err != nil {
			writeError(w, r, svc, "services.deactivate", err)
			return
		}
		httpjson.OKMessage(w, http.StatusOK, "Service deactivated successfully", nil)
	}
}

// listPublicHandler godoc
// @Summary Servicios públicos de una empresa verificada
// @Tags companies
// @Produce json
// @Param companyID path string true "ID de la empresa"
// @Success 200 {object} httpjson.Envelope
// @Failure 404 {object} httpjson.ErrorBody
// @Router /companies/{companyID}/services/public [get]
func listPublicHandler(svc *Service, companiesSvc *companies.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := companiesSvc.GetPublic(r.Context(), chi.URLParam(r, "companyID"))
		if err != nil {
			if errors.Is(err, companies.ErrNotFound) {
				httpjson.NotFound(w, "Company not found")
				return
			}
			httpjson.InternalError(w, r, svc.log, "services.list_public", err)
			return
		}

		items, err := svc.ListPublic(r.Context(), c.ID)
		if err != nil {
			writeError(w, r, svc, "services.list_public", err)
			return
		}
		httpjson.OK(w, http.StatusOK, toResponses(items))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, svc *Service, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpjson.BadRequest(w, err.Error())
	case errors.Is(err, ErrNotFound):
		httpjson.NotFound(w, "Service not found")
	default:
		httpjson.InternalError(w, r, svc.log, op, err)
	}
}

// boolQuery: "true"/"false" → puntero; cualquier otra cosa = sin filtro.
func boolQuery(raw string) *bool {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}

func toResponses(items []Offering) []serviceResponse {
	out := make([]serviceResponse, 0, len(items))
	for _, o := range items {
		out = append(out, toResponse(o))
	}
	return out
}

func toResponse(o Offering) serviceResponse {
	return serviceResponse{
		ID:          o.ID,
		CompanyID:   o.CompanyID,
		Name:        o.Name,
		Description: o.Description,
		Category:    o.Category,
		Price:       o.Price,
		Duration:    o.Duration,
		Active:      o.Active,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
