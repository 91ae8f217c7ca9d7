package companies

import (
	"errors"
	"net/http"
	"time"

	"pet-care-marketplace/internal/middleware"
	"pet-care-marketplace/internal/platform/httpjson"
	"pet-care-marketplace/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta las rutas bajo /api/companies.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireRole(auth.RoleCompany))
		pr.Get("/profile", getProfileHandler(svc))
		pr.Put("/profile", updateProfileHandler(svc))
	})

	r.Get("/", listPublicHandler(svc))
	r.Get("/{companyID}/public", getPublicHandler(svc))
}

type profileRequest struct {
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	City          string        `json:"city"`
	State         string        `json:"state"`
	ZipCode       string        `json:"zipCode"`
	Country       string        `json:"country"`
	Website       string        `json:"website"`
	Description   string        `json:"description"`
	BusinessHours BusinessHours `json:"businessHours"`
	Images        []string      `json:"images"`
}

type companyResponse struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Email            string        `json:"email"`
	Phone            string        `json:"phone"`
	Address          string        `json:"address"`
	City             string        `json:"city"`
	State            string        `json:"state"`
	ZipCode          string        `json:"zipCode"`
	Country          string        `json:"country"`
	Website          string        `json:"website"`
	Description      string        `json:"description"`
	BusinessHours    BusinessHours `json:"businessHours"`
	Images           []string      `json:"images"`
	Verified         bool          `json:"verified"`
	VerifiedAt       *time.Time    `json:"verifiedAt"`
	SubscriptionPlan string        `json:"subscriptionPlan"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// publicCompanyResponse omite datos internos (plan, fechas de verificación).
type publicCompanyResponse struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	City          string        `json:"city"`
	State         string        `json:"state"`
	Country       string        `json:"country"`
	Website       string        `json:"website"`
	Description   string        `json:"description"`
	BusinessHours BusinessHours `json:"businessHours"`
	Images        []string      `json:"images"`
	Verified      bool          `json:"verified"`
}

// getProfileHandler godoc
// @Summary Perfil de la empresa autenticada
// @Description Devuelve el perfil. La primera vez lo crea con horario por defecto y verified=false.
// @Tags companies
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param X-Debug-Role header string false "Solo en modo dev (company)"
// @Success 200 {object} httpjson.Envelope
// @Failure 401 {object} httpjson.ErrorBody
// @Failure 403 {object} httpjson.ErrorBody
// @Router /companies/profile [get]
func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		c, err := svc.GetProfile(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, r, svc, "companies.get_profile", err)
			return
		}
		httpjson.OK(w, http.StatusOK, toCompanyResponse(c))
	}
}

// updateProfileHandler godoc
// @Summary Actualizar perfil de la empresa
// @Description Reemplaza el perfil. verified pasa a true sólo si name, address, city y description no están vacíos.
// @Tags companies
// @Accept json
// @Produce json
// @Param payload body profileRequest true "Perfil completo"
// @Success 200 {object} httpjson.Envelope
// @Failure 400 {object} httpjson.ErrorBody
// @Failure 409 {object} httpjson.ErrorBody
// @Router /companies/profile [put]
func updateProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req profileRequest
		if !httpjson.Decode(w, r, &req) {
			return
		}

		c, err := svc.UpdateProfile(r.Context(), claims.UserID, UpdateProfileInput{
			Name:          req.Name,
			Email:         req.Email,
			Phone:         req.Phone,
			Address:       req.Address,
			City:          req.City,
			State:         req.State,
			ZipCode:       req.ZipCode,
			Country:       req.Country,
			Website:       req.Website,
			Description:   req.Description,
			BusinessHours: req.BusinessHours,
			Images:        req.Images,
		})
		if err != nil {
			writeError(w, r, svc, "companies.update_profile", err)
			return
		}
		httpjson.OKMessage(w, http.StatusOK, "Profile updated successfully", toCompanyResponse(c))
	}
}

// listPublicHandler godoc
// @Summary Listar empresas verificadas
// @Tags companies
// @Produce json
// @Param page query int false "Página (default 1)"
// @Param limit query int false "Tamaño de página (default 10, max 100)"
// @Param city query string false "Filtro por ciudad"
// @Param search query string false "Texto en nombre o descripción"
// @Success 200 {object} httpjson.Envelope
// @Router /companies [get]
func listPublicHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := httpjson.ParsePage(r)
		q := r.URL.Query()

		items, total, err := svc.ListPublic(r.Context(), PublicQuery{
			City:   q.Get("city"),
			Search: q.Get("search"),
			Offset: p.Offset(),
			Limit:  p.Limit,
		})
		if err != nil {
			writeError(w, r, svc, "companies.list_public", err)
			return
		}

		out := make([]publicCompanyResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toPublicResponse(c))
		}
		httpjson.List(w, out, httpjson.NewPagination(p, total, "totalCompanies"))
	}
}

func getPublicHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetPublic(r.Context(), chi.URLParam(r, "companyID"))
		if err != nil {
			writeError(w, r, svc, "companies.get_public", err)
			return
		}
		httpjson.OK(w, http.StatusOK, toPublicResponse(c))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, svc *Service, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpjson.BadRequest(w, err.Error())
	case errors.Is(err, ErrNotFound):
		httpjson.NotFound(w, "Company not found")
	case errors.Is(err, ErrDuplicateEmail):
		httpjson.Conflict(w, err.Error())
	default:
		httpjson.InternalError(w, r, svc.log, op, err)
	}
}

func toCompanyResponse(c Company) companyResponse {
	images := c.Images
	if images == nil {
		images = []string{}
	}
	return companyResponse{
		ID:               c.ID,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		Address:          c.Address,
		City:             c.City,
		State:            c.State,
		ZipCode:          c.ZipCode,
		Country:          c.Country,
		Website:          c.Website,
		Description:      c.Description,
		BusinessHours:    c.BusinessHours,
		Images:           images,
		Verified:         c.Verified,
		VerifiedAt:       c.VerifiedAt,
		SubscriptionPlan: c.SubscriptionPlan,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func toPublicResponse(c Company) publicCompanyResponse {
	images := c.Images
	if images == nil {
		images = []string{}
	}
	return publicCompanyResponse{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		City:          c.City,
		State:         c.State,
		Country:       c.Country,
		Website:       c.Website,
		Description:   c.Description,
		BusinessHours: c.BusinessHours,
		Images:        images,
		Verified:      c.Verified,
	}
}
