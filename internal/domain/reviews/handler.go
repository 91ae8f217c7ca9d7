package reviews

import (
	"errors"
	"net/http"
	"time"

	"pet-care-marketplace/internal/middleware"
	"pet-care-marketplace/internal/platform/httpjson"
	"pet-care-marketplace/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reviews", func(rr chi.Router) {
		rr.With(middleware.RequireRole(auth.RolePetOwner)).Post("/", createHandler(svc))
		rr.With(middleware.RequireRole(auth.RoleCompany)).Get("/", listHandler(svc))
	})
}

// RegisterPublicRoutes monta GET /{companyID}/reviews/public dentro de /api/companies.
func RegisterPublicRoutes(r chi.Router, svc *Service) {
	r.Get("/{companyID}/reviews/public", listPublicHandler(svc))
}

type reviewResponse struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"companyId"`
	PetOwnerID string    `json:"petOwnerId"`
	BookingID  *string   `json:"bookingId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

// createHandler godoc
// @Summary Reseñar una reserva completada
// @Tags reviews
// @Accept json
// @Produce json
// @Param payload body CreateInput true "Reseña (rating 1..5)"
// @Success 201 {object} httpjson.Envelope
// @Failure 400 {object} httpjson.ErrorBody
// @Failure 404 {object} httpjson.ErrorBody
// @Failure 409 {object} httpjson.ErrorBody
// @Router /reviews [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var in CreateInput
		if !httpjson.Decode(w, r, &in) {
			return
		}
		rv, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			writeError(w, r, svc, "reviews.create", err)
			return
		}
		httpjson.OKMessage(w, http.StatusCreated, "Review created successfully", toResponse(rv))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		p := httpjson.ParsePage(r)

		items, total, err := svc.ListForCompany(r.Context(), claims.UserID, p.Offset(), p.Limit)
		if err != nil {
			writeError(w, r, svc, "reviews.list", err)
			return
		}
		httpjson.List(w, toResponses(items), httpjson.NewPagination(p, total, "totalReviews"))
	}
}

// listPublicHandler godoc
// @Summary Reseñas públicas de una empresa verificada
// @Tags companies
// @Produce json
// @Param companyID path string true "ID de la empresa"
// @Param page query int false "Página"
// @Param limit query int false "Tamaño de página"
// @Success 200 {object} httpjson.Envelope
// @Failure 404 {object} httpjson.ErrorBody
// @Router /companies/{companyID}/reviews/public [get]
func listPublicHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := httpjson.ParsePage(r)

		items, total, err := svc.ListPublic(r.Context(), chi.URLParam(r, "companyID"), p.Offset(), p.Limit)
		if err != nil {
			writeError(w, r, svc, "reviews.list_public", err)
			return
		}
		httpjson.List(w, toResponses(items), httpjson.NewPagination(p, total, "totalReviews"))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, svc *Service, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpjson.BadRequest(w, err.Error())
	case errors.Is(err, ErrNotFound):
		if errors.Is(err, errCompanyNotFound) {
			httpjson.NotFound(w, "Company not found")
			return
		}
		httpjson.NotFound(w, "Booking not found")
	case errors.Is(err, ErrConflict):
		httpjson.Conflict(w, "This booking has already been reviewed")
	default:
		httpjson.InternalError(w, r, svc.log, op, err)
	}
}

func toResponses(items []Review) []reviewResponse {
	out := make([]reviewResponse, 0, len(items))
	for _, rv := range items {
		out = append(out, toResponse(rv))
	}
	return out
}

func toResponse(rv Review) reviewResponse {
	var booking *string
	if rv.BookingID != "" {
		b := rv.BookingID
		booking = &b
	}
	return reviewResponse{
		ID:         rv.ID,
		CompanyID:  rv.CompanyID,
		PetOwnerID: rv.PetOwnerID,
		BookingID:  booking,
		Rating:     rv.Rating,
		Comment:    rv.Comment,
		CreatedAt:  rv.CreatedAt,
	}
}
