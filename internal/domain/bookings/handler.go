package bookings

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-care-marketplace/internal/middleware"
	"pet-care-marketplace/internal/platform/httpjson"
	"pet-care-marketplace/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/bookings", func(br chi.Router) {
		br.With(middleware.RequireRole(auth.RolePetOwner)).Post("/", createHandler(svc))
		br.With(middleware.RequireRole(auth.RolePetOwner)).Get("/mine", listMineHandler(svc))
		br.With(middleware.RequireRole(auth.RoleCompany)).Get("/", listCompanyHandler(svc))
		br.With(middleware.RequireRole(auth.RoleCompany, auth.RolePetOwner)).Patch("/{bookingID}/status", updateStatusHandler(svc))
	})
}

type bookingResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	ServiceID   string    `json:"serviceId"`
	PetOwnerID  string    `json:"petOwnerId"`
	PetID       string    `json:"petId"`
	EmployeeID  *string   `json:"employeeId"`
	Status      Status    `json:"status"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Duration    int       `json:"duration"`
	TotalAmount float64   `json:"totalAmount"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// createHandler godoc
// @Summary Crear reserva
// @Description El dueño reserva un servicio activo de una empresa verificada para una de sus mascotas. Si indica employeeId, el empleado debe estar libre en ese horario.
// @Tags bookings
// @Accept json
// @Produce json
// @Param payload body CreateInput true "Reserva; date YYYY-MM-DD, time HH:MM"
// @Success 201 {object} httpjson.Envelope
// @Failure 400 {object} httpjson.ErrorBody
// @Failure 404 {object} httpjson.ErrorBody
// @Failure 409 {object} httpjson.ErrorBody
// @Router /bookings [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var in CreateInput
		if !httpjson.Decode(w, r, &in) {
			return
		}
		b, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			writeError(w, r, svc, "bookings.create", err)
			return
		}
		httpjson.OKMessage(w, http.StatusCreated, "Booking created successfully", toResponse(b))
	}
}

func listMineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		p := httpjson.ParsePage(r)

		items, total, err := svc.ListForOwner(r.Context(), claims.UserID, p.Offset(), p.Limit)
		if err != nil {
			writeError(w, r, svc, "bookings.list_mine", err)
			return
		}
		httpjson.List(w, toResponses(items), httpjson.NewPagination(p, total, "totalBookings"))
	}
}

// listCompanyHandler godoc
// @Summary Reservas de la empresa
// @Tags bookings
// @Produce json
// @Param page query int false "Página"
// @Param limit query int false "Tamaño de página"
// @Param status query string false "pending|confirmed|completed|cancelled"
// @Param date query string false "YYYY-MM-DD"
// @Param from query string false "Desde (YYYY-MM-DD)"
// @Param to query string false "Hasta (YYYY-MM-DD)"
// @Success 200 {object} httpjson.Envelope
// @Router /bookings [get]
func listCompanyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		p := httpjson.ParsePage(r)
		q := r.URL.Query()

		items, total, err := svc.ListForCompany(r.Context(), claims.UserID, Query{
			Status:   Status(strings.TrimSpace(q.Get("status"))),
			Date:     strings.TrimSpace(q.Get("date")),
			DateFrom: strings.TrimSpace(q.Get("from")),
			DateTo:   strings.TrimSpace(q.Get("to")),
			Offset:   p.Offset(),
			Limit:    p.Limit,
		})
		if err != nil {
			writeError(w, r, svc, "bookings.list_company", err)
			return
		}
		httpjson.List(w, toResponses(items), httpjson.NewPagination(p, total, "totalBookings"))
	}
}

// updateStatusHandler godoc
// @Summary Cambiar estado de una reserva
// @Description company: confirmed, completed o cancelled según la transición. pet_owner: sólo cancelled sobre reservas propias.
// @Tags bookings
// @Accept json
// @Produce json
// @Param bookingID path string true "ID de la reserva"
// @Param payload body statusRequest true "Nuevo estado"
// @Success 200 {object} httpjson.Envelope
// @Failure 400 {object} httpjson.ErrorBody
// @Failure 403 {object} httpjson.ErrorBody
// @Failure 404 {object} httpjson.ErrorBody
// @Failure 409 {object} httpjson.ErrorBody
// @Router /bookings/{bookingID}/status [patch]
func updateStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		id := chi.URLParam(r, "bookingID")

		var req statusRequest
		if !httpjson.Decode(w, r, &req) {
			return
		}
		to, ok := ParseStatus(strings.ToLower(strings.TrimSpace(req.Status)))
		if !ok {
			httpjson.BadRequest(w, "status must be one of: pending, confirmed, completed, cancelled")
			return
		}

		var (
			b   Booking
			err error
		)
		if claims.Role == auth.RolePetOwner {
			if to != StatusCancelled {
				httpjson.Forbidden(w)
				return
			}
			b, err = svc.CancelAsOwner(r.Context(), claims.UserID, id)
		} else {
			b, err = svc.UpdateStatusAsCompany(r.Context(), claims.UserID, id, to)
		}
		if err != nil {
			writeError(w, r, svc, "bookings.update_status", err)
			return
		}
		httpjson.OKMessage(w, http.StatusOK, "Booking status updated", toResponse(b))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, svc *Service, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpjson.BadRequest(w, err.Error())
	case errors.Is(err, ErrNotFound):
		httpjson.NotFound(w, err.Error())
	case errors.Is(err, ErrBadState), errors.Is(err, ErrUnavailable):
		httpjson.Conflict(w, err.Error())
	default:
		httpjson.InternalError(w, r, svc.log, op, err)
	}
}

func toResponses(items []Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(items))
	for _, b := range items {
		out = append(out, toResponse(b))
	}
	return out
}

func toResponse(b Booking) bookingResponse {
	var emp *string
	if b.EmployeeID != "" {
		e := b.EmployeeID
		emp = &e
	}
	return bookingResponse{
		ID:          b.ID,
		CompanyID:   b.CompanyID,
		ServiceID:   b.ServiceID,
		PetOwnerID:  b.PetOwnerID,
		PetID:       b.PetID,
		EmployeeID:  emp,
		Status:      b.Status,
		Date:        b.Date,
		Time:        b.Time,
		Duration:    b.Duration,
		TotalAmount: b.TotalAmount,
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
