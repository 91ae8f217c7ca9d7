package employees

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pet-care-marketplace/internal/middleware"
	"pet-care-marketplace/internal/platform/httpjson"
	"pet-care-marketplace/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /api/employees (rol company).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/employees", func(er chi.Router) {
		er.Use(middleware.RequireRole(auth.RoleCompany))
		er.Get("/", listHandler(svc))
		er.Post("/", createHandler(svc))
		er.Get("/available", availableHandler(svc))
		er.Get("/positions/list", positionsHandler())
		er.Get("/skills/list", skillsHandler())
		er.Get("/{employeeID}", getHandler(svc))
		er.Put("/{employeeID}", updateHandler(svc))
		er.Delete("/{employeeID}", deleteHandler(svc))
	})
}

type employeeResponse struct {
	ID           string       `json:"id"`
	CompanyID    string       `json:"companyId"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	Position     string       `json:"position"`
	Specialties  []string     `json:"specialties"`
	WorkingHours WorkingHours `json:"workingHours"`
	HourlyRate   float64      `json:"hourlyRate"`
	HireDate     string       `json:"hireDate"`
	Notes        string       `json:"notes"`
	Active       bool         `json:"active"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// listHandler godoc
// @Summary Listar empleados
// @Tags employees
// @Produce json
// @Param page query int false "Página"
// @Param limit query int false "Tamaño de página"
// @Param active query bool false "Filtrar por activo"
// @Param position query string false "Cargo"
// @Param search query string false "Nombre o email"
// @Success 200 {object} httpjson.Envelope
// @Router /employees [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		p := httpjson.ParsePage(r)
		q := r.URL.Query()

		var active *bool
		if b, err := strconv.ParseBool(q.Get("active")); err == nil {
			active = &b
		}

		items, total, err := svc.List(r.Context(), claims.UserID, Filter{
			Active:   active,
			Position: q.Get("position"),
			Search:   q.Get("search"),
		}, p.Offset(), p.Limit)
		if err != nil {
			writeError(w, r, svc, "employees.list", err)
			return
		}
		httpjson.List(w, toResponses(items), httpjson.NewPagination(p, total, "totalEmployees"))
	}
}

// createHandler godoc
// @Summary Crear empleado
// @Description El email es único por empresa. Un duplicado responde 400.
// @Tags employees
// @Accept json
// @Produce json
// @Param payload body Input true "Empleado"
// @Success 201 {object} httpjson.Envelope
// @Failure 400 {object} httpjson.ErrorBody
// @Router /employees [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var in Input
		if !httpjson.Decode(w, r, &in) {
			return
		}
		e, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			writeError(w, r, svc, "employees.create", err)
			return
		}
		httpjson.OKMessage(w, http.StatusCreated, "Employee created successfully", toResponse(e))
	}
}

// availableHandler godoc
// @Summary Empleados disponibles
// @Description Sin date/time devuelve todos los activos. Con date y time excluye a quien tenga una reserva abierta solapada.
// @Tags employees
// @Produce json
// @Param date query string false "YYYY-MM-DD"
// @Param time query string false "HH:MM"
// @Param duration query int false "Minutos (default 60)"
// @Success 200 {object} httpjson.Envelope
// @Failure 400 {object} httpjson.ErrorBody
// @Router /employees/available [get]
func availableHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		q := r.URL.Query()

		items, err := svc.Available(r.Context(), claims.UserID, AvailabilityQuery{
			Date:     q.Get("date"),
			Time:     q.Get("time"),
			Duration: httpjson.IntQuery(r, "duration", DefaultSlotMinutes, 1, 24*60),
		})
		if err != nil {
			writeError(w, r, svc, "employees.available", err)
			return
		}
		httpjson.OK(w, http.StatusOK, toResponses(items))
	}
}

func positionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httpjson.OK(w, http.StatusOK, Positions())
	}
}

func skillsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httpjson.OK(w, http.StatusOK, Skills())
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		e, err := svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "employeeID"))
		if err != nil {
			writeError(w, r, svc, "employees.get", err)
			return
		}
		httpjson.OK(w, http.StatusOK, toResponse(e))
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var in Input
		if !httpjson.Decode(w, r, &in) {
			return
		}
		e, err := svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "employeeID"), in)
		if err != nil {
			writeError(w, r, svc, "employees.update", err)
			return
		}
		httpjson.OKMessage(w, http.StatusOK, "Employee updated successfully", toResponse(e))
	}
}

// deleteHandler godoc
// @Summary Desactivar empleado
// @Description Soft delete. Responde 400 si tiene reservas pending o confirmed.
// @Tags employees
// @Produce json
// @Param employeeID path string true "ID del empleado"
// @Success 200 {object} httpjson.Envelope
// @Failure 400 {object} httpjson.ErrorBody
// @Failure 404 {object} httpjson.ErrorBody
// @Router /employees/{employeeID} [delete]
func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		if err := svc.Deactivate(r.Context(), claims.UserID, chi.URLParam(r, "employeeID")); err != nil {
			writeError(w, r, svc, "employees.deactivate", err)
			return
		}
		httpjson.OKMessage(w, http.StatusOK, "Employee deactivated successfully", nil)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, svc *Service, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpjson.BadRequest(w, err.Error())
	case errors.Is(err, ErrDuplicateEmail), errors.Is(err, ErrEmployeeInUse):
		httpjson.Error(w, http.StatusBadRequest, "Conflict", err.Error())
	case errors.Is(err, ErrNotFound):
		httpjson.NotFound(w, "Employee not found")
	default:
		httpjson.InternalError(w, r, svc.log, op, err)
	}
}

func toResponses(items []Employee) []employeeResponse {
	out := make([]employeeResponse, 0, len(items))
	for _, e := range items {
		out = append(out, toResponse(e))
	}
	return out
}

func toResponse(e Employee) employeeResponse {
	specs := e.Specialties
	if specs == nil {
		specs = []string{}
	}
	wh := e.WorkingHours
	if wh == nil {
		wh = WorkingHours{}
	}
	return employeeResponse{
		ID:           e.ID,
		CompanyID:    e.CompanyID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Email:        e.Email,
		Phone:        e.Phone,
		Position:     e.Position,
		Specialties:  specs,
		WorkingHours: wh,
		HourlyRate:   e.HourlyRate,
		HireDate:     e.HireDate,
		Notes:        e.Notes,
		Active:       e.Active,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
