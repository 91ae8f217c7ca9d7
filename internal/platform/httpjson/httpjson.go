// Package httpjson centraliza las respuestas JSON de la API.
// Antes writeJSON estaba duplicado en cada módulo; con más de tres módulos
// ya compensaba extraerlo.
package httpjson

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"pet-care-marketplace/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage acota page para que (page-1)*limit no desborde ni en un OFFSET int32.
	MaxPage = math.MaxInt32 / MaxLimit

	// Mensaje fijo para 500: nunca se filtra el error real al cliente.
	InternalMessage = "An unexpected error occurred"
)

// ErrorBody es el shape de todos los errores: {error, message}.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Envelope es el shape de respuestas exitosas.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination se serializa como {currentPage, totalPages, total<X>, limit}.
// TotalKey define el nombre del contador (totalEmployees, totalBookings, ...).
type Pagination struct {
	CurrentPage int
	TotalPages  int
	Total       int
	TotalKey    string
	Limit       int
}

func (p Pagination) MarshalJSON() ([]byte, error) {
	key := strings.TrimSpace(p.TotalKey)
	if key == "" {
		key = "totalItems"
	}
	return json.Marshal(map[string]int{
		"currentPage": p.CurrentPage,
		"totalPages":  p.TotalPages,
		key:           p.Total,
		"limit":       p.Limit,
	})
}

// Page son los parámetros de paginación ya normalizados.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	page, limit := min(p.Page, MaxPage), min(p.Limit, MaxLimit)
	return (page - 1) * limit
}

// NewPagination arma la metadata a partir del total.
func NewPagination(p Page, total int, totalKey string) *Pagination {
	pages := 0
	if p.Limit > 0 && total > 0 {
		pages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return &Pagination{
		CurrentPage: p.Page,
		TotalPages:  pages,
		Total:       total,
		TotalKey:    totalKey,
		Limit:       p.Limit,
	}
}

// ParsePage lee page/limit del query string. Valores inválidos caen a defaults,
// nunca se rechaza el request por paginación.
func ParsePage(r *http.Request) Page {
	q := r.URL.Query()
	page := atoiDefault(q.Get("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	limit := atoiDefault(q.Get("limit"), DefaultLimit)
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Page: page, Limit: limit}
}

// IntQuery lee un entero del query string con default y clamp.
func IntQuery(r *http.Request, key string, def, min, max int) int {
	n := atoiDefault(r.URL.Query().Get(key), def)
	if n < min {
		return min
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

func atoiDefault(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// WriteJSON serializa antes de escribir el status: si v no se puede
// codificar (p.ej. +Inf) responde el 500 fijo en vez de un 200 vacío.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		b, _ = json.Marshal(ErrorBody{Error: "Internal server error", Message: InternalMessage})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

// OK escribe {success:true, data}.
func OK(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Envelope{Success: true, Data: data})
}

// OKMessage escribe {success:true, message, data}.
func OKMessage(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// List escribe {success:true, data, pagination}.
func List(w http.ResponseWriter, data any, p *Pagination) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Pagination: p})
}

func Error(w http.ResponseWriter, status int, errLabel, message string) {
	WriteJSON(w, status, ErrorBody{Error: errLabel, Message: message})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, "Validation error", message)
}

func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
}

func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden", "You do not have permission to access this resource")
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, "Not found", message)
}

func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, "Conflict", message)
}

func Internal(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Internal server error", InternalMessage)
}

// InternalError loguea el error real con el request id y responde el 500 fijo.
func InternalError(w http.ResponseWriter, r *http.Request, log logger.Logger, op string, err error) {
	log.Error("request failed", map[string]any{
		"op":         op,
		"request_id": chimw.GetReqID(r.Context()),
		"error":      err,
	})
	Internal(w)
}

// Decode lee el body JSON en v. Devuelve false y escribe 400 si falla.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		BadRequest(w, "request body is required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		BadRequest(w, "invalid json")
		return false
	}
	return true
}
