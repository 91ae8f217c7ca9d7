package waitlist

import (
	"errors"
	"net/http"
	"time"

	"pet-care-marketplace/internal/middleware"
	"pet-care-marketplace/internal/platform/httpjson"
	"pet-care-marketplace/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /waitlist. joinLimit envuelve sólo el POST público (puede ser nil).
func RegisterRoutes(r chi.Router, svc *Service, joinLimit func(http.Handler) http.Handler) {
	r.Route("/waitlist", func(wr chi.Router) {
		if joinLimit != nil {
			wr.With(joinLimit).Post("/", joinHandler(svc))
		} else {
			wr.Post("/", joinHandler(svc))
		}

		wr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireRole(auth.RoleAdmin))
			ar.Get("/", listHandler(svc))
			ar.Get("/stats", statsHandler(svc))
		})
	})
}

type joinResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Type  Type   `json:"type"`
}

type entryResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Type      Type      `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

type statsResponse struct {
	Total   int          `json:"total"`
	ByType  map[Type]int `json:"byType"`
	Recency struct {
		Today      int `json:"today"`
		Last7Days  int `json:"last7Days"`
		Last30Days int `json:"last30Days"`
	} `json:"recency"`
	Recent []entryResponse `json:"recent"`
}

// joinHandler godoc
// @Summary Anotarse en la lista de espera
// @Description type: mobile_app, business_app o general (default). Un mismo email puede anotarse una vez por tipo.
// @Tags waitlist
// @Accept json
// @Produce json
// @Param payload body JoinInput true "Alta"
// @Success 201 {object} httpjson.Envelope
// @Failure 400 {object} httpjson.ErrorBody
// @Failure 409 {object} httpjson.ErrorBody
// @Failure 429 {object} httpjson.ErrorBody
// @Router /waitlist [post]
func joinHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in JoinInput
		if !httpjson.Decode(w, r, &in) {
			return
		}
		e, err := svc.Join(r.Context(), in)
		if err != nil {
			writeError(w, r, svc, "waitlist.join", err)
			return
		}
		httpjson.OKMessage(w, http.StatusCreated, "Successfully joined the waitlist", joinResponse{
			ID:    e.ID,
			Email: e.Email,
			Type:  e.Type,
		})
	}
}

// listHandler godoc
// @Summary Listar lista de espera
// @Tags waitlist
// @Produce json
// @Param page query int false "Página"
// @Param limit query int false "Tamaño de página"
// @Param type query string false "mobile_app|business_app|general"
// @Success 200 {object} httpjson.Envelope
// @Failure 403 {object} httpjson.ErrorBody
// @Router /waitlist [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := httpjson.ParsePage(r)

		items, total, err := svc.List(r.Context(), r.URL.Query().Get("type"), p.Offset(), p.Limit)
		if err != nil {
			writeError(w, r, svc, "waitlist.list", err)
			return
		}
		httpjson.List(w, toResponses(items), httpjson.NewPagination(p, total, "totalEntries"))
	}
}

func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Stats(r.Context())
		if err != nil {
			writeError(w, r, svc, "waitlist.stats", err)
			return
		}

		var resp statsResponse
		resp.Total = st.Total
		resp.ByType = st.ByType
		resp.Recency.Today = st.Today
		resp.Recency.Last7Days = st.Last7Days
		resp.Recency.Last30Days = st.Last30Days
		resp.Recent = toResponses(st.Recent)
		httpjson.OK(w, http.StatusOK, resp)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, svc *Service, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpjson.BadRequest(w, err.Error())
	case errors.Is(err, ErrDuplicate):
		httpjson.Conflict(w, "This email is already on the waitlist")
	default:
		httpjson.InternalError(w, r, svc.log, op, err)
	}
}

func toResponses(items []Entry) []entryResponse {
	out := make([]entryResponse, 0, len(items))
	for _, e := range items {
		out = append(out, entryResponse{
			ID:        e.ID,
			Email:     e.Email,
			Phone:     e.Phone,
			Type:      e.Type,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
