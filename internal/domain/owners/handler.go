package owners

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
	r.Group(func(or chi.Router) {
		or.Use(middleware.RequireRole(auth.RolePetOwner))

		or.Get("/pet-owners/me", getMeHandler(svc))
		or.Put("/pet-owners/me", updateMeHandler(svc))

		or.Route("/pets", func(pr chi.Router) {
			pr.Post("/", createPetHandler(svc))
			pr.Get("/", listPetsHandler(svc))
			pr.Get("/{petID}", getPetHandler(svc))
			pr.Put("/{petID}", updatePetHandler(svc))
			pr.Delete("/{petID}", deletePetHandler(svc))
		})
	})
}

type ownerResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type petRequest struct {
	Name          string   `json:"name"`
	Species       string   `json:"species"`
	Breed         string   `json:"breed"`
	Sex           string   `json:"sex"`
	BirthDate     string   `json:"birthDate"` // YYYY-MM-DD opcional
	Weight        float64  `json:"weight"`
	MedicalNotes  string   `json:"medicalNotes"`
	BehaviorNotes string   `json:"behaviorNotes"`
	Vaccinations  []string `json:"vaccinations"`
	Allergies     []string `json:"allergies"`
}

type petResponse struct {
	ID            string   `json:"id"`
	OwnerID       string   `json:"ownerId"`
	Name          string   `json:"name"`
	Species       string   `json:"species"`
	Breed         string   `json:"breed"`
	Sex           Sex      `json:"sex"`
	BirthDate     *string  `json:"birthDate"`
	Weight        float64  `json:"weight"`
	MedicalNotes  string   `json:"medicalNotes"`
	BehaviorNotes string   `json:"behaviorNotes"`
	Vaccinations  []string `json:"vaccinations"`
	Allergies     []string `json:"allergies"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (req petRequest) input() (PetInput, error) {
	var bd *time.Time
	if strings.TrimSpace(req.BirthDate) != "" {
		t, err := time.Parse("2006-01-02", strings.TrimSpace(req.BirthDate))
		if err != nil {
			return PetInput{}, errors.New("birthDate must be YYYY-MM-DD")
		}
		bd = &t
	}
	return PetInput{
		Name:          req.Name,
		Species:       req.Species,
		Breed:         req.Breed,
		Sex:           req.Sex,
		BirthDate:     bd,
		Weight:        req.Weight,
		MedicalNotes:  req.MedicalNotes,
		BehaviorNotes: req.BehaviorNotes,
		Vaccinations:  req.Vaccinations,
		Allergies:     req.Allergies,
	}, nil
}

func getMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		o, err := svc.GetMe(r.Context(), claims.UserID, claims.Email)
		if err != nil {
			writeError(w, r, svc, "owners.get_me", err)
			return
		}
		httpjson.OK(w, http.StatusOK, toOwnerResponse(o))
	}
}

func updateMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var in OwnerInput
		if !httpjson.Decode(w, r, &in) {
			return
		}
		o, err := svc.UpdateMe(r.Context(), claims.UserID, claims.Email, in)
		if err != nil {
			writeError(w, r, svc, "owners.update_me", err)
			return
		}
		httpjson.OKMessage(w, http.StatusOK, "Profile updated successfully", toOwnerResponse(o))
	}
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body petRequest true "Mascota; birthDate en formato YYYY-MM-DD"
// @Success 201 {object} httpjson.Envelope
// @Failure 400 {object} httpjson.ErrorBody
// @Failure 401 {object} httpjson.ErrorBody
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req petRequest
		if !httpjson.Decode(w, r, &req) {
			return
		}
		in, err := req.input()
		if err != nil {
			httpjson.BadRequest(w, err.Error())
			return
		}

		p, err := svc.CreatePet(r.Context(), claims.UserID, claims.Email, in)
		if err != nil {
			writeError(w, r, svc, "pets.create", err)
			return
		}
		httpjson.OKMessage(w, http.StatusCreated, "Pet created successfully", toPetResponse(p))
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.ListPets(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, r, svc, "pets.list", err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		httpjson.OK(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		p, err := svc.GetPet(r.Context(), claims.UserID, chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, r, svc, "pets.get", err)
			return
		}
		httpjson.OK(w, http.StatusOK, toPetResponse(p))
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req petRequest
		if !httpjson.Decode(w, r, &req) {
			return
		}
		in, err := req.input()
		if err != nil {
			httpjson.BadRequest(w, err.Error())
			return
		}

		p, err := svc.UpdatePet(r.Context(), claims.UserID, chi.URLParam(r, "petID"), in)
		if err != nil {
			writeError(w, r, svc, "pets.update", err)
			return
		}
		httpjson.OKMessage(w, http.StatusOK, "Pet updated successfully", toPetResponse(p))
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		if err := svc.DeletePet(r.Context(), claims.UserID, chi.URLParam(r, "petID")); err != nil {
			writeError(w, r, svc, "pets.delete", err)
			return
		}
		httpjson.OKMessage(w, http.StatusOK, "Pet deleted successfully", nil)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, svc *Service, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpjson.BadRequest(w, err.Error())
	case errors.Is(err, ErrNotFound):
		httpjson.NotFound(w, "Pet not found")
	case errors.Is(err, ErrDuplicateEmail):
		httpjson.Conflict(w, err.Error())
	default:
		httpjson.InternalError(w, r, svc.log, op, err)
	}
}

func toOwnerResponse(o PetOwner) ownerResponse {
	return ownerResponse{
		ID:        o.ID,
		FirstName: o.FirstName,
		LastName:  o.LastName,
		Email:     o.Email,
		Phone:     o.Phone,
		Address:   o.Address,
		City:      o.City,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toPetResponse(p Pet) petResponse {
	var bd *string
	if p.BirthDate != nil {
		s := p.BirthDate.Format("2006-01-02")
		bd = &s
	}
	vacc := p.Vaccinations
	if vacc == nil {
		vacc = []string{}
	}
	allergies := p.Allergies
	if allergies == nil {
		allergies = []string{}
	}
	return petResponse{
		ID:            p.ID,
		OwnerID:       p.OwnerID,
		Name:          p.Name,
		Species:       p.Species,
		Breed:         p.Breed,
		Sex:           p.Sex,
		BirthDate:     bd,
		Weight:        p.Weight,
		MedicalNotes:  p.MedicalNotes,
		BehaviorNotes: p.BehaviorNotes,
		Vaccinations:  vacc,
		Allergies:     allergies,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
