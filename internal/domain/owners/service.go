package owners

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"pet-care-marketplace/internal/domain/tenancy"
	"pet-care-marketplace/internal/platform/ids"
	"pet-care-marketplace/internal/platform/logger"
	"pet-care-marketplace/internal/platform/validation"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// GetMe devuelve el perfil del dueño autenticado; lo crea la primera vez.
func (s *Service) GetMe(ctx context.Context, ownerID, email string) (PetOwner, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return PetOwner{}, ErrInvalidInput
	}

	o, err := s.repo.GetOwner(ctx, ownerID)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, tenancy.ErrNotFound) {
		return PetOwner{}, err
	}

	now := s.now().UTC()
	created, err := s.repo.CreateOwnerIfAbsent(ctx, PetOwner{
		ID:        ownerID,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, tenancy.ErrDuplicate) {
			return PetOwner{}, ErrDuplicateEmail
		}
		return PetOwner{}, err
	}
	return created, nil
}

type OwnerInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
}

func (s *Service) UpdateMe(ctx context.Context, ownerID, email string, in OwnerInput) (PetOwner, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return PetOwner{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	cur, err := s.GetMe(ctx, ownerID, email)
	if err != nil {
		return PetOwner{}, err
	}
	cur.FirstName = in.FirstName
	cur.LastName = strings.TrimSpace(in.LastName)
	if in.Email != "" {
		cur.Email = in.Email
	}
	cur.Phone = strings.TrimSpace(in.Phone)
	cur.Address = strings.TrimSpace(in.Address)
	cur.City = strings.TrimSpace(in.City)
	cur.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateOwner(ctx, cur); err != nil {
		if errors.Is(err, tenancy.ErrDuplicate) {
			return PetOwner{}, ErrDuplicateEmail
		}
		return PetOwner{}, err
	}
	return cur, nil
}

type PetInput struct {
	Name          string
	Species       string
	Breed         string
	Sex           string
	BirthDate     *time.Time
	Weight        float64
	MedicalNotes  string
	BehaviorNotes string
	Vaccinations  []string
	Allergies     []string
}

func (in PetInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Species) == "" {
		return fmt.Errorf("%w: species is required", ErrInvalidInput)
	}
	if in.Weight < 0 || math.IsNaN(in.Weight) {
		return fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}
	switch Sex(strings.ToLower(strings.TrimSpace(in.Sex))) {
	case "", SexMale, SexFemale, SexUnknown:
	default:
		return fmt.Errorf("%w: sex must be one of: male, female, unknown", ErrInvalidInput)
	}
	return nil
}

func normalizeSex(s string) Sex {
	v := Sex(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return SexUnknown
	}
	return v
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (s *Service) CreatePet(ctx context.Context, ownerID, email string, in PetInput) (Pet, error) {
	if err := in.validate(); err != nil {
		return Pet{}, err
	}
	// La fila del dueño tiene que existir (FK owner_id).
	owner, err := s.GetMe(ctx, ownerID, email)
	if err != nil {
		return Pet{}, err
	}

	now := s.now().UTC()
	p := Pet{
		ID:            ids.New(ids.Pet, now),
		OwnerID:       owner.ID,
		Name:          strings.TrimSpace(in.Name),
		Species:       strings.ToLower(strings.TrimSpace(in.Species)),
		Breed:         strings.TrimSpace(in.Breed),
		Sex:           normalizeSex(in.Sex),
		BirthDate:     in.BirthDate,
		Weight:        in.Weight,
		MedicalNotes:  strings.TrimSpace(in.MedicalNotes),
		BehaviorNotes: strings.TrimSpace(in.BehaviorNotes),
		Vaccinations:  cleanList(in.Vaccinations),
		Allergies:     cleanList(in.Allergies),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.CreatePet(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// GetPet resuelve la mascota sólo dentro de las del dueño.
func (s *Service) GetPet(ctx context.Context, ownerID, id string) (Pet, error) {
	p, err := s.repo.GetPet(ctx, strings.TrimSpace(ownerID), strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, tenancy.ErrNotFound) {
			return Pet{}, ErrNotFound
		}
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) ListPets(ctx context.Context, ownerID string) ([]Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListPets(ctx, ownerID)
}

func (s *Service) UpdatePet(ctx context.Context, ownerID, id string, in PetInput) (Pet, error) {
	if err := in.validate(); err != nil {
		return Pet{}, err
	}
	cur, err := s.GetPet(ctx, ownerID, id)
	if err != nil {
		return Pet{}, err
	}

	cur.Name = strings.TrimSpace(in.Name)
	cur.Species = strings.ToLower(strings.TrimSpace(in.Species))
	cur.Breed = strings.TrimSpace(in.Breed)
	cur.Sex = normalizeSex(in.Sex)
	cur.BirthDate = in.BirthDate
	cur.Weight = in.Weight
	cur.MedicalNotes = strings.TrimSpace(in.MedicalNotes)
	cur.BehaviorNotes = strings.TrimSpace(in.BehaviorNotes)
	cur.Vaccinations = cleanList(in.Vaccinations)
	cur.Allergies = cleanList(in.Allergies)
	cur.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdatePet(ctx, cur); err != nil {
		if errors.Is(err, tenancy.ErrNotFound) {
			return Pet{}, ErrNotFound
		}
		return Pet{}, err
	}
	return cur, nil
}

// DeletePet borra la mascota (y en cascada sus reservas).
func (s *Service) DeletePet(ctx context.Context, ownerID, id string) error {
	err := s.repo.DeletePet(ctx, strings.TrimSpace(ownerID), strings.TrimSpace(id))
	if errors.Is(err, tenancy.ErrNotFound) {
		return ErrNotFound
	}
	if err == nil {
		s.log.Info("pet deleted", map[string]any{"owner_id": ownerID, "pet_id": id})
	}
	return err
}
