package companies

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-care-marketplace/internal/domain/tenancy"
	"pet-care-marketplace/internal/platform/logger"
	"pet-care-marketplace/internal/platform/metrics"
	"pet-care-marketplace/internal/platform/validation"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("company not found")
	ErrDuplicateEmail = errors.New("email already in use by another company")
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

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

// GetProfile devuelve el perfil de la empresa, creándolo con valores por
// defecto la primera vez. Llamadas repetidas devuelven la misma fila.
func (s *Service) GetProfile(ctx context.Context, companyID string) (Company, error) {
	companyID, err := tenancy.Scope(companyID)
	if err != nil {
		return Company{}, ErrInvalidInput
	}

	c, err := s.repo.Get(ctx, companyID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, tenancy.ErrNotFound) {
		return Company{}, err
	}

	now := s.now().UTC()
	created, err := s.repo.CreateIfAbsent(ctx, Company{
		ID:               companyID,
		BusinessHours:    DefaultBusinessHours(),
		Images:           []string{},
		SubscriptionPlan: DefaultPlan,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		return Company{}, err
	}
	s.log.Info("company profile created", map[string]any{"company_id": companyID})
	return created, nil
}

// Ensure implementa tenancy.Ensurer.
func (s *Service) Ensure(ctx context.Context, companyID string) error {
	_, err := s.GetProfile(ctx, companyID)
	return err
}

type UpdateProfileInput struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	City        string
	State       string
	ZipCode     string
	Country     string
	Website     string
	Description string

	// nil = conservar el valor actual.
	BusinessHours BusinessHours
	Images        []string
}

// UpdateProfile reemplaza los campos del perfil y recalcula verified.
// verifiedAt se fija cuando el flag pasa a true y se limpia cuando vuelve a false.
func (s *Service) UpdateProfile(ctx context.Context, companyID string, in UpdateProfileInput) (Company, error) {
	current, err := s.GetProfile(ctx, companyID)
	if err != nil {
		return Company{}, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email != "" && !validation.Var(email, "email") {
		return Company{}, invalid("email must be a valid email address")
	}
	if in.BusinessHours != nil {
		if err := in.BusinessHours.Validate(); err != nil {
			return Company{}, err
		}
	}
	for _, img := range in.Images {
		if !validation.Var(img, "url") {
			return Company{}, invalid("images must be valid URLs")
		}
	}

	next := current
	next.Name = strings.TrimSpace(in.Name)
	next.Email = email
	next.Phone = strings.TrimSpace(in.Phone)
	next.Address = strings.TrimSpace(in.Address)
	next.City = strings.TrimSpace(in.City)
	next.State = strings.TrimSpace(in.State)
	next.ZipCode = strings.TrimSpace(in.ZipCode)
	next.Country = strings.TrimSpace(in.Country)
	next.Website = strings.TrimSpace(in.Website)
	next.Description = strings.TrimSpace(in.Description)
	if in.BusinessHours != nil {
		next.BusinessHours = normalizeHours(in.BusinessHours)
	}
	if in.Images != nil {
		next.Images = in.Images
	}

	now := s.now().UTC()
	next.UpdatedAt = now
	next.Verified = next.IsComplete()
	if next.Verified != current.Verified {
		if next.Verified {
			next.VerifiedAt = &now
		} else {
			next.VerifiedAt = nil
		}
		metrics.ObserveVerificationChange(next.Verified)
		s.log.Info("company verification changed", map[string]any{
			"company_id": companyID,
			"verified":   next.Verified,
			"reason":     "profile completeness",
		})
	}

	if err := s.repo.Update(ctx, next); err != nil {
		if errors.Is(err, tenancy.ErrDuplicate) {
			return Company{}, ErrDuplicateEmail
		}
		if errors.Is(err, tenancy.ErrNotFound) {
			return Company{}, ErrNotFound
		}
		return Company{}, err
	}
	return next, nil
}

// ListPublic lista empresas verificadas para el marketplace.
func (s *Service) ListPublic(ctx context.Context, q PublicQuery) ([]Company, int, error) {
	q.City = strings.TrimSpace(q.City)
	q.Search = strings.TrimSpace(q.Search)
	return s.repo.ListVerified(ctx, q)
}

// GetPublic devuelve la empresa sólo si está verificada.
func (s *Service) GetPublic(ctx context.Context, id string) (Company, error) {
	c, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, tenancy.ErrNotFound) {
			return Company{}, ErrNotFound
		}
		return Company{}, err
	}
	if !c.Verified {
		return Company{}, ErrNotFound
	}
	return c, nil
}

func normalizeHours(in BusinessHours) BusinessHours {
	out := BusinessHours{}
	for day, h := range in {
		if h.Closed {
			out[day] = DayHours{Closed: true}
			continue
		}
		out[day] = DayHours{Open: strings.TrimSpace(h.Open), Close: strings.TrimSpace(h.Close)}
	}
	return out
}
