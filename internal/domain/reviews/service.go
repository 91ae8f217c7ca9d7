package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-care-marketplace/internal/domain/bookings"
	"pet-care-marketplace/internal/domain/companies"
	"pet-care-marketplace/internal/domain/tenancy"
	"pet-care-marketplace/internal/platform/ids"
	"pet-care-marketplace/internal/platform/logger"
	"pet-care-marketplace/internal/platform/validation"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("booking already reviewed")

	errBookingNotFound = fmt.Errorf("%w: booking not found", ErrNotFound)
	errCompanyNotFound = fmt.Errorf("%w: company not found", ErrNotFound)
)

type BookingLookup interface {
	GetForOwner(ctx context.Context, ownerID, id string) (bookings.Booking, error)
}

type CompanyDirectory interface {
	GetPublic(ctx context.Context, id string) (companies.Company, error)
}

type ChangeFunc func(ctx context.Context, companyID string)

type Service struct {
	repo      Repository
	bookings  BookingLookup
	companies CompanyDirectory
	log       logger.Logger
	now       func() time.Time
	onChange  []ChangeFunc
}

func NewService(repo Repository, bookings BookingLookup, companies CompanyDirectory, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		bookings:  bookings,
		companies: companies,
		log:       log,
		now:       time.Now,
	}
}

func (s *Service) OnChange(fn ChangeFunc) {
	s.onChange = append(s.onChange, fn)
}

type CreateInput struct {
	BookingID string `json:"bookingId" validate:"required"`
	Rating    int    `json:"rating" validate:"gte=1,lte=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

// Create registra la reseña del dueño sobre una reserva propia completada.
// La empresa sale de la reserva, no del request.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Review, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return Review{}, ErrInvalidInput
	}
	in.BookingID = strings.TrimSpace(in.BookingID)
	in.Comment = strings.TrimSpace(in.Comment)
	if err := validation.Struct(in); err != nil {
		return Review{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	b, err := s.bookings.GetForOwner(ctx, ownerID, in.BookingID)
	if err != nil {
		if errors.Is(err, bookings.ErrNotFound) || errors.Is(err, tenancy.ErrNotFound) {
			return Review{}, errBookingNotFound
		}
		return Review{}, err
	}
	if b.Status != bookings.StatusCompleted {
		return Review{}, fmt.Errorf("%w: only completed bookings can be reviewed", ErrInvalidInput)
	}

	now := s.now().UTC()
	rv := Review{
		ID:         ids.New(ids.Review, now),
		CompanyID:  b.CompanyID,
		PetOwnerID: ownerID,
		BookingID:  b.ID,
		Rating:     in.Rating,
		Comment:    in.Comment,
		CreatedAt:  now,
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		if errors.Is(err, tenancy.ErrDuplicate) {
			return Review{}, ErrConflict
		}
		return Review{}, err
	}

	for _, fn := range s.onChange {
		fn(ctx, rv.CompanyID)
	}
	return rv, nil
}

func (s *Service) ListForCompany(ctx context.Context, companyID string, offset, limit int) ([]Review, int, error) {
	companyID, err := tenancy.Scope(companyID)
	if err != nil {
		return nil, 0, ErrInvalidInput
	}
	return s.repo.ListByCompany(ctx, companyID, offset, limit)
}

// ListPublic sólo expone reseñas de empresas verificadas.
func (s *Service) ListPublic(ctx context.Context, companyID string, offset, limit int) ([]Review, int, error) {
	c, err := s.companies.GetPublic(ctx, strings.TrimSpace(companyID))
	if err != nil {
		if errors.Is(err, companies.ErrNotFound) {
			return nil, 0, errCompanyNotFound
		}
		return nil, 0, err
	}
	return s.repo.ListByCompany(ctx, c.ID, offset, limit)
}
