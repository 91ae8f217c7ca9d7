package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-care-marketplace/internal/domain/catalog"
	"pet-care-marketplace/internal/domain/companies"
	"pet-care-marketplace/internal/domain/employees"
	"pet-care-marketplace/internal/domain/owners"
	"pet-care-marketplace/internal/domain/tenancy"
	"pet-care-marketplace/internal/platform/ids"
	"pet-care-marketplace/internal/platform/logger"
	"pet-care-marketplace/internal/platform/metrics"
	"pet-care-marketplace/internal/platform/validation"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid status transition")
	ErrUnavailable  = errors.New("employee is not available at the requested time")
)

// notFound identifica qué recurso faltó; errors.Is(err, ErrNotFound) sigue funcionando.
type notFound string

func (e notFound) Error() string        { return string(e) + " not found" }
func (e notFound) Is(target error) bool { return target == ErrNotFound }

// Dependencias de otros módulos, como interfaces chicas.
type (
	CompanyDirectory interface {
		GetPublic(ctx context.Context, id string) (companies.Company, error)
	}
	ServiceCatalog interface {
		GetBookable(ctx context.Context, companyID, id string) (catalog.Offering, error)
	}
	PetDirectory interface {
		GetPet(ctx context.Context, ownerID, id string) (owners.Pet, error)
	}
	EmployeeDirectory interface {
		GetAssignable(ctx context.Context, companyID, id string) (employees.Employee, error)
		Available(ctx context.Context, companyID string, q employees.AvailabilityQuery) ([]employees.Employee, error)
	}
)

// ChangeFunc se invoca cuando cambian las reservas de una empresa.
type ChangeFunc func(ctx context.Context, companyID string)

type Service struct {
	repo      Repository
	companies CompanyDirectory
	services  ServiceCatalog
	pets      PetDirectory
	employees EmployeeDirectory
	log       logger.Logger
	now       func() time.Time
	onChange  []ChangeFunc
}

func NewService(
	repo Repository,
	companies CompanyDirectory,
	services ServiceCatalog,
	pets PetDirectory,
	employees EmployeeDirectory,
	log logger.Logger,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		companies: companies,
		services:  services,
		pets:      pets,
		employees: employees,
		log:       log,
		now:       time.Now,
	}
}

// OnChange registra un callback (p.ej. invalidar el cache de analytics).
func (s *Service) OnChange(fn ChangeFunc) {
	s.onChange = append(s.onChange, fn)
}

func (s *Service) changed(ctx context.Context, companyID string) {
	for _, fn := range s.onChange {
		fn(ctx, companyID)
	}
}

type CreateInput struct {
	CompanyID  string `json:"companyId" validate:"required"`
	ServiceID  string `json:"serviceId" validate:"required"`
	PetID      string `json:"petId" validate:"required"`
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Time       string `json:"time" validate:"required,hhmm"`
	Notes      string `json:"notes"`
}

// Create reserva un servicio de una empresa verificada para una mascota del dueño.
// duration y totalAmount se copian del servicio en este momento.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Booking, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return Booking{}, ErrInvalidInput
	}
	in.CompanyID = strings.TrimSpace(in.CompanyID)
	in.ServiceID = strings.TrimSpace(in.ServiceID)
	in.PetID = strings.TrimSpace(in.PetID)
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	if err := validation.Struct(in); err != nil {
		return Booking{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	now := s.now().UTC()
	if in.Date < now.Format("2006-01-02") {
		return Booking{}, fmt.Errorf("%w: date must not be in the past", ErrInvalidInput)
	}

	company, err := s.companies.GetPublic(ctx, in.CompanyID)
	if err != nil {
		return Booking{}, lookupErr(err, "Company")
	}
	offering, err := s.services.GetBookable(ctx, company.ID, in.ServiceID)
	if err != nil {
		return Booking{}, lookupErr(err, "Service")
	}
	pet, err := s.pets.GetPet(ctx, ownerID, in.PetID)
	if err != nil {
		return Booking{}, lookupErr(err, "Pet")
	}

	if in.EmployeeID != "" {
		if _, err := s.employees.GetAssignable(ctx, company.ID, in.EmployeeID); err != nil {
			return Booking{}, lookupErr(err, "Employee")
		}
		free, err := s.employees.Available(ctx, company.ID, employees.AvailabilityQuery{
			Date:     in.Date,
			Time:     in.Time,
			Duration: offering.Duration,
		})
		if err != nil {
			return Booking{}, err
		}
		if !containsEmployee(free, in.EmployeeID) {
			return Booking{}, ErrUnavailable
		}
	}

	b := Booking{
		ID:          ids.New(ids.Booking, now),
		CompanyID:   company.ID,
		ServiceID:   offering.ID,
		PetOwnerID:  ownerID,
		PetID:       pet.ID,
		EmployeeID:  in.EmployeeID,
		Status:      StatusPending,
		Date:        in.Date,
		Time:        in.Time,
		Duration:    offering.Duration,
		TotalAmount: offering.Price,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return Booking{}, err
	}

	metrics.ObserveBookingTransition(string(StatusPending))
	s.changed(ctx, b.CompanyID)
	return b, nil
}

// UpdateStatusAsCompany aplica una transición sobre una reserva del tenant.
func (s *Service) UpdateStatusAsCompany(ctx context.Context, companyID, id string, to Status) (Booking, error) {
	companyID, err := tenancy.Scope(companyID)
	if err != nil {
		return Booking{}, ErrInvalidInput
	}
	b, err := s.repo.GetForCompany(ctx, companyID, strings.TrimSpace(id))
	if err != nil {
		return Booking{}, lookupErr(err, "Booking")
	}
	return s.transition(ctx, b, to)
}

// CancelAsOwner: el dueño sólo puede cancelar sus propias reservas abiertas.
func (s *Service) CancelAsOwner(ctx context.Context, ownerID, id string) (Booking, error) {
	b, err := s.repo.GetForOwner(ctx, strings.TrimSpace(ownerID), strings.TrimSpace(id))
	if err != nil {
		return Booking{}, lookupErr(err, "Booking")
	}
	return s.transition(ctx, b, StatusCancelled)
}

func (s *Service) transition(ctx context.Context, b Booking, to Status) (Booking, error) {
	if !CanTransition(b.Status, to) {
		return Booking{}, fmt.Errorf("%w: %s -> %s", ErrBadState, b.Status, to)
	}
	from := b.Status
	b.Status = to
	b.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		return Booking{}, lookupErr(err, "Booking")
	}

	metrics.ObserveBookingTransition(string(to))
	s.log.Info("booking status changed", map[string]any{
		"booking_id": b.ID,
		"company_id": b.CompanyID,
		"from":       string(from),
		"to":         string(to),
	})
	s.changed(ctx, b.CompanyID)
	return b, nil
}

func (s *Service) GetForOwner(ctx context.Context, ownerID, id string) (Booking, error) {
	b, err := s.repo.GetForOwner(ctx, strings.TrimSpace(ownerID), strings.TrimSpace(id))
	if err != nil {
		return Booking{}, lookupErr(err, "Booking")
	}
	return b, nil
}

func (s *Service) ListForCompany(ctx context.Context, companyID string, q Query) ([]Booking, int, error) {
	companyID, err := tenancy.Scope(companyID)
	if err != nil {
		return nil, 0, ErrInvalidInput
	}
	if q.Status != "" {
		if _, ok := ParseStatus(string(q.Status)); !ok {
			return nil, 0, fmt.Errorf("%w: status must be one of: pending, confirmed, completed, cancelled", ErrInvalidInput)
		}
	}
	for _, d := range []string{q.Date, q.DateFrom, q.DateTo} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, 0, fmt.Errorf("%w: dates must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	return s.repo.ListByCompany(ctx, companyID, q)
}

func (s *Service) ListForOwner(ctx context.Context, ownerID string, offset, limit int) ([]Booking, int, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, 0, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerID, offset, limit)
}

// lookupErr traduce los "no encontrado" de otros módulos y del storage.
func lookupErr(err error, what string) error {
	switch {
	case errors.Is(err, tenancy.ErrNotFound),
		errors.Is(err, companies.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, owners.ErrNotFound),
		errors.Is(err, employees.ErrNotFound):
		return notFound(what)
	case errors.Is(err, catalog.ErrInactive):
		return fmt.Errorf("%w: service is not active", ErrInvalidInput)
	case errors.Is(err, employees.ErrInvalidInput):
		return fmt.Errorf("%w: employee is not active", ErrInvalidInput)
	}
	return err
}

func containsEmployee(list []employees.Employee, id string) bool {
	for _, e := range list {
		if e.ID == id {
			return true
		}
	}
	return false
}
