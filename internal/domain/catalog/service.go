package catalog

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
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("service not found")
	ErrInactive     = errors.New("service is not active")
)

const DefaultDuration = 60

type Service struct {
	repo    tenancy.Repository[Offering]
	tenants tenancy.Ensurer
	log     logger.Logger
	now     func() time.Time
}

func NewService(repo tenancy.Repository[Offering], tenants tenancy.Ensurer, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		tenants: tenants,
		log:     log,
		now:     time.Now,
	}
}

type Input struct {
	Name        string
	Description string
	Category    string
	Price       float64
	Duration    int
	Active      *bool
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Price < 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return fmt.Errorf("%w: price must be greater than or equal to 0", ErrInvalidInput)
	}
	if in.Duration < 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, companyID string, in Input) (Offering, error) {
	companyID, err := tenancy.Scope(companyID)
	if err != nil {
		return Offering{}, ErrInvalidInput
	}
	if err := in.validate(); err != nil {
		return Offering{}, err
	}
	if err := s.tenants.Ensure(ctx, companyID); err != nil {
		return Offering{}, err
	}

	now := s.now().UTC()
	o := Offering{
		ID:          ids.New(ids.Service, now),
		CompanyID:   companyID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		Price:       roundMoney(in.Price),
		Duration:    in.Duration,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if o.Duration == 0 {
		o.Duration = DefaultDuration
	}
	if in.Active != nil {
		o.Active = *in.Active
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return Offering{}, err
	}
	return o, nil
}

func (s *Service) Get(ctx context.Context, companyID, id string) (Offering, error) {
	o, err := s.repo.Get(ctx, strings.TrimSpace(companyID), strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, tenancy.ErrNotFound) {
			return Offering{}, ErrNotFound
		}
		return Offering{}, err
	}
	return o, nil
}

// GetBookable devuelve el servicio sólo si está activo.
func (s *Service) GetBookable(ctx context.Context, companyID, id string) (Offering, error) {
	o, err := s.Get(ctx, companyID, id)
	if err != nil {
		return Offering{}, err
	}
	if !o.Active {
		return Offering{}, ErrInactive
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, companyID string, f Filter, offset, limit int) ([]Offering, int, error) {
	companyID, err := tenancy.Scope(companyID)
	if err != nil {
		return nil, 0, ErrInvalidInput
	}
	q := tenancy.ListQuery{
		Offset: offset,
		Limit:  limit,
		Active: f.Active,
		Search: strings.TrimSpace(f.Search),
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		q.Filters = map[string]string{"category": strings.ToLower(c)}
	}
	return s.repo.List(ctx, companyID, q)
}

// ListPublic: servicios activos de una empresa, sin paginar.
func (s *Service) ListPublic(ctx context.Context, companyID string) ([]Offering, error) {
	active := true
	items, _, err := s.List(ctx, companyID, Filter{Active: &active}, 0, 0)
	return items, err
}

func (s *Service) Update(ctx context.Context, companyID, id string, in Input) (Offering, error) {
	if err := in.validate(); err != nil {
		return Offering{}, err
	}
	cur, err := s.Get(ctx, companyID, id)
	if err != nil {
		return Offering{}, err
	}

	cur.Name = strings.TrimSpace(in.Name)
	cur.Description = strings.TrimSpace(in.Description)
	cur.Category = strings.ToLower(strings.TrimSpace(in.Category))
	cur.Price = roundMoney(in.Price)
	if in.Duration > 0 {
		cur.Duration = in.Duration
	}
	if in.Active != nil {
		cur.Active = *in.Active
	}
	cur.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, cur); err != nil {
		if errors.Is(err, tenancy.ErrNotFound) {
			return Offering{}, ErrNotFound
		}
		return Offering{}, err
	}
	return cur, nil
}

// Deactivate es soft delete. Las reservas existentes conservan su snapshot.
func (s *Service) Deactivate(ctx context.Context, companyID, id string) error {
	err := s.repo.Deactivate(ctx, strings.TrimSpace(companyID), strings.TrimSpace(id), s.now().UTC())
	if errors.Is(err, tenancy.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
