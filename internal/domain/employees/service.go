package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-care-marketplace/internal/domain/tenancy"
	"pet-care-marketplace/internal/platform/ids"
	"pet-care-marketplace/internal/platform/logger"
	"pet-care-marketplace/internal/platform/validation"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("employee not found")
	ErrDuplicateEmail = errors.New("an employee with this email already exists")
	ErrEmployeeInUse  = errors.New("cannot deactivate employee with pending or confirmed bookings")
)

const DefaultSlotMinutes = 60

type Service struct {
	repo     tenancy.Repository[Employee]
	bookings BookingReader
	tenants  tenancy.Ensurer
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo tenancy.Repository[Employee], bookings BookingReader, tenants tenancy.Ensurer, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		bookings: bookings,
		tenants:  tenants,
		log:      log,
		now:      time.Now,
	}
}

// Input usa tags de validator; los mensajes salen con el nombre json.
type Input struct {
	FirstName    string       `json:"firstName" validate:"required"`
	LastName     string       `json:"lastName" validate:"required"`
	Email        string       `json:"email" validate:"required,email"`
	Phone        string       `json:"phone"`
	Position     string       `json:"position"`
	Specialties  []string     `json:"specialties"`
	WorkingHours WorkingHours `json:"workingHours"`
	HourlyRate   float64      `json:"hourlyRate" validate:"gte=0"`
	HireDate     string       `json:"hireDate" validate:"omitempty,datetime=2006-01-02"`
	Notes        string       `json:"notes"`
	Active       *bool        `json:"active"`
}

func (in *Input) normalize() error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Position = strings.TrimSpace(in.Position)
	in.HireDate = strings.TrimSpace(in.HireDate)
	in.Notes = strings.TrimSpace(in.Notes)

	if err := validation.Struct(in); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	for day, wd := range in.WorkingHours {
		if wd.Off {
			continue
		}
		start, okS := validation.ParseHHMM(wd.Start)
		end, okE := validation.ParseHHMM(wd.End)
		if !okS || !okE || end <= start {
			return fmt.Errorf("%w: workingHours.%s requires start < end as HH:MM", ErrInvalidInput, day)
		}
	}

	specs := make([]string, 0, len(in.Specialties))
	for _, s := range in.Specialties {
		if s = strings.TrimSpace(s); s != "" {
			specs = append(specs, s)
		}
	}
	in.Specialties = specs
	if in.WorkingHours == nil {
		in.WorkingHours = WorkingHours{}
	}
	return nil
}

// Create da de alta un empleado. (companyId, email) debe ser único.
func (s *Service) Create(ctx context.Context, companyID string, in Input) (Employee, error) {
	companyID, err := tenancy.Scope(companyID)
	if err != nil {
		return Employee{}, ErrInvalidInput
	}
	if err := in.normalize(); err != nil {
		return Employee{}, err
	}
	if err := s.tenants.Ensure(ctx, companyID); err != nil {
		return Employee{}, err
	}

	now := s.now().UTC()
	e := Employee{
		ID:           ids.New(ids.Employee, now),
		CompanyID:    companyID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		Position:     in.Position,
		Specialties:  in.Specialties,
		WorkingHours: in.WorkingHours,
		HourlyRate:   in.HourlyRate,
		HireDate:     in.HireDate,
		Notes:        in.Notes,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Active != nil {
		e.Active = *in.Active
	}

	if err := s.repo.Create(ctx, e); err != nil {
		if errors.Is(err, tenancy.ErrDuplicate) {
			return Employee{}, ErrDuplicateEmail
		}
		return Employee{}, err
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, companyID, id string) (Employee, error) {
	e, err := s.repo.Get(ctx, strings.TrimSpace(companyID), strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, tenancy.ErrNotFound) {
			return Employee{}, ErrNotFound
		}
		return Employee{}, err
	}
	return e, nil
}

// GetAssignable devuelve el empleado sólo si está activo (para asignar reservas).
func (s *Service) GetAssignable(ctx context.Context, companyID, id string) (Employee, error) {
	e, err := s.Get(ctx, companyID, id)
	if err != nil {
		return Employee{}, err
	}
	if !e.Active {
		return Employee{}, fmt.Errorf("%w: employee is not active", ErrInvalidInput)
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, companyID string, f Filter, offset, limit int) ([]Employee, int, error) {
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
	if p := strings.TrimSpace(f.Position); p != "" {
		q.Filters = map[string]string{"position": p}
	}
	return s.repo.List(ctx, companyID, q)
}

// Update reemplaza los datos; el email no puede chocar con otro empleado del tenant.
func (s *Service) Update(ctx context.Context, companyID, id string, in Input) (Employee, error) {
	if err := in.normalize(); err != nil {
		return Employee{}, err
	}
	cur, err := s.Get(ctx, companyID, id)
	if err != nil {
		return Employee{}, err
	}

	cur.FirstName = in.FirstName
	cur.LastName = in.LastName
	cur.Email = in.Email
	cur.Phone = in.Phone
	cur.Position = in.Position
	cur.Specialties = in.Specialties
	cur.WorkingHours = in.WorkingHours
	cur.HourlyRate = in.HourlyRate
	cur.HireDate = in.HireDate
	cur.Notes = in.Notes
	if in.Active != nil {
		if !*in.Active && cur.Active {
			if err := s.checkDeactivation(ctx, cur); err != nil {
				return Employee{}, err
			}
		}
		cur.Active = *in.Active
	}
	cur.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, cur); err != nil {
		switch {
		case errors.Is(err, tenancy.ErrDuplicate):
			return Employee{}, ErrDuplicateEmail
		case errors.Is(err, tenancy.ErrNotFound):
			return Employee{}, ErrNotFound
		}
		return Employee{}, err
	}
	return cur, nil
}

// Deactivate es soft delete. Se rechaza si hay reservas abiertas.
func (s *Service) Deactivate(ctx context.Context, companyID, id string) error {
	e, err := s.Get(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := s.checkDeactivation(ctx, e); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, e.CompanyID, e.ID, s.now().UTC()); err != nil {
		if errors.Is(err, tenancy.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) checkDeactivation(ctx context.Context, e Employee) error {
	n, err := s.bookings.CountOpenByEmployee(ctx, e.CompanyID, e.ID)
	if err != nil {
		return err
	}
	if err := CheckDeactivation(n); err != nil {
		s.log.Info("employee deactivation rejected", map[string]any{
			"company_id":    e.CompanyID,
			"employee_id":   e.ID,
			"open_bookings": n,
		})
		return err
	}
	return nil
}

// Available lista empleados activos sin reservas abiertas que se solapen con
// [time, time+duration) en date. Sin date o time devuelve todos los activos.
func (s *Service) Available(ctx context.Context, companyID string, q AvailabilityQuery) ([]Employee, error) {
	active := true
	all, _, err := s.List(ctx, companyID, Filter{Active: &active}, 0, 0)
	if err != nil {
		return nil, err
	}

	q.Date = strings.TrimSpace(q.Date)
	q.Time = strings.TrimSpace(q.Time)
	if q.Date == "" || q.Time == "" {
		return all, nil
	}
	if _, err := time.Parse("2006-01-02", q.Date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	start, ok := validation.ParseHHMM(q.Time)
	if !ok {
		return nil, fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
	}
	if q.Duration <= 0 {
		q.Duration = DefaultSlotMinutes
	}

	slots, err := s.bookings.OpenSlotsOn(ctx, strings.TrimSpace(companyID), q.Date)
	if err != nil {
		return nil, err
	}
	busy := map[string]bool{}
	for _, sl := range slots {
		bStart, ok := validation.ParseHHMM(sl.Time)
		if !ok {
			continue
		}
		dur := sl.Duration
		if dur <= 0 {
			dur = DefaultSlotMinutes
		}
		if Overlaps(start, q.Duration, bStart, dur) {
			busy[sl.EmployeeID] = true
		}
	}

	out := make([]Employee, 0, len(all))
	for _, e := range all {
		if !busy[e.ID] {
			out = append(out, e)
		}
	}
	return out, nil
}
