package waitlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-care-marketplace/internal/domain/tenancy"
	"pet-care-marketplace/internal/platform/ids"
	"pet-care-marketplace/internal/platform/logger"
	"pet-care-marketplace/internal/platform/metrics"
	"pet-care-marketplace/internal/platform/validation"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("already on the waitlist")
)

const recentLimit = 10

type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, log: log, now: time.Now}
}

// unknownTypeLabel agrupa los type inválidos para no abrir una serie por valor.
const unknownTypeLabel = "unknown"

type JoinInput struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Phone string `json:"phone" validate:"max=30"`
	Type  string `json:"type"`
}

func (s *Service) Join(ctx context.Context, in JoinInput) (Entry, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)

	typ, ok := ParseType(strings.TrimSpace(in.Type))
	if !ok {
		metrics.ObserveWaitlistJoin(unknownTypeLabel, "invalid")
		return Entry{}, fmt.Errorf("%w: type must be one of: mobile_app, business_app, general", ErrInvalidInput)
	}
	if err := validation.Struct(in); err != nil {
		metrics.ObserveWaitlistJoin(string(typ), "invalid")
		return Entry{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	now := s.now().UTC()
	e := Entry{
		ID:        ids.New(ids.Waitlist, now),
		Email:     in.Email,
		Phone:     in.Phone,
		Type:      typ,
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		if errors.Is(err, tenancy.ErrDuplicate) {
			metrics.ObserveWaitlistJoin(string(typ), "duplicate")
			return Entry{}, ErrDuplicate
		}
		return Entry{}, err
	}

	metrics.ObserveWaitlistJoin(string(typ), "created")
	s.log.Info("waitlist signup", map[string]any{"id": e.ID, "type": string(typ)})
	return e, nil
}

func (s *Service) List(ctx context.Context, typ string, offset, limit int) ([]Entry, int, error) {
	var t Type
	if typ = strings.TrimSpace(typ); typ != "" {
		parsed, ok := ParseType(typ)
		if !ok {
			return nil, 0, fmt.Errorf("%w: type must be one of: mobile_app, business_app, general", ErrInvalidInput)
		}
		t = parsed
	}
	return s.repo.List(ctx, t, offset, limit)
}

// Stats: totales por tipo, altas de hoy / 7 / 30 días y las 10 más recientes.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	byType, err := s.repo.CountByType(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{ByType: map[Type]int{}}
	for _, t := range Types() {
		st.ByType[t] = byType[t]
		st.Total += byType[t]
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	buckets := []struct {
		since time.Time
		dst   *int
	}{
		{today, &st.Today},
		{today.AddDate(0, 0, -7), &st.Last7Days},
		{today.AddDate(0, 0, -30), &st.Last30Days},
	}
	for _, b := range buckets {
		n, err := s.repo.CountSince(ctx, b.since)
		if err != nil {
			return Stats{}, err
		}
		*b.dst = n
	}

	st.Recent, _, err = s.repo.List(ctx, "", 0, recentLimit)
	if err != nil {
		return Stats{}, err
	}
	return st, nil
}
