package analytics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"pet-care-marketplace/internal/domain/bookings"
	"pet-care-marketplace/internal/domain/tenancy"
	"pet-care-marketplace/internal/platform/cache"
	"pet-care-marketplace/internal/platform/logger"
	"pet-care-marketplace/internal/platform/metrics"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo     Repository
	bookings BookingLister
	reviews  ReviewLister
	cache    cache.Cache
	ttl      time.Duration
	log      logger.Logger
	now      func() time.Time
}

type Options struct {
	// Cache nil o TTL <= 0 desactiva el read-through.
	Cache cache.Cache
	TTL   time.Duration
}

func NewService(repo Repository, bookings BookingLister, reviews ReviewLister, log logger.Logger, opts Options) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		bookings: bookings,
		reviews:  reviews,
		cache:    opts.Cache,
		ttl:      opts.TTL,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

func cacheKey(companyID, kind string, w Window) string {
	return fmt.Sprintf("analytics:%s:%s:%d:%s", companyID, kind, w.Days, w.Today)
}

// Invalidate descarta lo cacheado de la empresa. Se engancha a OnChange de bookings y reviews.
func (s *Service) Invalidate(ctx context.Context, companyID string) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.DeletePrefix(ctx, "analytics:"+companyID+":"); err != nil {
		s.log.Warn("analytics cache invalidation failed", map[string]any{
			"company_id": companyID,
			"error":      err,
		})
	}
}

func (s *Service) Overview(ctx context.Context, companyID string, days int) (Overview, error) {
	companyID, err := tenancy.Scope(companyID)
	if err != nil {
		return Overview{}, ErrInvalidInput
	}
	w := NewWindow(s.now(), days)

	return readThrough(ctx, s, cacheKey(companyID, "overview", w), func() (Overview, error) {
		return s.repo.Overview(ctx, companyID, w)
	})
}

func (s *Service) Stats(ctx context.Context, companyID string, days int) (Stats, error) {
	companyID, err := tenancy.Scope(companyID)
	if err != nil {
		return Stats{}, ErrInvalidInput
	}
	w := NewWindow(s.now(), days)

	return readThrough(ctx, s, cacheKey(companyID, "stats", w), func() (Stats, error) {
		return s.repo.Stats(ctx, companyID, w)
	})
}

// DashboardData junta el overview con la agenda de hoy, los próximos 7 días y las últimas reseñas.
func (s *Service) DashboardData(ctx context.Context, companyID string, days int) (Dashboard, error) {
	companyID, err := tenancy.Scope(companyID)
	if err != nil {
		return Dashboard{}, ErrInvalidInput
	}
	ov, err := s.Overview(ctx, companyID, days)
	if err != nil {
		return Dashboard{}, err
	}
	w := NewWindow(s.now(), days)
	today, _ := time.Parse(dateLayout, w.Today)

	todays, _, err := s.bookings.ListByCompany(ctx, companyID, bookings.Query{Date: w.Today})
	if err != nil {
		return Dashboard{}, err
	}
	upcoming, _, err := s.bookings.ListByCompany(ctx, companyID, bookings.Query{
		DateFrom: today.AddDate(0, 0, 1).Format(dateLayout),
		DateTo:   today.AddDate(0, 0, upcomingDays).Format(dateLayout),
	})
	if err != nil {
		return Dashboard{}, err
	}
	latest, _, err := s.reviews.ListByCompany(ctx, companyID, 0, latestReviewsLimit)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		Overview:         ov,
		TodayBookings:    make([]BookingSummary, 0, len(todays)),
		UpcomingBookings: make([]BookingSummary, 0, len(upcoming)),
		RecentReviews:    make([]ReviewSummary, 0, len(latest)),
	}
	for _, b := range todays {
		d.TodayBookings = append(d.TodayBookings, bookingSummary(b))
	}
	for _, b := range upcoming {
		if b.Status.IsOpen() {
			d.UpcomingBookings = append(d.UpcomingBookings, bookingSummary(b))
		}
	}
	sortAgenda(d.TodayBookings)
	sortAgenda(d.UpcomingBookings)
	for _, rv := range latest {
		d.RecentReviews = append(d.RecentReviews, ReviewSummary{
			ID:         rv.ID,
			PetOwnerID: rv.PetOwnerID,
			Rating:     rv.Rating,
			Comment:    rv.Comment,
			CreatedAt:  rv.CreatedAt,
		})
	}
	return d, nil
}

// readThrough: un error del cache nunca rompe la lectura.
func readThrough[T any](ctx context.Context, s *Service, key string, load func() (T, error)) (T, error) {
	if s.cacheEnabled() {
		var cached T
		err := cache.GetJSON(ctx, s.cache, key, &cached)
		if err == nil {
			metrics.ObserveCache("analytics", true)
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("analytics cache read failed", map[string]any{"key": key, "error": err})
		}
		metrics.ObserveCache("analytics", false)
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if s.cacheEnabled() {
		if err := cache.SetJSON(ctx, s.cache, key, v, s.ttl); err != nil {
			s.log.Warn("analytics cache write failed", map[string]any{"key": key, "error": err})
		}
	}
	return v, nil
}

func sortAgenda(items []BookingSummary) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		return items[i].Time < items[j].Time
	})
}

func bookingSummary(b bookings.Booking) BookingSummary {
	return BookingSummary{
		ID:          b.ID,
		ServiceID:   b.ServiceID,
		PetOwnerID:  b.PetOwnerID,
		PetID:       b.PetID,
		EmployeeID:  b.EmployeeID,
		Status:      string(b.Status),
		Date:        b.Date,
		Time:        b.Time,
		Duration:    b.Duration,
		TotalAmount: b.TotalAmount,
	}
}
