package memory

import (
	"context"

	"pet-care-marketplace/internal/domain/analytics"
	"pet-care-marketplace/internal/domain/catalog"
)

// AnalyticsRepo recalcula en cada llamada sobre copias de las otras tablas.
type AnalyticsRepo struct {
	bookings *BookingsRepo
	reviews  *ReviewsRepo
	services *TenantStore[catalog.Offering]
}

func NewAnalyticsRepo(b *BookingsRepo, r *ReviewsRepo, s *TenantStore[catalog.Offering]) *AnalyticsRepo {
	return &AnalyticsRepo{bookings: b, reviews: r, services: s}
}

func (r *AnalyticsRepo) Overview(_ context.Context, companyID string, w analytics.Window) (analytics.Overview, error) {
	return analytics.ComputeOverview(r.bookings.Snapshot(companyID), r.reviews.Snapshot(companyID), w), nil
}

func (r *AnalyticsRepo) Stats(_ context.Context, companyID string, w analytics.Window) (analytics.Stats, error) {
	names := map[string]string{}
	for _, o := range r.services.Snapshot(companyID) {
		names[o.ID] = o.Name
	}
	return analytics.ComputeStats(r.bookings.Snapshot(companyID), r.reviews.Snapshot(companyID), names, w), nil
}
