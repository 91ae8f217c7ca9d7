package analytics

import (
	"context"

	"pet-care-marketplace/internal/domain/bookings"
	"pet-care-marketplace/internal/domain/reviews"
)

// Repository resuelve las agregaciones; siempre recalcula desde las tablas.
type Repository interface {
	Overview(ctx context.Context, companyID string, w Window) (Overview, error)
	Stats(ctx context.Context, companyID string, w Window) (Stats, error)
}

type BookingLister interface {
	ListByCompany(ctx context.Context, companyID string, q bookings.Query) ([]bookings.Booking, int, error)
}

type ReviewLister interface {
	ListByCompany(ctx context.Context, companyID string, offset, limit int) ([]reviews.Review, int, error)
}
