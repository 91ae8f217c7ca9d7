package memory

import (
	"context"
	"sort"
	"sync"

	"pet-care-marketplace/internal/domain/reviews"
)

type ReviewsRepo struct {
	mu    sync.RWMutex
	items []reviews.Review
}

func NewReviewsRepo() *ReviewsRepo {
	return &ReviewsRepo{}
}

// Create: una reseña por reserva.
func (r *ReviewsRepo) Create(_ context.Context, rv reviews.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.items {
		if o.ID == rv.ID || (rv.BookingID != "" && o.BookingID == rv.BookingID) {
			return ErrDuplicate
		}
	}
	r.items = append(r.items, rv)
	return nil
}

func (r *ReviewsRepo) ListByCompany(_ context.Context, companyID string, offset, limit int) ([]reviews.Review, int, error) {
	out := r.Snapshot(companyID)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, offset, limit), len(out), nil
}

func (r *ReviewsRepo) Snapshot(companyID string) []reviews.Review {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reviews.Review, 0)
	for _, rv := range r.items {
		if rv.CompanyID == companyID {
			out = append(out, rv)
		}
	}
	return out
}
