package memory

import (
	"context"
	"sort"
	"sync"

	"pet-care-marketplace/internal/domain/bookings"
	"pet-care-marketplace/internal/domain/employees"
)

// BookingsRepo implementa bookings.Repository y employees.BookingReader.
type BookingsRepo struct {
	mu   sync.RWMutex
	byID map[string]bookings.Booking
}

func NewBookingsRepo() *BookingsRepo {
	return &BookingsRepo{byID: make(map[string]bookings.Booking)}
}

func (r *BookingsRepo) Create(_ context.Context, b bookings.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[b.ID]; exists {
		return ErrDuplicate
	}
	r.byID[b.ID] = b
	return nil
}

func (r *BookingsRepo) GetForCompany(_ context.Context, companyID, id string) (bookings.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok || b.CompanyID != companyID {
		return bookings.Booking{}, ErrNotFound
	}
	return b, nil
}

func (r *BookingsRepo) GetForOwner(_ context.Context, ownerID, id string) (bookings.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok || b.PetOwnerID != ownerID {
		return bookings.Booking{}, ErrNotFound
	}
	return b, nil
}

func (r *BookingsRepo) UpdateStatus(_ context.Context, b bookings.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[b.ID]
	if !ok {
		return ErrNotFound
	}
	cur.Status = b.Status
	cur.UpdatedAt = b.UpdatedAt
	r.byID[b.ID] = cur
	return nil
}

func (r *BookingsRepo) ListByCompany(_ context.Context, companyID string, q bookings.Query) ([]bookings.Booking, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bookings.Booking, 0)
	for _, b := range r.byID {
		if b.CompanyID != companyID || !matchesQuery(b, q) {
			continue
		}
		out = append(out, b)
	}
	sortByAgendaDesc(out)
	return paginate(out, q.Offset, q.Limit), len(out), nil
}

func (r *BookingsRepo) ListByOwner(_ context.Context, ownerID string, offset, limit int) ([]bookings.Booking, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bookings.Booking, 0)
	for _, b := range r.byID {
		if b.PetOwnerID == ownerID {
			out = append(out, b)
		}
	}
	sortByAgendaDesc(out)
	return paginate(out, offset, limit), len(out), nil
}

func (r *BookingsRepo) CountOpenByEmployee(_ context.Context, companyID, employeeID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, b := range r.byID {
		if b.CompanyID == companyID && b.EmployeeID == employeeID && b.Status.IsOpen() {
			n++
		}
	}
	return n, nil
}

func (r *BookingsRepo) OpenSlotsOn(_ context.Context, companyID, date string) ([]employees.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]employees.Slot, 0)
	for _, b := range r.byID {
		if b.CompanyID != companyID || b.Date != date || b.EmployeeID == "" || !b.Status.IsOpen() {
			continue
		}
		out = append(out, employees.Slot{EmployeeID: b.EmployeeID, Time: b.Time, Duration: b.Duration})
	}
	return out, nil
}

// Snapshot: todas las reservas de la empresa (analytics).
func (r *BookingsRepo) Snapshot(companyID string) []bookings.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bookings.Booking, 0)
	for _, b := range r.byID {
		if b.CompanyID == companyID {
			out = append(out, b)
		}
	}
	return out
}

func matchesQuery(b bookings.Booking, q bookings.Query) bool {
	if q.Status != "" && b.Status != q.Status {
		return false
	}
	if q.Date != "" && b.Date != q.Date {
		return false
	}
	if q.DateFrom != "" && b.Date < q.DateFrom {
		return false
	}
	if q.DateTo != "" && b.Date > q.DateTo {
		return false
	}
	return true
}

func sortByAgendaDesc(items []bookings.Booking) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date > items[j].Date
		}
		if items[i].Time != items[j].Time {
			return items[i].Time > items[j].Time
		}
		return items[i].ID > items[j].ID
	})
}
