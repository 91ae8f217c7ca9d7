package analytics

import (
	"testing"
	"time"

	"pet-care-marketplace/internal/domain/bookings"
	"pet-care-marketplace/internal/domain/reviews"
)

var now = time.Date(2025, 3, 31, 15, 30, 0, 0, time.UTC)

func TestNewWindow(t *testing.T) {
	w := NewWindow(now, 30)
	if w.Today != "2025-03-31" || w.Start != "2025-03-01" || w.Days != 30 {
		t.Fatalf("unexpected window %+v", w)
	}
	if NewWindow(now, 0).Days != DefaultDays {
		t.Fatalf("expected default days for 0")
	}
	if NewWindow(now, 1000).Days != MaxDays {
		t.Fatalf("expected clamp to MaxDays")
	}
}

func TestComputeOverview_EmptyCompany(t *testing.T) {
	ov := ComputeOverview(nil, nil, NewWindow(now, 30))
	if ov != (Overview{}) {
		t.Fatalf("expected all zeros, got %+v", ov)
	}
}

func TestComputeOverview_RevenueAndRating(t *testing.T) {
	w := NewWindow(now, 30)
	bks := []bookings.Booking{
		{PetOwnerID: "o1", Date: "2025-03-10", Status: bookings.StatusCompleted, TotalAmount: 40.10},
		{PetOwnerID: "o1", Date: "2025-03-12", Status: bookings.StatusCancelled, TotalAmount: 99},
		{PetOwnerID: "o2", Date: "2025-01-05", Status: bookings.StatusCompleted, TotalAmount: 20.25},
	}
	rvs := []reviews.Review{{Rating: 5}, {Rating: 4}, {Rating: 4}}

	ov := ComputeOverview(bks, rvs, w)
	if ov.TotalBookings != 3 || ov.PeriodBookings != 2 {
		t.Fatalf("unexpected counts %+v", ov)
	}
	if ov.TotalRevenue != 60.35 || ov.PeriodRevenue != 40.1 {
		t.Fatalf("unexpected revenue %+v", ov)
	}
	if ov.AverageRating != 4.3 || ov.TotalReviews != 3 {
		t.Fatalf("unexpected rating %+v", ov)
	}
}

func TestComputeOverview_NewVersusReturning(t *testing.T) {
	w := NewWindow(now, 30)
	bks := []bookings.Booking{
		// o1: antes y dentro de la ventana → returning
		{PetOwnerID: "o1", Date: "2025-02-01", Status: bookings.StatusCompleted},
		{PetOwnerID: "o1", Date: "2025-03-15", Status: bookings.StatusPending},
		{PetOwnerID: "o1", Date: "2025-03-20", Status: bookings.StatusPending},
		// o2: sólo dentro → new, aunque tenga dos reservas
		{PetOwnerID: "o2", Date: "2025-03-02", Status: bookings.StatusConfirmed},
		{PetOwnerID: "o2", Date: "2025-03-03", Status: bookings.StatusConfirmed},
		// o3: sólo antes → no cuenta
		{PetOwnerID: "o3", Date: "2024-12-01", Status: bookings.StatusCompleted},
		// o4: el día de inicio ya es ventana
		{PetOwnerID: "o4", Date: "2025-03-01", Status: bookings.StatusPending},
	}

	ov := ComputeOverview(bks, nil, w)
	if ov.NewCustomers != 2 || ov.ReturningCustomers != 1 {
		t.Fatalf("expected new=2 returning=1, got new=%d returning=%d", ov.NewCustomers, ov.ReturningCustomers)
	}
}

func TestComputeStats(t *testing.T) {
	w := NewWindow(now, 30)
	bks := []bookings.Booking{
		{ServiceID: "svc_a", Date: "2025-03-10", Status: bookings.StatusCompleted, TotalAmount: 10},
		{ServiceID: "svc_a", Date: "2025-03-10", Status: bookings.StatusPending, TotalAmount: 10},
		{ServiceID: "svc_b", Date: "2025-03-05", Status: bookings.StatusCompleted, TotalAmount: 25.5},
		{ServiceID: "svc_c", Date: "2025-01-01", Status: bookings.StatusCompleted, TotalAmount: 100},
	}
	rvs := []reviews.Review{
		{Rating: 5, CreatedAt: now.AddDate(0, 0, -2)},
		{Rating: 3, CreatedAt: now.AddDate(0, 0, -60)},
	}

	st := ComputeStats(bks, rvs, map[string]string{"svc_a": "Baño"}, w)

	if st.BookingsByStatus["completed"] != 2 || st.BookingsByStatus["pending"] != 1 || st.BookingsByStatus["cancelled"] != 0 {
		t.Fatalf("unexpected status counts %v", st.BookingsByStatus)
	}
	if len(st.RevenueByDay) != 2 || st.RevenueByDay[0].Date != "2025-03-05" || st.RevenueByDay[1].Revenue != 10 {
		t.Fatalf("unexpected revenue by day %+v", st.RevenueByDay)
	}
	if len(st.TopServices) != 2 || st.TopServices[0].ServiceID != "svc_a" || st.TopServices[0].Name != "Baño" {
		t.Fatalf("unexpected top services %+v", st.TopServices)
	}
	if st.RatingDistribution["5"] != 1 || st.RatingDistribution["3"] != 0 {
		t.Fatalf("unexpected rating distribution %v", st.RatingDistribution)
	}
}
