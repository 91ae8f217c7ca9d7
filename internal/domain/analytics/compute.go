package analytics

import (
	"math"
	"sort"
	"strconv"

	"pet-care-marketplace/internal/domain/bookings"
	"pet-care-marketplace/internal/domain/reviews"
)

// ComputeOverview calcula el resumen a partir de todas las reservas y reseñas
// de una empresa. Lo usa el storage en memoria; Postgres lo resuelve en SQL.
func ComputeOverview(bks []bookings.Booking, rvs []reviews.Review, w Window) Overview {
	var ov Overview

	inWindow := map[string]bool{}
	before := map[string]bool{}
	for _, b := range bks {
		ov.TotalBookings++
		if b.Status == bookings.StatusCompleted {
			ov.TotalRevenue += b.TotalAmount
		}
		if b.Date < w.Start {
			before[b.PetOwnerID] = true
			continue
		}
		ov.PeriodBookings++
		if b.Status == bookings.StatusCompleted {
			ov.PeriodRevenue += b.TotalAmount
		}
		inWindow[b.PetOwnerID] = true
	}
	for owner := range inWindow {
		if before[owner] {
			ov.ReturningCustomers++
		} else {
			ov.NewCustomers++
		}
	}

	sum := 0
	for _, rv := range rvs {
		sum += rv.Rating
	}
	ov.TotalReviews = len(rvs)
	if len(rvs) > 0 {
		ov.AverageRating = round(float64(sum)/float64(len(rvs)), 1)
	}
	ov.TotalRevenue = round(ov.TotalRevenue, 2)
	ov.PeriodRevenue = round(ov.PeriodRevenue, 2)
	return ov
}

// ComputeStats agrega la ventana. names resuelve serviceId → nombre (puede ser nil).
func ComputeStats(bks []bookings.Booking, rvs []reviews.Review, names map[string]string, w Window) Stats {
	st := Stats{
		Days:               w.Days,
		BookingsByStatus:   EmptyStatusCounts(),
		RevenueByDay:       []DayRevenue{},
		TopServices:        []ServiceCount{},
		RatingDistribution: EmptyRatingDistribution(),
	}

	days := map[string]*DayRevenue{}
	services := map[string]*ServiceCount{}
	for _, b := range bks {
		if b.Date < w.Start {
			continue
		}
		st.BookingsByStatus[string(b.Status)]++

		d, ok := days[b.Date]
		if !ok {
			d = &DayRevenue{Date: b.Date}
			days[b.Date] = d
		}
		d.Bookings++

		sc, ok := services[b.ServiceID]
		if !ok {
			sc = &ServiceCount{ServiceID: b.ServiceID, Name: names[b.ServiceID]}
			services[b.ServiceID] = sc
		}
		sc.Bookings++

		if b.Status == bookings.StatusCompleted {
			d.Revenue += b.TotalAmount
			sc.Revenue += b.TotalAmount
		}
	}

	for _, d := range days {
		d.Revenue = round(d.Revenue, 2)
		st.RevenueByDay = append(st.RevenueByDay, *d)
	}
	sort.Slice(st.RevenueByDay, func(i, j int) bool { return st.RevenueByDay[i].Date < st.RevenueByDay[j].Date })

	for _, sc := range services {
		sc.Revenue = round(sc.Revenue, 2)
		st.TopServices = append(st.TopServices, *sc)
	}
	SortTopServices(st.TopServices)
	if len(st.TopServices) > TopServicesLimit {
		st.TopServices = st.TopServices[:TopServicesLimit]
	}

	start := w.StartTime()
	for _, rv := range rvs {
		if rv.CreatedAt.Before(start) {
			continue
		}
		if rv.Rating >= 1 && rv.Rating <= 5 {
			st.RatingDistribution[strconv.Itoa(rv.Rating)]++
		}
	}
	return st
}

// SortTopServices ordena por reservas desc; empate por id.
func SortTopServices(items []ServiceCount) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Bookings != items[j].Bookings {
			return items[i].Bookings > items[j].Bookings
		}
		return items[i].ServiceID < items[j].ServiceID
	})
}

func EmptyStatusCounts() map[string]int {
	return map[string]int{
		string(bookings.StatusPending):   0,
		string(bookings.StatusConfirmed): 0,
		string(bookings.StatusCompleted): 0,
		string(bookings.StatusCancelled): 0,
	}
}

func EmptyRatingDistribution() map[string]int {
	return map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
