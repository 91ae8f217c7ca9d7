package postgres

import (
	"context"
	"database/sql"
	"strconv"

	"pet-care-marketplace/internal/domain/analytics"
)

// AnalyticsRepo agrega con SQL; no hay vistas materializadas.
type AnalyticsRepo struct {
	db *sql.DB
}

func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

func (r *AnalyticsRepo) Overview(ctx context.Context, companyID string, w analytics.Window) (analytics.Overview, error) {
	var ov analytics.Overview

	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE booking_date >= $2::date),
			COALESCE(ROUND(SUM(total_amount) FILTER (WHERE status = 'completed'), 2), 0),
			COALESCE(ROUND(SUM(total_amount) FILTER (WHERE status = 'completed' AND booking_date >= $2::date), 2), 0)
		FROM bookings
		WHERE company_id = $1
	`, companyID, w.Start).Scan(&ov.TotalBookings, &ov.PeriodBookings, &ov.TotalRevenue, &ov.PeriodRevenue)
	if err != nil {
		return analytics.Overview{}, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COALESCE(ROUND(AVG(rating)::numeric, 1), 0), COUNT(*)
		FROM reviews
		WHERE company_id = $1
	`, companyID).Scan(&ov.AverageRating, &ov.TotalReviews)
	if err != nil {
		return analytics.Overview{}, err
	}

	// new: dueño con reserva en la ventana y ninguna antes del inicio.
	err = r.db.QueryRowContext(ctx, `
		WITH in_window AS (
			SELECT DISTINCT pet_owner_id FROM bookings
			WHERE company_id = $1 AND booking_date >= $2::date
		), before_window AS (
			SELECT DISTINCT pet_owner_id FROM bookings
			WHERE company_id = $1 AND booking_date < $2::date
		)
		SELECT
			COUNT(*) FILTER (WHERE b.pet_owner_id IS NULL),
			COUNT(*) FILTER (WHERE b.pet_owner_id IS NOT NULL)
		FROM in_window w
		LEFT JOIN before_window b ON b.pet_owner_id = w.pet_owner_id
	`, companyID, w.Start).Scan(&ov.NewCustomers, &ov.ReturningCustomers)
	if err != nil {
		return analytics.Overview{}, err
	}
	return ov, nil
}

func (r *AnalyticsRepo) Stats(ctx context.Context, companyID string, w analytics.Window) (analytics.Stats, error) {
	st := analytics.Stats{
		Days:               w.Days,
		BookingsByStatus:   analytics.EmptyStatusCounts(),
		RevenueByDay:       []analytics.DayRevenue{},
		TopServices:        []analytics.ServiceCount{},
		RatingDistribution: analytics.EmptyRatingDistribution(),
	}

	if err := r.statusCounts(ctx, companyID, w, st.BookingsByStatus); err != nil {
		return analytics.Stats{}, err
	}
	days, err := r.revenueByDay(ctx, companyID, w)
	if err != nil {
		return analytics.Stats{}, err
	}
	st.RevenueByDay = days
	top, err := r.topServices(ctx, companyID, w)
	if err != nil {
		return analytics.Stats{}, err
	}
	st.TopServices = top
	if err := r.ratingDistribution(ctx, companyID, w, st.RatingDistribution); err != nil {
		return analytics.Stats{}, err
	}
	return st, nil
}

func (r *AnalyticsRepo) statusCounts(ctx context.Context, companyID string, w analytics.Window, into map[string]int) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM bookings
		WHERE company_id = $1 AND booking_date >= $2::date
		GROUP BY status
	`, companyID, w.Start)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return err
		}
		into[status] = n
	}
	return rows.Err()
}

func (r *AnalyticsRepo) revenueByDay(ctx context.Context, companyID string, w analytics.Window) ([]analytics.DayRevenue, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			booking_date,
			COUNT(*),
			COALESCE(ROUND(SUM(total_amount) FILTER (WHERE status = 'completed'), 2), 0)
		FROM bookings
		WHERE company_id = $1 AND booking_date >= $2::date
		GROUP BY booking_date
		ORDER BY booking_date ASC
	`, companyID, w.Start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]analytics.DayRevenue, 0)
	for rows.Next() {
		var (
			d    analytics.DayRevenue
			date sql.NullTime
		)
		if err := rows.Scan(&date, &d.Bookings, &d.Revenue); err != nil {
			return nil, err
		}
		d.Date = date.Time.Format("2006-01-02")
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepo) topServices(ctx context.Context, companyID string, w analytics.Window) ([]analytics.ServiceCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			b.service_id,
			COALESCE(s.name, ''),
			COUNT(*),
			COALESCE(ROUND(SUM(b.total_amount) FILTER (WHERE b.status = 'completed'), 2), 0)
		FROM bookings b
		LEFT JOIN services s ON s.id = b.service_id
		WHERE b.company_id = $1 AND b.booking_date >= $2::date
		GROUP BY b.service_id, s.name
		ORDER BY COUNT(*) DESC, b.service_id ASC
		LIMIT $3
	`, companyID, w.Start, analytics.TopServicesLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]analytics.ServiceCount, 0)
	for rows.Next() {
		var sc analytics.ServiceCount
		if err := rows.Scan(&sc.ServiceID, &sc.Name, &sc.Bookings, &sc.Revenue); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepo) ratingDistribution(ctx context.Context, companyID string, w analytics.Window, into map[string]int) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rating, COUNT(*)
		FROM reviews
		WHERE company_id = $1 AND created_at >= $2
		GROUP BY rating
	`, companyID, w.StartTime())
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var rating, n int
		if err := rows.Scan(&rating, &n); err != nil {
			return err
		}
		into[strconv.Itoa(rating)] = n
	}
	return rows.Err()
}
