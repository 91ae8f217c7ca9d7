package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-care-marketplace/internal/domain/bookings"
	"pet-care-marketplace/internal/domain/employees"
)

// BookingsRepo implementa bookings.Repository y employees.BookingReader.
type BookingsRepo struct {
	db *sql.DB
}

func NewBookingsRepo(db *sql.DB) *BookingsRepo {
	return &BookingsRepo{db: db}
}

const bookingColumns = `
	id, company_id, service_id, pet_owner_id, pet_id, COALESCE(employee_id, ''),
	status, booking_date, booking_time, duration, total_amount, notes,
	created_at, updated_at`

func scanBooking(s scanner) (bookings.Booking, error) {
	var (
		b    bookings.Booking
		date sql.NullTime
	)
	if err := s.Scan(
		&b.ID, &b.CompanyID, &b.ServiceID, &b.PetOwnerID, &b.PetID, &b.EmployeeID,
		&b.Status, &date, &b.Time, &b.Duration, &b.TotalAmount, &b.Notes,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return bookings.Booking{}, err
	}
	if date.Valid {
		b.Date = date.Time.Format("2006-01-02")
	}
	return b, nil
}

func (r *BookingsRepo) Create(ctx context.Context, b bookings.Booking) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bookings (
			id, company_id, service_id, pet_owner_id, pet_id, employee_id,
			status, booking_date, booking_time, duration, total_amount, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		b.ID, b.CompanyID, b.ServiceID, b.PetOwnerID, b.PetID, nullString(b.EmployeeID),
		string(b.Status), b.Date, b.Time, b.Duration, b.TotalAmount, b.Notes,
		b.CreatedAt, b.UpdatedAt,
	)
	return mapWriteErr(err)
}

func (r *BookingsRepo) getBy(ctx context.Context, scopeCol, scope, id string) (bookings.Booking, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+bookingColumns+` FROM bookings WHERE `+scopeCol+` = $1 AND id = $2
	`, scope, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return bookings.Booking{}, ErrNotFound
	}
	return b, err
}

func (r *BookingsRepo) GetForCompany(ctx context.Context, companyID, id string) (bookings.Booking, error) {
	return r.getBy(ctx, "company_id", companyID, id)
}

func (r *BookingsRepo) GetForOwner(ctx context.Context, ownerID, id string) (bookings.Booking, error) {
	return r.getBy(ctx, "pet_owner_id", ownerID, id)
}

func (r *BookingsRepo) UpdateStatus(ctx context.Context, b bookings.Booking) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1
	`, b.ID, string(b.Status), b.UpdatedAt)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *BookingsRepo) ListByCompany(ctx context.Context, companyID string, q bookings.Query) ([]bookings.Booking, int, error) {
	w := &where{}
	w.add("company_id = ?", companyID)
	if q.Status != "" {
		w.add("status = ?", string(q.Status))
	}
	if q.Date != "" {
		w.add("booking_date = ?::date", q.Date)
	}
	if q.DateFrom != "" {
		w.add("booking_date >= ?::date", q.DateFrom)
	}
	if q.DateTo != "" {
		w.add("booking_date <= ?::date", q.DateTo)
	}
	return r.list(ctx, w, q.Offset, q.Limit)
}

func (r *BookingsRepo) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]bookings.Booking, int, error) {
	w := &where{}
	w.add("pet_owner_id = ?", ownerID)
	return r.list(ctx, w, offset, limit)
}

func (r *BookingsRepo) list(ctx context.Context, w *where, offset, limit int) ([]bookings.Booking, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE `+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	suffix, args := w.page(limit, offset)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE `+w.String()+`
		ORDER BY booking_date DESC, booking_time DESC, id DESC`+suffix, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]bookings.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *BookingsRepo) CountOpenByEmployee(ctx context.Context, companyID, employeeID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE company_id = $1 AND employee_id = $2 AND status IN ('pending', 'confirmed')
	`, companyID, employeeID).Scan(&n)
	return n, err
}

func (r *BookingsRepo) OpenSlotsOn(ctx context.Context, companyID, date string) ([]employees.Slot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT employee_id, booking_time, duration
		FROM bookings
		WHERE company_id = $1
		  AND booking_date = $2::date
		  AND employee_id IS NOT NULL
		  AND status NOT IN ('cancelled', 'completed')
	`, companyID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]employees.Slot, 0)
	for rows.Next() {
		var s employees.Slot
		if err := rows.Scan(&s.EmployeeID, &s.Time, &s.Duration); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
