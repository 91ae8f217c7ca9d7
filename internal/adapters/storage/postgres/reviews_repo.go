package postgres

import (
	"context"
	"database/sql"

	"pet-care-marketplace/internal/domain/reviews"
)

type ReviewsRepo struct {
	db *sql.DB
}

func NewReviewsRepo(db *sql.DB) *ReviewsRepo {
	return &ReviewsRepo{db: db}
}

// Create: booking_id es UNIQUE; una segunda reseña devuelve ErrDuplicate.
func (r *ReviewsRepo) Create(ctx context.Context, rv reviews.Review) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (id, company_id, pet_owner_id, booking_id, rating, comment, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, rv.ID, rv.CompanyID, rv.PetOwnerID, nullString(rv.BookingID), rv.Rating, rv.Comment, rv.CreatedAt)
	return mapWriteErr(err)
}

func (r *ReviewsRepo) ListByCompany(ctx context.Context, companyID string, offset, limit int) ([]reviews.Review, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews WHERE company_id = $1`, companyID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, company_id, pet_owner_id, COALESCE(booking_id, ''), rating, comment, created_at
		FROM reviews
		WHERE company_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, companyID, limitArg(limit), offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]reviews.Review, 0)
	for rows.Next() {
		var rv reviews.Review
		if err := rows.Scan(&rv.ID, &rv.CompanyID, &rv.PetOwnerID, &rv.BookingID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, rv)
	}
	return out, total, rows.Err()
}
