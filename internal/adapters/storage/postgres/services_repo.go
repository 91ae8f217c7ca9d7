package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pet-care-marketplace/internal/domain/catalog"
	"pet-care-marketplace/internal/domain/tenancy"
)

// ServicesRepo implementa tenancy.Repository[catalog.Offering].
type ServicesRepo struct {
	db *sql.DB
}

func NewServicesRepo(db *sql.DB) *ServicesRepo {
	return &ServicesRepo{db: db}
}

const serviceColumns = `id, company_id, name, description, category, price, duration, active, created_at, updated_at`

func scanService(s scanner) (catalog.Offering, error) {
	var o catalog.Offering
	err := s.Scan(&o.ID, &o.CompanyID, &o.Name, &o.Description, &o.Category,
		&o.Price, &o.Duration, &o.Active, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *ServicesRepo) Get(ctx context.Context, companyID, id string) (catalog.Offering, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+serviceColumns+` FROM services WHERE company_id = $1 AND id = $2
	`, companyID, id)
	o, err := scanService(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Offering{}, ErrNotFound
	}
	return o, err
}

func (r *ServicesRepo) List(ctx context.Context, companyID string, q tenancy.ListQuery) ([]catalog.Offering, int, error) {
	w := &where{}
	w.add("company_id = ?", companyID)
	if q.Active != nil {
		w.add("active = ?", *q.Active)
	}
	if c := q.Filters["category"]; c != "" {
		w.add("lower(category) = lower(?)", c)
	}
	if q.Search != "" {
		w.add(`(name ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\')`, containsPattern(q.Search))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM services WHERE `+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	suffix, args := w.page(q.Limit, q.Offset)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE `+w.String()+`
		ORDER BY created_at DESC, id DESC`+suffix, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]catalog.Offering, 0)
	for rows.Next() {
		o, err := scanService(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

func (r *ServicesRepo) Create(ctx context.Context, o catalog.Offering) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO services (`+serviceColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, o.ID, o.CompanyID, o.Name, o.Description, o.Category, o.Price, o.Duration, o.Active, o.CreatedAt, o.UpdatedAt)
	return mapWriteErr(err)
}

func (r *ServicesRepo) Update(ctx context.Context, o catalog.Offering) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE services SET
			name = $3, description = $4, category = $5, price = $6,
			duration = $7, active = $8, updated_at = $9
		WHERE company_id = $1 AND id = $2
	`, o.CompanyID, o.ID, o.Name, o.Description, o.Category, o.Price, o.Duration, o.Active, o.UpdatedAt)
	if err != nil {
		return mapWriteErr(err)
	}
	return expectOne(res)
}

func (r *ServicesRepo) Deactivate(ctx context.Context, companyID, id string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE services SET active = FALSE, updated_at = $3 WHERE company_id = $1 AND id = $2
	`, companyID, id, now)
	if err != nil {
		return err
	}
	return expectOne(res)
}
