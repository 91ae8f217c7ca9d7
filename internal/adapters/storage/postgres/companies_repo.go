package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-care-marketplace/internal/domain/companies"
	"pet-care-marketplace/internal/platform/jsoncol"
)

type CompaniesRepo struct {
	db *sql.DB
}

func NewCompaniesRepo(db *sql.DB) *CompaniesRepo {
	return &CompaniesRepo{db: db}
}

const companyColumns = `
	id, name, COALESCE(email, ''), phone, address, city, state, zip_code, country,
	website, description, business_hours, images, verified, verified_at,
	subscription_plan, created_at, updated_at`

func scanCompany(s scanner) (companies.Company, error) {
	var (
		c          companies.Company
		hours, img []byte
		verifiedAt sql.NullTime
	)
	if err := s.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City, &c.State, &c.ZipCode, &c.Country,
		&c.Website, &c.Description, &hours, &img, &c.Verified, &verifiedAt,
		&c.SubscriptionPlan, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return companies.Company{}, err
	}
	c.BusinessHours = jsoncol.Parse(hours, companies.DefaultBusinessHours)
	c.Images = jsoncol.Parse(img, jsoncol.EmptyList)
	if verifiedAt.Valid {
		t := verifiedAt.Time
		c.VerifiedAt = &t
	}
	return c, nil
}

func (r *CompaniesRepo) Get(ctx context.Context, id string) (companies.Company, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	c, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return companies.Company{}, ErrNotFound
	}
	return c, err
}

// CreateIfAbsent: INSERT ... ON CONFLICT (id) DO NOTHING y luego lee la fila ganadora.
func (r *CompaniesRepo) CreateIfAbsent(ctx context.Context, c companies.Company) (companies.Company, error) {
	hours, err := jsoncol.Encode(c.BusinessHours)
	if err != nil {
		return companies.Company{}, err
	}
	img, err := jsoncol.Encode(c.Images)
	if err != nil {
		return companies.Company{}, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO companies (
			id, name, email, phone, address, city, state, zip_code, country,
			website, description, business_hours, images, verified, verified_at,
			subscription_plan, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		ON CONFLICT (id) DO NOTHING
	`,
		c.ID, c.Name, nullString(c.Email), c.Phone, c.Address, c.City, c.State, c.ZipCode, c.Country,
		c.Website, c.Description, hours, img, c.Verified, nullTime(c.VerifiedAt),
		c.SubscriptionPlan, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return companies.Company{}, mapWriteErr(err)
	}
	return r.Get(ctx, c.ID)
}

func (r *CompaniesRepo) Update(ctx context.Context, c companies.Company) error {
	hours, err := jsoncol.Encode(c.BusinessHours)
	if err != nil {
		return err
	}
	img, err := jsoncol.Encode(c.Images)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE companies SET
			name = $2, email = $3, phone = $4, address = $5, city = $6, state = $7,
			zip_code = $8, country = $9, website = $10, description = $11,
			business_hours = $12, images = $13, verified = $14, verified_at = $15,
			subscription_plan = $16, updated_at = $17
		WHERE id = $1
	`,
		c.ID, c.Name, nullString(c.Email), c.Phone, c.Address, c.City, c.State,
		c.ZipCode, c.Country, c.Website, c.Description,
		hours, img, c.Verified, nullTime(c.VerifiedAt),
		c.SubscriptionPlan, c.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr(err)
	}
	return expectOne(res)
}

func (r *CompaniesRepo) ListVerified(ctx context.Context, q companies.PublicQuery) ([]companies.Company, int, error) {
	w := &where{}
	w.addRaw("verified = TRUE")
	if q.City != "" {
		w.add("lower(city) = lower(?)", q.City)
	}
	if q.Search != "" {
		w.add(`(name ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\')`, containsPattern(q.Search))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies WHERE `+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	suffix, args := w.page(q.Limit, q.Offset)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+companyColumns+`
		FROM companies
		WHERE `+w.String()+`
		ORDER BY name ASC, id ASC`+suffix, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]companies.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}
