package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-care-marketplace/internal/domain/waitlist"
)

type WaitlistRepo struct {
	db *sql.DB
}

func NewWaitlistRepo(db *sql.DB) *WaitlistRepo {
	return &WaitlistRepo{db: db}
}

func (r *WaitlistRepo) Create(ctx context.Context, e waitlist.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO waitlist (id, email, phone, type, created_at) VALUES ($1,$2,$3,$4,$5)
	`, e.ID, e.Email, e.Phone, string(e.Type), e.CreatedAt)
	return mapWriteErr(err)
}

func (r *WaitlistRepo) List(ctx context.Context, typ waitlist.Type, offset, limit int) ([]waitlist.Entry, int, error) {
	w := &where{}
	if typ != "" {
		w.add("type = ?", string(typ))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM waitlist WHERE `+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	suffix, args := w.page(limit, offset)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, phone, type, created_at
		FROM waitlist
		WHERE `+w.String()+`
		ORDER BY created_at DESC, id DESC`+suffix, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]waitlist.Entry, 0)
	for rows.Next() {
		var e waitlist.Entry
		if err := rows.Scan(&e.ID, &e.Email, &e.Phone, &e.Type, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (r *WaitlistRepo) CountByType(ctx context.Context) (map[waitlist.Type]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT type, COUNT(*) FROM waitlist GROUP BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[waitlist.Type]int{}
	for rows.Next() {
		var (
			t string
			n int
		)
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		out[waitlist.Type(t)] = n
	}
	return out, rows.Err()
}

func (r *WaitlistRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM waitlist WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}
