package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"pet-care-marketplace/internal/domain/waitlist"
)

type WaitlistRepo struct {
	mu    sync.RWMutex
	items []waitlist.Entry // orden de alta
}

func NewWaitlistRepo() *WaitlistRepo {
	return &WaitlistRepo{}
}

func (r *WaitlistRepo) Create(_ context.Context, e waitlist.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.items {
		if o.Type == e.Type && strings.EqualFold(o.Email, e.Email) {
			return ErrDuplicate
		}
	}
	r.items = append(r.items, e)
	return nil
}

func (r *WaitlistRepo) List(_ context.Context, typ waitlist.Type, offset, limit int) ([]waitlist.Entry, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]waitlist.Entry, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		if typ == "" || r.items[i].Type == typ {
			out = append(out, r.items[i])
		}
	}
	return paginate(out, offset, limit), len(out), nil
}

func (r *WaitlistRepo) CountByType(_ context.Context) (map[waitlist.Type]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m := map[waitlist.Type]int{}
	for _, e := range r.items {
		m[e.Type]++
	}
	return m, nil
}

func (r *WaitlistRepo) CountSince(_ context.Context, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, e := range r.items {
		if !e.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}
