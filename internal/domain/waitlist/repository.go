package waitlist

import (
	"context"
	"time"
)

type Repository interface {
	// Create devuelve tenancy.ErrDuplicate si (email, type) ya existe.
	Create(ctx context.Context, e Entry) error
	// List filtra por tipo si typ != ""; más nuevos primero.
	List(ctx context.Context, typ Type, offset, limit int) ([]Entry, int, error)
	CountByType(ctx context.Context) (map[Type]int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}
