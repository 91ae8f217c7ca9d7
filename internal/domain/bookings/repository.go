package bookings

import "context"

type Repository interface {
	Create(ctx context.Context, b Booking) error
	GetForCompany(ctx context.Context, companyID, id string) (Booking, error)
	GetForOwner(ctx context.Context, ownerID, id string) (Booking, error)
	// UpdateStatus persiste status y updated_at; el resto de la fila no cambia.
	UpdateStatus(ctx context.Context, b Booking) error
	ListByCompany(ctx context.Context, companyID string, q Query) ([]Booking, int, error)
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]Booking, int, error)
}
