package reviews

import "context"

type Repository interface {
	// Create devuelve tenancy.ErrDuplicate si la reserva ya tiene reseña.
	Create(ctx context.Context, rv Review) error
	ListByCompany(ctx context.Context, companyID string, offset, limit int) ([]Review, int, error)
}
