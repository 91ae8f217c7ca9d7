package reviews

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID         string
	CompanyID  string
	PetOwnerID string
	// BookingID queda vacío si la reserva se borró (SET NULL).
	BookingID string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
