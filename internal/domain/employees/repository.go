package employees

import "context"

// BookingReader es lo que employees necesita de las reservas.
// Lo implementan los repos de bookings (memory y postgres).
type BookingReader interface {
	// CountOpenByEmployee cuenta reservas pending/confirmed del empleado.
	CountOpenByEmployee(ctx context.Context, companyID, employeeID string) (int, error)
	// OpenSlotsOn lista reservas pending/confirmed con empleado asignado en date.
	OpenSlotsOn(ctx context.Context, companyID, date string) ([]Slot, error)
}
